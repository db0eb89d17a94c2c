package clientrpc

import (
	"encoding/json"
	"io"
)

// Codec translates between Go values and request and response bodies. A
// Codec must be safe for concurrent use; one instance is shared by every
// method of every proxy built from the same Client.
type Codec interface {
	// ContentType is sent as the Content-Type header of every request
	// encoded by this codec.
	ContentType() string

	// Encode renders a method argument into a request body.
	Encode(v interface{}) ([]byte, error)

	// Decode reads a response body into ret, which is always a non-nil
	// pointer to the method's return type.
	Decode(r io.Reader, ret interface{}) error
}

// JSONCodec is the default Codec. Bodies are plain JSON documents whose
// shape is determined entirely by the contract's argument and return types,
// with no envelope around them.
type JSONCodec struct{}

// ContentType implements the Codec interface.
func (JSONCodec) ContentType() string {
	return "application/json; charset=utf-8"
}

// Encode implements the Codec interface using encoding/json.
func (JSONCodec) Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Decode implements the Codec interface, consuming r as a stream.
func (JSONCodec) Decode(r io.Reader, ret interface{}) error {
	return json.NewDecoder(r).Decode(ret)
}
