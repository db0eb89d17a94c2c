// Package clientrpc derives live client proxies from declarative service
// contracts: structs whose fields describe remote methods as plain function
// types. A contract's type is validated up front, with every violation
// reported at once, and each field is then filled with a closure performing
// one HTTP POST of the JSON-encoded argument to the contract's base path
// plus the field's name, decoding the JSON response into the declared
// return type.
//
//	type UserService struct {
//		GetUser  func(ctx context.Context, id int64) (UserDTO, error)
//		SaveUser func(ctx context.Context, u UserDTO) error
//	}
//
//	svc, err := clientrpc.New[UserService]("http://users.internal/api/users")
//	if err != nil {
//		// the contract itself is malformed
//	}
//	u, err := svc.GetUser(ctx, 42)
//
// Contracts may alternatively declare their own base path by implementing
// RemoteService, in which case an empty base url is passed and the path is
// read from the built instance itself.
package clientrpc

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/levenlabs/go-llog"
)

// Client builds live proxies for remote service contracts. Every proxy
// built from the same Client shares its http client and codec. The zero
// value is usable; fields must not be changed once the first proxy has been
// built.
type Client struct {
	// HTTPClient is used for every remote call. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Codec encodes call arguments and decodes responses. Defaults to
	// JSONCodec.
	Codec Codec

	// Header is added to every outgoing request, after the codec's
	// Content-Type.
	Header http.Header

	// ResolveSRV makes every call resolve its target host through a DNS SRV
	// lookup first, falling back to the host as written. Hosts are
	// re-resolved per call, so repeated calls balance across SRV targets.
	ResolveSRV bool
}

// DefaultClient is used by the package level NewProxy and New.
var DefaultClient = &Client{}

// Proxy fills the contract struct pointed to by contract with functions
// which each perform one POST to baseURL plus the field's name, with the
// argument as the body. An empty baseURL selects self-declared routing: the
// contract type must then implement RemoteService, and the path it declares
// is read through the freshly built instance before Proxy returns.
//
// On validation failure no field is written and the returned error lists
// every violation.
func (c *Client) Proxy(contract interface{}, baseURL string) error {
	if baseURL == "" {
		if _, ok := contract.(RemoteService); !ok {
			return fmt.Errorf("rpc: no base url given and %T does not implement RemoteService", contract)
		}
	}

	cell := new(basePath)
	err := Bind(contract, &httpInvoker{
		client: c.httpClient(),
		codec:  c.codec(),
		header: c.Header,
		base:   cell,
		srv:    c.ResolveSRV,
	})
	if err != nil {
		llog.Error("Error building contract proxy", llog.KV{
			"contract": fmt.Sprintf("%T", contract),
			"error":    err,
		})
		return err
	}

	// The base path is committed only after the fields are populated: in
	// self-declared mode it is a property of the built instance, which must
	// exist first. The cell is written exactly once, before the proxy is
	// handed to the caller.
	if baseURL == "" {
		baseURL = contract.(RemoteService).BasePath()
	}
	cell.store(NormalizeBasePath(baseURL))

	llog.Debug("Built contract proxy", llog.KV{
		"contract": reflect.TypeOf(contract).Elem().Name(),
		"base":     cell.load(),
	})
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) codec() Codec {
	if c.Codec != nil {
		return c.Codec
	}
	return JSONCodec{}
}

// NewProxy builds a proxy for contract through DefaultClient. See
// Client.Proxy.
func NewProxy(contract interface{}, baseURL string) error {
	return DefaultClient.Proxy(contract, baseURL)
}

// New allocates a contract value of type T and builds its proxy through
// DefaultClient. An empty baseURL selects self-declared routing.
func New[T any](baseURL string) (*T, error) {
	svc := new(T)
	if err := NewProxy(svc, baseURL); err != nil {
		return nil, err
	}
	return svc, nil
}
