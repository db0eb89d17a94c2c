// Package rpc2 builds contract proxies which speak JSON-RPC 2.0, the
// encoding served by gorilla/rpc/v2 servers. The same contract structs used
// with clientrpc work unchanged; calls are posted to a single endpoint url
// with the method named inside the envelope as "Service.Method" instead of
// by path segment.
package rpc2

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/gorilla/rpc/v2/json2"

	"github.com/levenlabs/clientrpc"
)

// Client builds JSON-RPC 2.0 proxies. The zero value is usable.
type Client struct {
	// HTTPClient is used for every call. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Header is added to every outgoing request.
	Header http.Header
}

// DefaultClient is used by the package level NewProxy and New.
var DefaultClient = &Client{}

// Proxy fills the contract struct pointed to by contract with functions
// calling the JSON-RPC 2.0 endpoint at url. Methods are named inside the
// envelope as "service.Method"; an empty service defaults to the contract
// type's name, mirroring how gorilla/rpc names registered receivers, so
// that name must be exported.
func (c *Client) Proxy(contract interface{}, url, service string) error {
	if url == "" {
		return errors.New("rpc2: endpoint url required")
	}
	if service == "" {
		t := reflect.TypeOf(contract)
		if t == nil || t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
			return fmt.Errorf("rpc2: contract must be a non-nil pointer to a struct, got %T", contract)
		}
		// unnamed types fail this check too, their name being empty
		service = t.Elem().Name()
		if !isExported(service) {
			return errors.New("rpc2: contract type not exported")
		}
	}
	return clientrpc.Bind(contract, &invoker{
		client:  c.httpClient(),
		header:  c.Header,
		url:     url,
		service: service,
	})
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// isExported returns true if a string is an exported (upper case) name.
func isExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// NewProxy builds a proxy through DefaultClient. See Client.Proxy.
func NewProxy(contract interface{}, url, service string) error {
	return DefaultClient.Proxy(contract, url, service)
}

// New allocates a contract value of type T and builds its proxy through
// DefaultClient.
func New[T any](url, service string) (*T, error) {
	svc := new(T)
	if err := NewProxy(svc, url, service); err != nil {
		return nil, err
	}
	return svc, nil
}

// invoker implements clientrpc.Invoker over JSON-RPC 2.0 envelopes.
type invoker struct {
	client  *http.Client
	header  http.Header
	url     string
	service string
}

func (i *invoker) Invoke(ctx context.Context, m clientrpc.Method, arg, ret interface{}) error {
	body, err := json2.EncodeClientRequest(i.service+"."+m.Name, arg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	for k, vs := range i.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// some json-rpc servers reply 400 with an error envelope for method
	// errors, so that status is decoded rather than flattened into an opaque
	// status error
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("rpc2: non-2xx status returned from %s: %s", i.url, resp.Status)
	}
	if ret == nil {
		// the envelope still has to be read, since it may carry an error
		// even when the contract method returns nothing
		var discard json.RawMessage
		err = json2.DecodeClientResponse(resp.Body, &discard)
		if errors.Is(err, json2.ErrNullResult) {
			return nil
		}
		return err
	}
	return json2.DecodeClientResponse(resp.Body, ret)
}
