package clientrpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/levenlabs/go-llog"
)

// An Invoker carries one proxy method call to its remote end and fills in
// the result. Implementations issue exactly one request per call and never
// retry; recovery policy belongs to the caller. arg is nil when the method
// takes no argument. ret is nil when the method returns only an error, and
// otherwise a non-nil pointer to the method's return type.
type Invoker interface {
	Invoke(ctx context.Context, m Method, arg, ret interface{}) error
}

// nullBody is sent for methods which take no argument
var nullBody = []byte("null")

// httpInvoker posts plain encoded bodies to base+method urls. One instance
// is shared by every method closure of one proxy.
type httpInvoker struct {
	client *http.Client
	codec  Codec
	header http.Header
	base   *basePath
	srv    bool
}

func (h *httpInvoker) Invoke(ctx context.Context, m Method, arg, ret interface{}) error {
	body := nullBody
	if arg != nil {
		var err error
		if body, err = h.codec.Encode(arg); err != nil {
			return err
		}
	}

	// The base path cell may be written after the closures are built, so the
	// target url is assembled fresh on every call.
	target := h.base.load() + m.Name
	if h.srv {
		target = resolveHost(target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", h.codec.ContentType())
	for k, vs := range h.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	llog.Debug("Calling remote method", llog.KV{
		"method": m.Name,
		"url":    target,
	})

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("rpc: non-2xx status returned from %s: %s", target, resp.Status)
	}
	if ret == nil {
		// methods which only return an error still drain the body so the
		// connection can be reused
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	return h.codec.Decode(resp.Body, ret)
}
