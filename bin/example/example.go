package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/levenlabs/go-llog"
	"github.com/mediocregopher/lever"

	"github.com/levenlabs/clientrpc"
)

// MathService is the contract for the math endpoints served below, routed
// by an explicit base url.
type MathService struct {
	Add  func(ctx context.Context, terms []int64) (int64, error)
	Echo func(ctx context.Context, s string) (string, error)
}

// demoAddr is set once the listener is up. EchoService reads it from its
// BasePath method, showing a base path which depends on runtime state.
var demoAddr string

// EchoService declares its own base path instead of being handed one.
type EchoService struct {
	Say func(ctx context.Context, s string) (string, error)
}

func (EchoService) BasePath() string {
	return "http://" + demoAddr + "/api/echo"
}

func main() {
	_ = godotenv.Load()

	l := lever.New("example", nil)
	l.Add(lever.Param{
		Name:        "--listen-addr",
		Description: "address:port for the demo service to listen on, or just :port",
		Default:     "127.0.0.1:8886",
	})
	l.Add(lever.Param{
		Name:        "--log-level",
		Description: "minimum log level to show, either debug, info, warn, or error",
		Default:     "debug",
	})
	l.Parse()
	listenAddr, _ := l.ParamStr("--listen-addr")
	logLevel, _ := l.ParamStr("--log-level")

	llog.SetLevelFromString(logLevel)

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		panic(err)
	}
	demoAddr = ln.Addr().String()
	go http.Serve(ln, demoMux())
	llog.Info("demo service up", llog.KV{"addr": demoAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	math, err := clientrpc.New[MathService]("http://" + demoAddr + "/api/math")
	if err != nil {
		panic(err)
	}

	sum, err := math.Add(ctx, []int64{1, 2, 3, 4})
	if err != nil {
		llog.Error("Error calling Add", llog.KV{"error": err})
		return
	}
	llog.Info("Add returned", llog.KV{"sum": sum})

	echoed, err := math.Echo(ctx, "hello")
	if err != nil {
		llog.Error("Error calling Echo", llog.KV{"error": err})
		return
	}
	llog.Info("Echo returned", llog.KV{"echo": echoed})

	// EchoService carries its own base path, so none is passed here
	echo, err := clientrpc.New[EchoService]("")
	if err != nil {
		panic(err)
	}

	said, err := echo.Say(ctx, "routed by the contract itself")
	if err != nil {
		llog.Error("Error calling Say", llog.KV{"error": err})
		return
	}
	llog.Info("Say returned", llog.KV{"echo": said})
}

// demoMux serves the endpoints the contracts above describe: one JSON value
// in, one JSON value out, POST only.
func demoMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/math/Add", handle(func(terms []int64) int64 {
		var sum int64
		for _, v := range terms {
			sum += v
		}
		return sum
	}))
	mux.HandleFunc("/api/math/Echo", handle(func(s string) string {
		return s
	}))
	mux.HandleFunc("/api/echo/Say", handle(func(s string) string {
		return "you said: " + s
	}))
	return mux
}

// handle adapts a pure function to the wire shape the proxies speak.
func handle[A, R any](fn func(A) R) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		var arg A
		if err := json.NewDecoder(r.Body).Decode(&arg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(fn(arg)); err != nil {
			llog.Error("Error encoding response", llog.KV{"error": err})
		}
	}
}
