// Command rrpc-demo drives the boundary end to end: it initializes the
// runtime, registers a few handlers, and issues calls the way a foreign
// caller would, releasing every transferred buffer.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/google/uuid"

	"github.com/rrpc-dev/rrpc-go/boundary"
	"github.com/rrpc-dev/rrpc-go/codec"
	"github.com/rrpc-dev/rrpc-go/rpcerror"
	"github.com/rrpc-dev/rrpc-go/runtime"
)

type createNodeRequest struct {
	Title string `json:"title"`
}

type createNodeResponse struct {
	Id    string `json:"id"`
	Title string `json:"title"`
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	fmt.Println("=== rRPC Echo Demo ===")

	boundary.Initialize()
	state, _ := runtime.Current()

	state.Register("echo", func(input []byte) ([]byte, error) {
		slog.Info("echo received", "bytes", len(input))
		return input, nil
	})
	state.Register("reverse", func(input []byte) ([]byte, error) {
		out := slices.Clone(input)
		slices.Reverse(out)
		return out, nil
	})
	state.Register("node.create", codec.Typed(codec.JSON(), func(req createNodeRequest) (createNodeResponse, error) {
		if req.Title == "" {
			return createNodeResponse{}, rpcerror.NewNotFound("node title")
		}
		return createNodeResponse{Id: uuid.NewString(), Title: req.Title}, nil
	}))

	slog.Info("registered handlers", "methods", state.Methods())

	invoke("echo", []byte("Hello, rRPC!"))
	invoke("reverse", []byte("Hello, rRPC!"))
	invoke("node.create", []byte(`{"title":"inbox"}`))
	invoke("missing", []byte("test"))

	fmt.Println("=== Demo Complete ===")
}

// invoke performs one boundary call and releases the transferred buffer.
func invoke(method string, input []byte) {
	var (
		buf    boundary.Buffer
		bufLen uint64
	)
	status := boundary.Call([]byte(method), input, &buf, &bufLen)
	if status != boundary.StatusSuccess {
		slog.Warn("call failed", "method", method, "status", int32(status))
		return
	}
	defer boundary.Release(buf, bufLen)

	out, _ := boundary.Bytes(buf)
	fmt.Printf("%s(%q) -> %q\n", method, input, out)
}
