// Package codec marshals typed payloads on either side of the boundary. The
// core never inspects payload structure; this package is caller-side
// convenience for building typed handlers over the raw byte contract.
package codec

import (
	"github.com/bytedance/sonic"

	"github.com/rrpc-dev/rrpc-go/registry"
	"github.com/rrpc-dev/rrpc-go/rpcerror"
)

// Codec translates between typed values and the byte payloads the boundary
// moves.
type Codec interface {
	// Name identifies the encoding, e.g. "json".
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSON returns the default JSON codec, backed by sonic.
func JSON() Codec { return jsonCodec{} }

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// Typed wraps a typed function into a registry.Handler using c. Decode
// failures surface as ParseError and encode failures as SerializationError;
// errors returned by fn are relayed unchanged.
func Typed[Req any, Resp any](c Codec, fn func(Req) (Resp, error)) registry.Handler {
	return func(input []byte) ([]byte, error) {
		var req Req
		if err := c.Unmarshal(input, &req); err != nil {
			return nil, rpcerror.NewParseError(err.Error())
		}
		resp, err := fn(req)
		if err != nil {
			return nil, err
		}
		out, err := c.Marshal(resp)
		if err != nil {
			return nil, rpcerror.NewSerializationError(err.Error())
		}
		return out, nil
	}
}
