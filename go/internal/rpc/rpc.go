// Package rpc holds what the connect services share: a plain JSON codec and error mapping.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"connectrpc.com/connect"
)

// JSONCodec marshals request and response structs with encoding/json.
// It is registered under the "json" name so it replaces the protobuf JSON codec.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// WithJSON configures a handler or client to speak plain JSON
func WithJSON() connect.Option {
	return connect.WithCodec(JSONCodec{})
}

// Unary registers a unary procedure on mux
func Unary[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts ...connect.HandlerOption) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

// HandlerOptions puts the JSON codec in front of the caller's options
func HandlerOptions(opts ...connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{WithJSON()}, opts...)
}

// Rule maps an error family to a status code
type Rule struct {
	Target error
	Code   connect.Code
}

// Error converts err with the first matching rule. Unmatched errors become CodeInternal.
func Error(err error, rules ...Rule) error {
	for _, r := range rules {
		if errors.Is(err, r.Target) {
			return connect.NewError(r.Code, err)
		}
	}
	return connect.NewError(connect.CodeInternal, err)
}

// Empty is the message for procedures with nothing to send or return
type Empty struct{}
