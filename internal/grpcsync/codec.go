// Package grpcsync speaks the ordersync gRPC contract with the management service.
// Messages are JSON encoded; there are no generated stubs.
package grpcsync

import "encoding/json"

type JSONCodec struct{}

func (JSONCodec) Name() string                       { return "json" }
func (JSONCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
