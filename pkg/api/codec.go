// Package api holds the wire messages of the ledgerly RPC services.
//
// Messages are plain Go structs encoded as JSON. Amounts travel as decimal
// strings ("12.50") and dates as "YYYY-MM-DD".
package api

import (
	"encoding/json"
	"fmt"
)

// JSONCodec is the connect.Codec used by every ledgerly handler and client.
// It replaces connect's protobuf-only "json" codec.
type JSONCodec struct{}

// Name implements connect.Codec.
func (JSONCodec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
