package server

import (
	"encoding/json"
	"fmt"
)

// Codec carries RPC messages as plain JSON. It registers under connect's
// "json" name so browser clients using the JSON content type work unchanged.
type Codec struct{}

func (Codec) Name() string {
	return "json"
}

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("invalid json message: %w", err)
	}
	return nil
}
