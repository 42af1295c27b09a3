package plugin

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/byte4ever/semrel_gitlab/semrel/config"
)

// Invocation is the payload a release host sends for one
// hook call.
type Invocation struct {
	PluginConfig config.PluginConfig `json:"pluginConfig"`
	NextRelease  config.Release      `json:"nextRelease"`
}

// DecodeInvocation reads one JSON Invocation from r.
// Unknown fields are ignored so hosts can pass their full
// context object.
func DecodeInvocation(r io.Reader) (*Invocation, error) {
	const errCtx = "decoding invocation"

	var inv Invocation
	if err := json.NewDecoder(r).Decode(&inv); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &inv, nil
}
