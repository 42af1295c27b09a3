package config

import (
	"bytes"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// ProjectID identifies a GitLab project either by its
// numeric id or by its full path. It decodes from both
// string and number values.
type ProjectID string

// UnmarshalJSON accepts "group/app", "42" and 42.
func (p *ProjectID) UnmarshalJSON(b []byte) error {
	const errCtx = "decoding project id"

	b = bytes.TrimSpace(b)

	switch {
	case bytes.Equal(b, []byte("null")):
		*p = ""

		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		*p = ProjectID(s)

		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		*p = ProjectID(n.String())

		return nil
	}
}

// UnmarshalYAML accepts string and integer scalars.
func (p *ProjectID) UnmarshalYAML(
	unmarshal func(interface{}) error,
) error {
	const errCtx = "decoding project id"

	var v interface{}
	if err := unmarshal(&v); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	switch tv := v.(type) {
	case nil:
		*p = ""
	case string:
		*p = ProjectID(tv)
	case int:
		*p = ProjectID(strconv.Itoa(tv))
	case int64:
		*p = ProjectID(strconv.FormatInt(tv, 10))
	case uint64:
		*p = ProjectID(strconv.FormatUint(tv, 10))
	default:
		return fmt.Errorf(
			"%s: unsupported value %v (%T)", errCtx, v, v,
		)
	}

	return nil
}
