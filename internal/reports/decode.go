package reports

import (
	"bytes"
	"encoding/json"
	"fmt"

	"tesouraria/internal/core"
)

// DecodeResults decodes a persisted result blob. Reports written by older
// clients arrive in one of three shapes: a plain JSON array, an object
// wrapping the array under "results", or either of those string-encoded one
// level deep. Field-level absence inside each record is always tolerated by
// the record types themselves; only a structurally unreadable blob is an
// error.
func DecodeResults(raw []byte) ([]core.MatchResult, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []core.MatchResult{}, nil
	}

	// Unwrap a string-encoded blob.
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("unwrap encoded results: %w", err)
		}
		return DecodeResults([]byte(inner))
	}

	if raw[0] == '{' {
		var wrapper struct {
			Results []core.MatchResult `json:"results"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, fmt.Errorf("decode results object: %w", err)
		}
		if wrapper.Results == nil {
			return []core.MatchResult{}, nil
		}
		return wrapper.Results, nil
	}

	var results []core.MatchResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("decode results array: %w", err)
	}
	return results, nil
}
