// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/pdiddy/papersynth/pkg/types"
)

// errNotObject is returned when the reply decodes to something other than
// a JSON object.
var errNotObject = errors.New("response is not a JSON object")

// stripCodeFences removes a surrounding Markdown code fence
// ("```json ... ```" or "``` ... ```") from s.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimPrefix(s, "JSON")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseResponse decodes a service reply into an Analysis. With repair set,
// a reply that fails to decode is passed through JSON repair and decoded
// once more.
func ParseResponse(raw string, repair bool) (*types.Analysis, error) {
	text := stripCodeFences(raw)

	a, err := decodeAnalysis(text)
	if err == nil || !repair {
		return a, err
	}

	repaired, rerr := jsonrepair.JSONRepair(text)
	if rerr != nil {
		return nil, fmt.Errorf("%w (repair failed: %v)", err, rerr)
	}
	if a, rerr := decodeAnalysis(repaired); rerr == nil {
		return a, nil
	}
	return nil, err
}

func decodeAnalysis(text string) (*types.Analysis, error) {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if json.Valid(trimmed) {
			return nil, errNotObject
		}
	}
	var a types.Analysis
	if err := json.Unmarshal(trimmed, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
