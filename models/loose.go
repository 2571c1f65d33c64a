// ABOUTME: Lenient decoding of scalar JSON fields in stored and imported documents
// ABOUTME: Numbers and booleans in text fields keep their literal form instead of failing the load
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// looseText returns the text form of a JSON scalar. Numbers keep their literal
// spelling and booleans become "true" or "false". Null, objects and arrays are "".
func looseText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case 'n', '{', '[':
		return ""
	default:
		return string(raw)
	}
}

// looseBool accepts true/false, their string spellings and non-zero numbers.
func looseBool(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 't':
		return true
	case '"':
		b, err := strconv.ParseBool(looseText(raw))
		return err == nil && b
	case 'f', 'n', '{', '[':
		return false
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && f != 0
	}
}

// objectFields splits a JSON object into its raw members.
func objectFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return fields, nil
}

// objectElements returns the object members of a JSON array. Anything that is
// not an array yields nothing, and elements that are not objects are dropped.
func objectElements(raw json.RawMessage) []json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	out := elems[:0]
	for _, e := range elems {
		if e = bytes.TrimSpace(e); len(e) > 0 && e[0] == '{' {
			out = append(out, e)
		}
	}
	return out
}
