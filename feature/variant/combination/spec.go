package combination

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"variant-manager/core/utils"
)

// AttributeSpec is one attribute with its raw comma separated value list.
type AttributeSpec struct {
	Attribute string `json:"attribute"`
	Values    string `json:"values"`
}

// Spec is an ordered list of attribute specs. Expansion follows this order.
type Spec []AttributeSpec

// UnmarshalJSON reads a JSON object of attribute to value list, keeping the
// key order of the document.
func (s *Spec) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("attribute spec must be a JSON object")
	}

	out := Spec{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		values, err := rawValues(raw)
		if err != nil {
			return fmt.Errorf("attribute %s: %w", key, err)
		}
		out = append(out, AttributeSpec{Attribute: key, Values: values})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

// MarshalJSON writes the spec back as an ordered JSON object.
func (s Spec) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Attribute)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.Values)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// rawValues accepts a comma separated string, a number or a list of either.
func rawValues(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case float64:
		return utils.ToString(v), nil
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			s, err := rawValues(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", raw)
	}
}

// ParseSpec builds a spec from "Attribute=v1,v2" arguments, in order.
func ParseSpec(args []string) (Spec, error) {
	spec := make(Spec, 0, len(args))
	for _, arg := range args {
		attribute, values, ok := strings.Cut(arg, "=")
		attribute = strings.TrimSpace(attribute)
		if !ok || attribute == "" {
			return nil, fmt.Errorf("invalid attribute spec %q, expected Attribute=value1,value2", arg)
		}
		spec = append(spec, AttributeSpec{Attribute: attribute, Values: values})
	}
	return spec, nil
}

// SplitValues strips stray separators and whitespace from a raw value list
// and returns its trimmed, non-empty tokens.
func SplitValues(raw string) []string {
	raw = strings.Trim(raw, " ,\t\n")
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
