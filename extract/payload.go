package extract

import "fmt"

// Payload is a decoded JSON object. Numbers decode as float64.
//
// The typed getters return the zero value when a key is absent and an
// ErrMalformedPayload error when the key is present with the wrong type.
type Payload map[string]any

// Has returns true if the key is present, even with a null value.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns a string field. Absent or null yields "".
func (p Payload) String(key string) (string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", typeError(key, "string", v)
	}
	return s, nil
}

// Bool returns a boolean field. Absent or null yields false.
// The strings "true" and "false" are accepted as well.
func (p Payload) Bool(key string) (bool, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return false, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch b {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, typeError(key, "boolean", v)
}

// Strings returns a list-of-strings field. Absent or null yields an empty
// slice, and a lone string is treated as a one-element list.
func (p Payload) Strings(key string) ([]string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return []string{}, nil
	}
	switch list := v.(type) {
	case string:
		return []string{list}, nil
	case []any:
		out := make([]string, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, typeError(fmt.Sprintf("%s[%d]", key, i), "string", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, typeError(key, "list of strings", v)
	}
}

func typeError(field, want string, got any) error {
	return &Error{
		Kind:  ErrMalformedPayload,
		Field: field,
		Err:   fmt.Errorf("expected %s, got %T", want, got),
	}
}
