package wizard

import (
	"fmt"
	"strconv"
	"strings"
)

// Fields is the accumulated form state, keyed by field name.
type Fields map[string]string

// Get returns the trimmed value for key.
func (f Fields) Get(key string) string {
	return strings.TrimSpace(f[key])
}

// Has reports whether key holds a non-blank value.
func (f Fields) Has(key string) bool {
	return f.Get(key) != ""
}

// Clone returns an independent copy.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// List splits a comma or semicolon separated value, dropping blanks and repeats.
func (f Fields) List(key string) []string {
	raw := strings.FieldsFunc(f[key], func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	seen := map[string]struct{}{}
	var out []string
	for _, part := range raw {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		lower := strings.ToLower(p)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Int parses key as a base-10 integer.
func (f Fields) Int(key string) (int, error) {
	v := f.Get(key)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("field %s: %q is not a number", key, v)
	}
	return n, nil
}

// IntOr parses key, falling back to def when the field is blank.
func (f Fields) IntOr(key string, def int) (int, error) {
	if !f.Has(key) {
		return def, nil
	}
	return f.Int(key)
}
