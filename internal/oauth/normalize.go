package oauth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Zim95/browseterm-server/internal/domain/types"
)

// DecodeProfile decodifica un objeto JSON preservando los números como json.Number
// para no perder precisión en ids numéricos grandes.
func DecodeProfile(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("oauth: decode profile: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("oauth: decode profile: empty document")
	}
	return raw, nil
}

// DecodeProfileBytes es DecodeProfile sobre un slice.
func DecodeProfileBytes(b []byte) (map[string]any, error) {
	return DecodeProfile(bytes.NewReader(b))
}

// IDField extrae un id obligatorio como string. Acepta string o número.
func IDField(raw map[string]any, key string) (string, error) {
	switch v := raw[key].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return s, nil
		}
	case json.Number:
		// Los enteros se devuelven tal cual, sin pasar por float64.
		if s := v.String(); isDigits(s) {
			return s, nil
		}
		if f, err := v.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64), nil
		}
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("oauth: profile has no usable %q", key)
}

// StringField extrae un campo opcional. Ausente, null, vacío o no-string => nil.
func StringField(raw map[string]any, key string) *string {
	s, ok := raw[key].(string)
	if !ok {
		return nil
	}
	return types.OptionalString(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' {
		s = s[1:]
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
