package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

const maxKeyLength = 200

// GenerateKey fingerprints a namespace and its parameters. Params are sorted by
// name, so the result does not depend on how the caller built the map. Nested
// maps and slices are encoded as JSON with sorted keys. Keys longer than 200
// characters collapse to namespace:md5(full key).
func GenerateKey(namespace string, params map[string]any) string {
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names)+1)
	parts = append(parts, namespace)
	for _, k := range names {
		parts = append(parts, k+":"+canonical(params[k]))
	}

	key := strings.Join(parts, "|")
	if len(key) > maxKeyLength {
		sum := md5.Sum([]byte(key))
		return namespace + ":" + hex.EncodeToString(sum[:])
	}
	return key
}

func canonical(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(t)
	default:
		// goccy/go-json sorts map keys, which keeps nested values stable.
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
