// internal/adapters/out/firestore/helpers_fs.go
package firestore

import (
	"fmt"
	"strings"
)

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func asInt(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case int:
		return t
	case int32:
		return int(t)
	case int64:
		return int(t)
	case float32:
		return int(t)
	case float64:
		return int(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		var n int
		_, _ = fmt.Sscanf(s, "%d", &n)
		return n
	default:
		var n int
		_, _ = fmt.Sscanf(strings.TrimSpace(fmt.Sprint(v)), "%d", &n)
		return n
	}
}
