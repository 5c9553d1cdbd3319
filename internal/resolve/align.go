package resolve

import (
	"nur/internal/provider"
)

// align pairs field with base by index. A length mismatch invalidates the
// whole field, so it returns ok=false rather than a partial splice.
func align(base, field []provider.Passage) ([]string, bool) {
	if len(field) == 0 || len(field) != len(base) {
		return nil, false
	}
	texts := make([]string, len(field))
	for i, p := range field {
		texts[i] = p.Text
	}
	return texts, true
}
