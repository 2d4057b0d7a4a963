// Package extract recognizes structured values in free text.
package extract

import (
	"regexp"
	"strings"

	"github.com/kohara42/supportdesk/domain"
)

// Order codes come in two shapes: the hyphenated year-sequence form
// (ORD-2024-001) and a bare numeric suffix (ORD12345, ORDER_98765).
// Alternation order matters: the specific form is tried first so the
// leftmost match wins with the longest shape at that position.
var (
	orderPattern = regexp.MustCompile(`(?:ORD|ORDER)[-_]?\d{4}-\d{3}|(?:ORD|ORDER)[-_]?\d+`)
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
)

// Entities extracts all recognized entity kinds from text. Kinds absent
// from the text are omitted from the result. Extraction is deterministic
// and keeps the first (leftmost) match per kind.
func Entities(text string) map[string]string {
	entities := make(map[string]string)

	if order := OrderNumber(text); order != "" {
		entities[domain.EntityOrderNumber] = order
	}
	if email := emailPattern.FindString(text); email != "" {
		entities[domain.EntityEmail] = email
	}
	if phone := phonePattern.FindString(text); phone != "" {
		entities[domain.EntityPhone] = phone
	}

	return entities
}

// OrderNumber extracts the first order code from text, case-insensitively.
// Returns "" when no order code is present.
func OrderNumber(text string) string {
	return orderPattern.FindString(strings.ToUpper(text))
}
