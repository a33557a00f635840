package identity

import (
	"regexp"
	"strings"

	"oneshift/models"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// CarID computes the stable deduplication key for a favoritable item. The
// same function is used both for membership checks and for store keys, so
// the two can never diverge.
//
// New-car recommendations key on the lowercased makeModel + variant with
// whitespace runs collapsed to hyphens. Deterministic, but not globally
// unique across genuinely different cars that share name and variant text.
//
// Used-car listings key on the platform link verbatim, on the assumption
// that listing URLs are unique per real-world vehicle. Neither limitation
// is enforced here.
func CarID(item models.CarItem) string {
	if item.IsNew() {
		return Slug(item.New.MakeModel + "-" + item.New.Variant)
	}
	return item.Used.Link
}

// Slug lowercases s and collapses whitespace runs into single hyphens.
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return whitespaceRegex.ReplaceAllString(s, "-")
}
