package params

import (
	"regexp"
	"strings"

	"github.com/kravuar/arangate/model"
)

// identifierPattern is the allow-list for free-text identifiers (collection
// names, graph names, field names) that get interpolated into generated
// query text. Anything outside it is rejected before query construction.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// directions is the allow-list for traversal direction keywords.
var directions = map[string]bool{
	"OUTBOUND": true,
	"INBOUND":  true,
	"ANY":      true,
}

// ValidateIdentifier checks a free-text identifier against the allow-list
// pattern. Interpolating an unvalidated identifier into query text would
// open an injection surface, so every interpolation site goes through here.
func ValidateIdentifier(name, value string) error {
	if value == "" {
		return model.NewValidationError("parameter %q must not be empty", name)
	}
	if !identifierPattern.MatchString(value) {
		return model.NewValidationError(
			"parameter %q: %q is not a valid identifier", name, value)
	}
	return nil
}

// NormalizeDirection validates a traversal direction keyword and returns its
// canonical upper-case form.
func NormalizeDirection(name, value string) (string, error) {
	canon := strings.ToUpper(strings.TrimSpace(value))
	if !directions[canon] {
		return "", model.NewValidationError(
			"parameter %q: %q is not one of OUTBOUND, INBOUND, ANY", name, value)
	}
	return canon, nil
}
