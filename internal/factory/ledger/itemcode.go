package ledger

import (
	"regexp"
	"strings"
)

var itemCodePattern = regexp.MustCompile(`^MSK-\d+$`)
var digitsOnly = regexp.MustCompile(`^\d+$`)

// NormalizeItemCode canonicalizes a user-supplied item code. Input is
// trimmed and upper-cased; a purely numeric code gets the MSK- prefix
// prepended. The result must match MSK-<digits> or ErrInvalidItemCode is
// returned.
func NormalizeItemCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", ErrInvalidItemCode
	}
	if digitsOnly.MatchString(code) {
		code = "MSK-" + code
	}
	if !itemCodePattern.MatchString(code) {
		return "", ErrInvalidItemCode
	}
	return code, nil
}
