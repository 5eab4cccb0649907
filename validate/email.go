// validate/email.go
package validate

import (
	"regexp"
	"strings"
)

// notSpaceOrAt matches one character that is neither '@' nor whitespace
// (the same set IsSpace reports on).
const notSpaceOrAt = `[^\s\v\x{1c}-\x{1f}\x{85}\p{Z}@]`

var emailShape = regexp.MustCompile(`^` + notSpaceOrAt + `+@` + notSpaceOrAt + `+\.` + notSpaceOrAt + `+$`)

// UnknownDomain is returned by Domain when the address has no '@'.
const UnknownDomain = "unknown"

// Email is a light, readable server-side guardrail. It is not an RFC
// validator: it requires local@domain.tld with no whitespace anywhere, a
// single '@' and at least one dot after it.
//
// The input is not trimmed; callers that accept user input should trim first.
func Email(email string) bool {
	return emailShape.MatchString(email)
}

// Domain returns everything after the first '@' in email, or UnknownDomain
// if there is none. Addresses accepted by Email always contain an '@'.
func Domain(email string) string {
	_, domain, found := strings.Cut(email, "@")
	if !found {
		return UnknownDomain
	}
	return domain
}
