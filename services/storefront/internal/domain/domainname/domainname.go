// Package domainname normalizes and validates the customer domain attached
// to an order.
package domainname

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmpty   = errors.New("domain name is empty")
	ErrInvalid = errors.New("domain name is invalid")
)

// Tag is the validator tag registered by RegisterValidation.
const Tag = "domainname"

var (
	schemePattern = regexp.MustCompile(`^https?://`)
	labelsPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)*$`)
)

// Normalize lowercases the input and strips scheme, leading "www." labels,
// any path and any port. It does not validate.
func Normalize(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	d = schemePattern.ReplaceAllString(d, "")
	for strings.HasPrefix(d, "www.") {
		d = d[len("www."):]
	}
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	if i := strings.IndexByte(d, ':'); i >= 0 {
		d = d[:i]
	}
	return d
}

// Validate normalizes raw and returns the normalized domain when it is a
// plausible public host name. Validate(Validate(x)) == Validate(x).
func Validate(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmpty
	}

	d := Normalize(raw)
	if !valid(d) {
		return "", ErrInvalid
	}
	return d, nil
}

// Valid reports whether raw passes Validate.
func Valid(raw string) bool {
	_, err := Validate(raw)
	return err == nil
}

func valid(d string) bool {
	if len(d) < 4 || len(d) > 253 {
		return false
	}
	if !labelsPattern.MatchString(d) {
		return false
	}
	if strings.Contains(d, "..") || strings.Contains(d, "--") {
		return false
	}
	if strings.HasPrefix(d, "-") || strings.HasSuffix(d, "-") {
		return false
	}

	labels := strings.Split(d, ".")
	if len(labels) < 2 || labels[0] == "" {
		return false
	}
	return len(labels[len(labels)-1]) >= 2
}

// RegisterValidation adds the "domainname" tag to v.
func RegisterValidation(v *validator.Validate) error {
	return v.RegisterValidation(Tag, func(fl validator.FieldLevel) bool {
		return Valid(fl.Field().String())
	})
}
