// Package order generates human readable order numbers.
package order

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// NumberPrefix starts every order number.
	NumberPrefix = "BITSS"

	suffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffixLength   = 6
)

// NumberGenerator builds order numbers of the form BITSS + DDMMYY + six
// uppercase letters, e.g. BITSS231124QLMZKA.
type NumberGenerator struct {
	now func() time.Time
}

func NewNumberGenerator(now func() time.Time) *NumberGenerator {
	if now == nil {
		now = time.Now
	}
	return &NumberGenerator{now: now}
}

// Next returns a fresh order number.
func (g *NumberGenerator) Next() (string, error) {
	suffix, err := gonanoid.Generate(suffixAlphabet, suffixLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate order number suffix: %w", err)
	}
	return NumberPrefix + g.now().Format("020106") + suffix, nil
}
