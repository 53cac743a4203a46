package certificate

import (
	"fmt"
	"math/rand"
	"time"
)

// DefaultNumberPrefix opens every certificate number unless configured otherwise.
const DefaultNumberPrefix = "CSC"

// NumberGenerator produces certificate numbers of the form
// <prefix><yymmdd><3 random digits>.
type NumberGenerator struct {
	prefix string
	now    func() time.Time
	intN   func(n int) int
}

// NewNumberGenerator builds a generator for the given prefix.
func NewNumberGenerator(prefix string) *NumberGenerator {
	if prefix == "" {
		prefix = DefaultNumberPrefix
	}
	return &NumberGenerator{
		prefix: prefix,
		now:    time.Now,
		intN:   rand.Intn,
	}
}

// Generate returns a fresh certificate number. The date code uses UTC.
func (g *NumberGenerator) Generate() string {
	datePart := g.now().UTC().Format("060102")
	suffix := 100 + g.intN(900)
	return fmt.Sprintf("%s%s%03d", g.prefix, datePart, suffix)
}

// Prefix returns the configured prefix.
func (g *NumberGenerator) Prefix() string {
	return g.prefix
}
