package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator yields IDs of the form <prefix>-<utc timestamp>-<random hex>,
// so IDs from one generator sort by creation second.
type RandomGenerator struct {
	prefix string
	now    func() time.Time
}

func NewRandomGenerator(prefix string) *RandomGenerator {
	return &RandomGenerator{
		prefix: strings.Trim(strings.TrimSpace(prefix), "-"),
		now:    time.Now,
	}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	stamp := g.now().UTC().Format("20060102T150405")
	if g.prefix == "" {
		return stamp + "-" + hex.EncodeToString(buf), nil
	}
	return g.prefix + "-" + stamp + "-" + hex.EncodeToString(buf), nil
}
