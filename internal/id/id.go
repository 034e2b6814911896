// Package id generates collision-resistant task identifiers.
package id

import (
	cryptorand "crypto/rand"
	"encoding/hex"
	"math/rand"
	"strconv"
	"time"
)

// Generator produces opaque string ids. The strategy is chosen once when
// the generator is built: the secure path draws 16 bytes from crypto/rand
// and renders them as 32 lowercase hex characters; if the secure source is
// unavailable, a weaker base-36 pseudo-random + timestamp form is used
// instead. Ids are never reused across either strategy.
type Generator struct {
	secure bool
	rng    *rand.Rand
}

// New probes the secure random source and returns a generator bound to
// the strongest available strategy.
func New() *Generator {
	var probe [1]byte
	if _, err := cryptorand.Read(probe[:]); err == nil {
		return &Generator{secure: true}
	}
	return &Generator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Secure reports whether the generator uses the cryptographic source.
func (g *Generator) Secure() bool {
	return g.secure
}

// Next returns a fresh id.
func (g *Generator) Next() string {
	if g.secure {
		var buf [16]byte
		if _, err := cryptorand.Read(buf[:]); err == nil {
			return hex.EncodeToString(buf[:])
		}
		// Source degraded after the probe; fall through to the weak form
		// rather than failing a create.
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		g.secure = false
	}
	return strconv.FormatInt(g.rng.Int63(), 36) +
		strconv.FormatInt(time.Now().UnixNano(), 36)
}
