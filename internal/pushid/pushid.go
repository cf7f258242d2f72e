// Package pushid generates push keys: 20-character identifiers that sort
// lexically in creation order and do not collide across writers.
//
// The first 8 characters encode the millisecond timestamp, the remaining 12
// are random. Keys minted within the same millisecond reuse the previous
// random suffix incremented by one, so ordering holds even inside a single
// tick.
package pushid

import (
	"crypto/rand"
	"sync"

	"github.com/jonboulle/clockwork"
)

// alphabet is ordered by ASCII value so that byte-wise comparison matches
// numeric order.
const alphabet = "-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

const (
	timeChars   = 8
	randomChars = 12

	// Length is the size of every generated key.
	Length = timeChars + randomChars
)

// Generator mints push keys. It is safe for concurrent use.
type Generator struct {
	clock clockwork.Clock

	mu         sync.Mutex
	lastMillis int64
	lastRandom [randomChars]byte
}

// New returns a Generator driven by the real clock.
func New() *Generator {
	return NewWithClock(clockwork.NewRealClock())
}

// NewWithClock returns a Generator driven by c. Tests pass a fake clock.
func NewWithClock(c clockwork.Clock) *Generator {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return &Generator{clock: c, lastMillis: -1}
}

// NewKey returns a fresh key.
func (g *Generator) NewKey() string {
	now := g.clock.Now().UnixMilli()

	g.mu.Lock()
	defer g.mu.Unlock()

	// A clock that steps backwards keeps the last timestamp so keys stay sorted.
	if now < g.lastMillis {
		now = g.lastMillis
	}

	if now == g.lastMillis {
		g.increment()
	} else {
		g.reseed()
	}
	g.lastMillis = now

	var key [Length]byte
	ts := now
	for i := timeChars - 1; i >= 0; i-- {
		key[i] = alphabet[ts%64]
		ts /= 64
	}
	for i, v := range g.lastRandom {
		key[timeChars+i] = alphabet[v]
	}
	return string(key[:])
}

func (g *Generator) reseed() {
	var buf [randomChars]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand.Read does not fail on supported platforms.
		panic("pushid: read random: " + err.Error())
	}
	for i, b := range buf {
		g.lastRandom[i] = b & 63
	}
}

func (g *Generator) increment() {
	for i := randomChars - 1; i >= 0; i-- {
		if g.lastRandom[i] != 63 {
			g.lastRandom[i]++
			return
		}
		g.lastRandom[i] = 0
	}
}
