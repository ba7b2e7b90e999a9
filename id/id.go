// Package id mints the time-sortable identifiers the journal keys on: one
// per backtest run and one per recorded trade row.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// generator hands out ULID strings. The monotonic entropy reader keeps ids
// minted within the same millisecond lexicographically increasing, so run
// and trade ids sort by creation order in SQLite indexes.
type generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

func newGenerator() *generator {
	// Seed a PRNG from crypto/rand so the entropy is unpredictable.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &generator{entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)}
}

var gen = newGenerator()

func (g *generator) next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	u, err := ulid.New(ulid.Timestamp(time.Now().UTC()), g.entropy)
	if err != nil {
		// Only possible if time goes backwards or entropy fails.
		panic(err)
	}
	return u.String()
}

// NewRunID mints the identifier for one backtest run.
func NewRunID() string { return gen.next() }

// NewTradeID mints the identifier for one journaled trade row.
func NewTradeID() string { return gen.next() }
