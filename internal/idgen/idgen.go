// Package idgen produces sortable identifiers: a millisecond timestamp in the high bits and a 16 bit tail
// derived from a digest and a persisted per-counter sequence.
package idgen

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/zeebo/blake3"
)

const (
	tailBits = 16
	SaltSize = 16
)

type Sequencer interface {
	NextSequence(ctx context.Context, key string) (int64, error)
}

type Generator struct {
	seq   Sequencer
	salt  []byte
	clock domain.Clock
}

// New returns a generator backed by seq. A nil salt draws a random one; processes sharing a database should
// be configured with the same salt.
//
// The salt is fixed for the lifetime of the generator rather than drawn per call. With a fixed salt the tail
// is a bijection of the sequence value, so up to 1<<16 identifiers per counter and millisecond never collide;
// fresh per-call salts would make same-millisecond collisions possible.
func New(seq Sequencer, salt []byte, clock domain.Clock) (*Generator, error) {
	if len(salt) == 0 {
		salt = make([]byte, SaltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("drawing id salt: %w", err)
		}
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Generator{
		seq:   seq,
		salt:  salt,
		clock: clock,
	}, nil
}

// Next returns an identifier for counter at the current time.
func (g *Generator) Next(ctx context.Context, counter string) (string, error) {
	return g.NextID(ctx, counter, g.clock.Now())
}

// NextID returns an identifier for counter at ts. Identifiers for later milliseconds always compare greater;
// identifiers within the same millisecond differ in their tail.
func (g *Generator) NextID(ctx context.Context, counter string, ts time.Time) (string, error) {
	ms := ts.UnixMilli()
	if ms < 0 {
		return "", fmt.Errorf("timestamp %s precedes the epoch", ts)
	}

	seq, err := g.seq.NextSequence(ctx, counter)
	if err != nil {
		return "", fmt.Errorf("incrementing sequence %s: %w", counter, err)
	}

	tail := (uint64(g.base(counter, ms)) + uint64(seq)) % (1 << tailBits)
	id := uint64(ms)<<tailBits | tail
	return strconv.FormatUint(id, 10), nil
}

func (g *Generator) base(counter string, ms int64) uint16 {
	buf := make([]byte, 0, len(counter)+len(g.salt)+8)
	buf = append(buf, counter...)
	buf = append(buf, g.salt...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(ms))
	sum := blake3.Sum256(buf)
	return binary.BigEndian.Uint16(sum[:2])
}

// Less compares two identifiers numerically.
func Less(a, b string) bool {
	x, errA := strconv.ParseUint(a, 10, 64)
	y, errB := strconv.ParseUint(b, 10, 64)
	if errA != nil || errB != nil {
		return a < b
	}
	return x < y
}
