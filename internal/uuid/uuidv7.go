package uuid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	googleuuid "github.com/google/uuid"
)

// Generator produces entity ids. The store owns one generator so that every
// id it hands out is unique for the lifetime of the process, including ids
// created in the same millisecond during a bulk import.
type Generator interface {
	NewID() string
}

// V7 is a Generator producing time-ordered UUIDv7 strings. Ids generated
// within the same millisecond carry an increasing 12-bit sequence in the
// rand_a field, so they sort in creation order.
type V7 struct {
	mu     sync.Mutex
	lastMS uint64
	seq    uint16
	now    func() time.Time
}

// NewV7 creates a UUIDv7 generator backed by the wall clock.
func NewV7() *V7 {
	return &V7{now: time.Now}
}

// NewID implements Generator.
func (g *V7) NewID() string {
	g.mu.Lock()
	ms := uint64(g.now().UnixMilli())
	if ms <= g.lastMS {
		// Clock did not advance (or went backwards): stay on the last
		// timestamp and bump the sequence instead.
		ms = g.lastMS
		g.seq++
		if g.seq > 0x0fff {
			ms++
			g.seq = 0
		}
	} else {
		g.seq = 0
	}
	g.lastMS = ms
	seq := g.seq
	g.mu.Unlock()

	return build(ms, seq)
}

// New generates a standalone UUIDv7 based on the current timestamp.
//
// Format (RFC 9562):
// - 48 bits: Unix timestamp in milliseconds
// - 4 bits: version (0111 = 7)
// - 12 bits: sequence / random data
// - 2 bits: variant (10)
// - 62 bits: random data
func New() string {
	var b [2]byte
	_, _ = rand.Read(b[:])
	return build(uint64(time.Now().UnixMilli()), binary.BigEndian.Uint16(b[:])&0x0fff)
}

func build(ms uint64, seq uint16) string {
	var uuid [16]byte

	// Set timestamp (48 bits)
	binary.BigEndian.PutUint64(uuid[0:8], ms<<16)

	// Fill remaining bytes with random data
	if _, err := rand.Read(uuid[8:]); err != nil {
		// Fallback to standard UUIDv4 if random generation fails
		return googleuuid.New().String()
	}

	// Version 7 plus the 12-bit sequence
	binary.BigEndian.PutUint16(uuid[6:8], 0x7000|(seq&0x0fff))

	// Set variant (2 bits) to 10
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return formatUUID(uuid)
}

// formatUUID formats a 16-byte array as a UUID string
func formatUUID(uuid [16]byte) string {
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		binary.BigEndian.Uint32(uuid[0:4]),
		binary.BigEndian.Uint16(uuid[4:6]),
		binary.BigEndian.Uint16(uuid[6:8]),
		binary.BigEndian.Uint16(uuid[8:10]),
		uuid[10:16],
	)
}

// Sequence is a deterministic Generator yielding prefix-1, prefix-2, ...
// It is meant for tests and reproducible fixtures.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequence creates a Sequence generator with the given prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// NewID implements Generator.
func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
