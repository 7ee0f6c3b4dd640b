package process

import (
	"crypto/sha256"
	"encoding/hex"

	"cspkit/internal/event"
)

// Digest is the deterministic structural identity of a Term.
//
// It is computed solely from the term's shape and event names, so two
// independently constructed but structurally equal terms share a digest.
// Digests are used as map keys and for cycle detection; they MUST be stable
// across process restarts.
type Digest string

// String returns the hex form of the digest.
func (d Digest) String() string { return string(d) }

// Term kind tags folded into digests. These are part of the stable digest
// bytes; do not renumber.
const (
	kindStop       = 0x01
	kindSkip       = 0x02
	kindPrefix     = 0x03
	kindExternal   = 0x04
	kindInternal   = 0x05
	kindSequential = 0x06
)

// computeDigest hashes a term kind plus length-framed fields. Framing keeps
// adjacent fields from colliding ("ab","c" vs "a","bc").
func computeDigest(kind byte, fields ...string) Digest {
	h := sha256.New()
	h.Write([]byte{kind})

	writeField := func(data []byte) {
		length := uint64(len(data))
		lengthBytes := []byte{
			byte(length >> 56),
			byte(length >> 48),
			byte(length >> 40),
			byte(length >> 32),
			byte(length >> 24),
			byte(length >> 16),
			byte(length >> 8),
			byte(length),
		}
		h.Write(lengthBytes)
		h.Write(data)
	}

	for _, f := range fields {
		writeField([]byte(f))
	}
	return Digest(hex.EncodeToString(h.Sum(nil)))
}

// digestFields renders an event set as digest fields in canonical order.
func digestFields(s event.Set) []string {
	events := s.Slice()
	fields := make([]string, len(events))
	for i, e := range events {
		fields[i] = string(e)
	}
	return fields
}

// childDigests renders child term digests as digest fields in child order.
// Child order is semantically meaningful for display, so it participates in
// identity.
func childDigests(children []Term) []string {
	fields := make([]string, len(children))
	for i, c := range children {
		fields[i] = string(c.Digest())
	}
	return fields
}
