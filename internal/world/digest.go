package world

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainWorld is the domain-separation prefix for world digests.
// Version suffix enables future canonical-format migration.
const DomainWorld = "worldopt/world/v1"

// Digest computes the content digest of a snapshot:
// SHA256(domain + 0x00 + canonical JSON), hex encoded.
// The null separator prevents domain/data boundary ambiguity.
func (s *Snapshot) Digest() (string, error) {
	canonical, err := s.MarshalCanonical()
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(DomainWorld))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestWorld captures the live graph and digests it. Shorthand used
// by the orchestrator to record before/after digests on a run.
func DigestWorld(w *World) (string, error) {
	return Capture(w).Digest()
}

// Equal reports whether two snapshots are canonically identical.
func (s *Snapshot) Equal(other *Snapshot) (bool, error) {
	a, err := s.Digest()
	if err != nil {
		return false, err
	}
	b, err := other.Digest()
	if err != nil {
		return false, err
	}
	return a == b, nil
}
