package cache

import (
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"

	"golang.org/x/crypto/blake2b"
)

// SignatureSize is the digest length in bytes.
const SignatureSize = 16

// Signature is a 128-bit content digest used as a comparable cache key.
type Signature [SignatureSize]byte

func (s Signature) String() string {
	return hex.EncodeToString(s[:])
}

// IsZero reports whether s was never computed.
func (s Signature) IsZero() bool {
	return s == Signature{}
}

// Signer accumulates values into a Signature.
type Signer struct {
	h   hash.Hash
	buf [8]byte
}

// NewSigner returns an empty signer.
func NewSigner() *Signer {
	h, err := blake2b.New(SignatureSize, nil)
	if err != nil {
		// Only reachable with an invalid size or key.
		panic(err)
	}
	return &Signer{h: h}
}

func (s *Signer) Float64(v float64) *Signer {
	binary.LittleEndian.PutUint64(s.buf[:], math.Float64bits(v))
	s.h.Write(s.buf[:])
	return s
}

func (s *Signer) Int(v int) *Signer {
	binary.LittleEndian.PutUint64(s.buf[:], uint64(v))
	s.h.Write(s.buf[:])
	return s
}

func (s *Signer) Bool(v bool) *Signer {
	if v {
		return s.Int(1)
	}
	return s.Int(0)
}

// Text writes a length-prefixed string so adjacent strings cannot run
// together.
func (s *Signer) Text(v string) *Signer {
	s.Int(len(v))
	s.h.Write([]byte(v))
	return s
}

func (s *Signer) Signature(v Signature) *Signer {
	s.h.Write(v[:])
	return s
}

// Sum returns the digest of everything written so far.
func (s *Signer) Sum() Signature {
	var out Signature
	copy(out[:], s.h.Sum(nil))
	return out
}

// SignFloats signs a slice of floats, length included.
func SignFloats(values []float64) Signature {
	s := NewSigner().Int(len(values))
	for _, v := range values {
		s.Float64(v)
	}
	return s.Sum()
}

// Combine folds signatures in order into one.
func Combine(sigs ...Signature) Signature {
	s := NewSigner().Int(len(sigs))
	for _, sig := range sigs {
		s.Signature(sig)
	}
	return s.Sum()
}
