package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

func (d Digest) IsZero() bool { return d == Digest{} }

// Combine: H(first || rest...). Порядок rest должен быть детерминированным.
func Combine(first Digest, rest ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(first[:])
	for _, d := range rest {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// digestOf hashes the msgpack encoding of v. Struct fields are encoded in
// declaration order, so equal values always give equal digests.
func digestOf(v any) Digest {
	b, err := msgpack.Marshal(v)
	if err != nil {
		// only plain strings, bools, ints and slices of them reach here
		panic(fmt.Errorf("digest: %w", err))
	}
	return sha256.Sum256(b)
}
