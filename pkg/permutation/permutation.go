// Package permutation evaluates a seeded pseudo-random permutation of [0, n)
// one point at a time, without building the permuted array.
//
// The permutation is a balanced Feistel network over the smallest domain of
// 2^(2h) values covering n, restricted to [0, n) by cycle walking. Any Feistel
// network is a bijection on its domain and cycle walking keeps that property
// on the sub-range, so every index in [0, n) has exactly one image.
package permutation

import (
	"encoding/binary"
	"errors"

	"github.com/ethereum/go-ethereum/crypto"
)

const rounds = 4

var ErrOutOfRange = errors.New("index out of range")

type Permutation struct {
	seed     []byte
	n        uint64
	halfBits uint
	mask     uint64
}

// New returns the permutation of [0, n) keyed by seed and n.
func New(seed []byte, n int) (*Permutation, error) {
	if n <= 0 {
		return nil, errors.New("permutation size must be positive")
	}

	halfBits := uint(1)
	for uint64(1)<<(2*halfBits) < uint64(n) {
		halfBits++
	}

	return &Permutation{
		seed:     append([]byte(nil), seed...),
		n:        uint64(n),
		halfBits: halfBits,
		mask:     uint64(1)<<halfBits - 1,
	}, nil
}

func (p *Permutation) Size() int {
	return int(p.n)
}

// At returns the image of i.
func (p *Permutation) At(i int) (int, error) {
	if i < 0 || uint64(i) >= p.n {
		return 0, ErrOutOfRange
	}

	x := uint64(i)
	for {
		x = p.encrypt(x)
		if x < p.n {
			return int(x), nil
		}
	}
}

func (p *Permutation) encrypt(x uint64) uint64 {
	left, right := x>>p.halfBits, x&p.mask
	for r := 0; r < rounds; r++ {
		left, right = right, left^p.round(r, right)
	}

	return left<<p.halfBits | right
}

// round mixes the seed, the size of the domain, the round number and the half
// block through keccak256.
func (p *Permutation) round(r int, half uint64) uint64 {
	buf := make([]byte, 0, len(p.seed)+17)
	buf = append(buf, p.seed...)
	buf = binary.BigEndian.AppendUint64(buf, p.n)
	buf = append(buf, byte(r))
	buf = binary.BigEndian.AppendUint64(buf, half)

	digest := crypto.Keccak256(buf)
	return binary.BigEndian.Uint64(digest[:8]) & p.mask
}
