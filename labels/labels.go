// Package labels packs cluster assignments into a compact bit stream.
//
// Every label takes bits.Len(k-1) bits (at least one), written most
// significant bit first in point order. The stream carries no header: the
// reader must know the point count n and the cluster count k. Optionally the
// stream is protected with a shuffled Golay code, see WithGolay.
package labels

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"

	"github.com/yyyoichi/bitstream-go"
)

var (
	ErrInvalidK     = errors.New("k must be positive")
	ErrLabelRange   = errors.New("label out of range")
	ErrShortData    = errors.New("packed data is too short")
	ErrUnalignedLen = errors.New("packed data length is not a multiple of 8 bytes")
)

// Packed is an encoded assignment.
type Packed struct {
	data []uint64
	bits int
	n, k int
}

// Width returns the number of bits used per label for k clusters.
func Width(k int) int {
	return max(1, bits.Len(uint(k-1)))
}

// Encode packs assignment, whose values must lie in [0, k).
func Encode(assignment []int, k int, opts ...Option) (*Packed, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidK, k)
	}
	width := Width(k)
	w := bitstream.NewBitWriter[uint64](0, 0)
	for i, label := range assignment {
		if label < 0 || label >= k {
			return nil, fmt.Errorf("%w: point %d has label %d, k=%d", ErrLabelRange, i, label, k)
		}
		for b := width - 1; b >= 0; b-- {
			w.WriteBool((label>>b)&1 == 1)
		}
	}
	c := newCodec(opts)
	data, encodedLen, err := c.f.encode(w.Data(), len(assignment)*width)
	if err != nil {
		return nil, err
	}
	return &Packed{data: data, bits: encodedLen, n: len(assignment), k: k}, nil
}

// Bits returns the number of meaningful bits, including ECC overhead.
func (p *Packed) Bits() int { return p.bits }

func (p *Packed) Len() int { return p.n }

func (p *Packed) K() int { return p.k }

// Bytes returns the stream as big-endian 64-bit words.
func (p *Packed) Bytes() []byte {
	words := (p.bits + 63) / 64
	out := make([]byte, words*8)
	for i := range words {
		if i < len(p.data) {
			binary.BigEndian.PutUint64(out[i*8:], p.data[i])
		}
	}
	return out
}

// Decode unpacks n labels for k clusters from data produced by
// Packed.Bytes. The options must match the ones used for encoding.
func Decode(data []byte, n, k int, opts ...Option) ([]int, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidK, k)
	}
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnalignedLen, len(data))
	}
	c := newCodec(opts)
	width := Width(k)
	size := n * width
	if need := c.f.encodedLen(size); len(data)*8 < need {
		return nil, fmt.Errorf("%w: have %d bits, need %d", ErrShortData, len(data)*8, need)
	}

	words := make([]uint64, len(data)/8)
	for i := range words {
		words[i] = binary.BigEndian.Uint64(data[i*8:])
	}
	reader, err := c.f.decode(words, size)
	if err != nil {
		return nil, err
	}

	assignment := make([]int, n)
	for i := range assignment {
		var label int
		for b := range width {
			bit, _ := reader.ReadBitAt(i*width + b)
			label <<= 1
			if bit {
				label |= 1
			}
		}
		if label >= k {
			return nil, fmt.Errorf("%w: point %d has label %d, k=%d", ErrLabelRange, i, label, k)
		}
		assignment[i] = label
	}
	return assignment, nil
}
