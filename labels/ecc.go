package labels

import (
	"fmt"
	"math/rand"

	"github.com/yyyoichi/bitstream-go"
	"github.com/yyyoichi/golay"
)

var (
	DefaultShuffleSeed int64 = 1234567890
)

type (
	// Option selects whether packed labels are protected by an error
	// correction code.
	Option func(*codec)
	codec  struct {
		f factory
	}
	factory interface {
		encode(data []uint64, size int) ([]uint64, int, error)
		decode(data []uint64, size int) (*bitstream.BitReader[uint64], error)
		encodedLen(size int) int
	}
)

// WithoutECC stores the packed labels as-is.
func WithoutECC() Option {
	return func(c *codec) {
		c.f = withoutecc{}
	}
}

// WithGolay protects the packed labels with the Golay(24,12) code, which
// corrects up to three flipped bits per 24-bit codeword. The encoded bits are
// shuffled with seed so that a burst of damaged bytes is spread over many
// codewords.
func WithGolay(seed int64) Option {
	return func(c *codec) {
		c.f = shuffledgolay(seed)
	}
}

func newCodec(opts []Option) codec {
	if len(opts) == 0 {
		opts = append(opts, WithoutECC())
	}
	var c codec
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

var _ factory = (*shuffledgolay)(nil)

type shuffledgolay int64

func (sg shuffledgolay) encode(data []uint64, size int) ([]uint64, int, error) {
	if size == 0 {
		return nil, 0, nil
	}
	var codewords []uint64
	enc := golay.NewEncoder(&codewords)
	if err := enc.Encode(data, size); err != nil {
		return nil, 0, fmt.Errorf("golay encode: %w", err)
	}
	n := enc.Bits()
	return sg.permute(codewords, n, false), n, nil
}

func (sg shuffledgolay) decode(data []uint64, size int) (*bitstream.BitReader[uint64], error) {
	n := sg.encodedLen(size)
	var decoded []uint64
	if err := golay.NewDecoder(sg.permute(data, n, true), n).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("golay decode: %w", err)
	}
	reader := bitstream.NewBitReader(decoded, 0, 0)
	reader.SetBits(size)
	return reader, nil
}

func (sg shuffledgolay) encodedLen(size int) int {
	if size == 0 {
		return 0
	}
	return golay.EncodedBits(size)
}

// permute moves bit perm[i] of the first n bits of src to position i, or
// position i back to perm[i] when inverse is set.
func (sg shuffledgolay) permute(src []uint64, n int, inverse bool) []uint64 {
	r := bitstream.NewBitReader(src, 0, 0)
	w := bitstream.NewBitWriter[uint64](0, 0)
	for i, j := range sg.permutation(n) {
		from, to := j, i
		if inverse {
			from, to = i, j
		}
		bit, _ := r.ReadBitAt(from)
		w.WriteBitAt(to, bit)
	}
	return w.Data()
}

func (sg shuffledgolay) permutation(n int) []int {
	return rand.New(rand.NewSource(int64(sg))).Perm(n)
}

var _ factory = (*withoutecc)(nil)

type withoutecc struct{}

func (we withoutecc) encode(data []uint64, size int) ([]uint64, int, error) {
	return data, size, nil
}

func (we withoutecc) decode(data []uint64, size int) (*bitstream.BitReader[uint64], error) {
	reader := bitstream.NewBitReader(data, 0, 0)
	reader.SetBits(size)
	return reader, nil
}

func (we withoutecc) encodedLen(size int) int {
	return size
}
