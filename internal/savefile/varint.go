package savefile

import "fmt"

const (
	// MaxLength is the largest value a length prefix can carry (2^31-1).
	MaxLength = 1<<31 - 1

	// maxLengthBytes bounds the prefix: 31 bits in 7-bit groups.
	maxLengthBytes = 5
)

// EncodeLength returns the 7-bit-group encoding of n, low group first, with
// bit 7 set on every byte except the last. Values outside [0, MaxLength] are
// rejected rather than clamped.
func EncodeLength(n int) ([]byte, error) {
	return AppendLength(make([]byte, 0, maxLengthBytes), n)
}

// AppendLength appends the encoding of n to dst.
func AppendLength(dst []byte, n int) ([]byte, error) {
	if n < 0 || n > MaxLength {
		return nil, fmt.Errorf("%w: %d", ErrOutOfRange, n)
	}
	u := uint32(n)
	for u >= 0x80 {
		dst = append(dst, byte(u&0x7F)|0x80)
		u >>= 7
	}
	return append(dst, byte(u)), nil
}

// DecodeLength reads a length prefix from the start of b and returns the
// value and the number of bytes it occupied.
func DecodeLength(b []byte) (n int, consumed int, err error) {
	var v uint64
	for i := 0; i < maxLengthBytes; i++ {
		if i >= len(b) {
			return 0, 0, fmt.Errorf("%w: input ended after %d bytes", ErrTruncated, i)
		}
		c := b[i]
		v |= uint64(c&0x7F) << (7 * i)
		if c&0x80 == 0 {
			if v > MaxLength {
				return 0, 0, fmt.Errorf("%w: decoded %d", ErrOutOfRange, v)
			}
			return int(v), i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: no terminating byte within %d bytes", ErrTruncated, maxLengthBytes)
}
