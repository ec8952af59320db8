package savefile

import (
	"bytes"
	"fmt"
)

// TrailerByte terminates every envelope.
const TrailerByte = 0x0B

// header is the fixed 22-byte preamble of a serialized string record.
var header = [22]byte{0, 1, 0, 0, 0, 255, 255, 255, 255, 1, 0, 0, 0, 0, 0, 0, 0, 6, 1, 0, 0, 0}

// Header returns a copy of the envelope header.
func Header() []byte {
	h := header
	return h[:]
}

type Envelope struct {
	// Length is the value of the length prefix as written in the file.
	Length int
	// PrefixLen is how many bytes the length prefix occupied (1-5).
	PrefixLen int
	// Payload is every byte between the length prefix and the trailer.
	Payload []byte
}

// LengthMatches reports whether the declared length agrees with the payload.
func (e *Envelope) LengthMatches() bool {
	return e != nil && e.Length == len(e.Payload)
}

// Wrap frames payload as header || length || payload || trailer.
func Wrap(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(header) + maxLengthBytes + len(payload) + 1)
	buf.Write(header[:])

	var tmp [maxLengthBytes]byte
	prefix, err := AppendLength(tmp[:0], len(payload))
	if err != nil {
		return nil, err
	}
	buf.Write(prefix)
	buf.Write(payload)
	buf.WriteByte(TrailerByte)
	return buf.Bytes(), nil
}

// ParseEnvelope splits b into its parts. The length prefix is decoded only to
// find where the payload starts; the payload is everything up to the trailer
// even when the prefix disagrees with it.
func ParseEnvelope(b []byte) (*Envelope, error) {
	if len(b) < len(header)+1 {
		return nil, fmt.Errorf("%w: input is %d bytes", ErrBadHeader, len(b))
	}
	if !bytes.Equal(b[:len(header)], header[:]) {
		return nil, ErrBadHeader
	}
	if last := b[len(b)-1]; last != TrailerByte {
		return nil, fmt.Errorf("%w: got 0x%02x", ErrBadTrailer, last)
	}

	body := b[len(header) : len(b)-1]
	n, consumed, err := DecodeLength(body)
	if err != nil {
		return nil, fmt.Errorf("length prefix: %w", err)
	}

	payload := make([]byte, len(body)-consumed)
	copy(payload, body[consumed:])
	return &Envelope{
		Length:    n,
		PrefixLen: consumed,
		Payload:   payload,
	}, nil
}

// Unwrap returns the payload of the envelope in b.
func Unwrap(b []byte) ([]byte, error) {
	env, err := ParseEnvelope(b)
	if err != nil {
		return nil, err
	}
	return env.Payload, nil
}
