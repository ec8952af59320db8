package savefile

import "errors"

var (
	// Framing.
	ErrBadHeader  = errors.New("savefile: bad header")
	ErrBadTrailer = errors.New("savefile: bad trailer")

	// Length prefix.
	ErrTruncated  = errors.New("savefile: truncated length prefix")
	ErrOutOfRange = errors.New("savefile: length out of range")

	// Cipher and transport.
	ErrInvalidLength   = errors.New("savefile: ciphertext is not block aligned")
	ErrInvalidPadding  = errors.New("savefile: invalid padding")
	ErrInvalidEncoding = errors.New("savefile: invalid base64 payload")

	// ErrDecodeFailure is returned when the decrypted payload is not UTF-8 text.
	ErrDecodeFailure = errors.New("savefile: cleartext is not valid UTF-8")
)
