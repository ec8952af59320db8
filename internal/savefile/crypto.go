package savefile

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
)

// saveKey is part of the file format, the same on every install. It gives no
// confidentiality: anyone with the format definition can read a save.
var saveKey = []byte("UKu52ePUBwetZ9wNX88o54dnfKRu0T1l")

// BlockSize is the AES block size used for padding and alignment checks.
const BlockSize = aes.BlockSize

// Encrypt pads cleartext and encrypts it block by block (ECB, no IV).
func Encrypt(cleartext []byte) ([]byte, error) {
	block, err := newBlock(saveKey)
	if err != nil {
		return nil, err
	}
	padded := pad(cleartext, BlockSize)
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += BlockSize {
		block.Encrypt(out[i:i+BlockSize], padded[i:i+BlockSize])
	}
	return out, nil
}

// Decrypt reverses Encrypt and strips the padding.
func Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(ciphertext))
	}
	block, err := newBlock(saveKey)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += BlockSize {
		block.Decrypt(out[i:i+BlockSize], ciphertext[i:i+BlockSize])
	}
	return unpad(out, BlockSize)
}

// EncodeTransport renders b as standard base64 text.
func EncodeTransport(b []byte) []byte {
	out := make([]byte, base64.StdEncoding.EncodedLen(len(b)))
	base64.StdEncoding.Encode(out, b)
	return out
}

// DecodeTransport parses standard base64 text.
func DecodeTransport(text []byte) ([]byte, error) {
	out := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(out, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return out[:n], nil
}

// EncodeText encrypts cleartext and returns it as base64 text.
func EncodeText(cleartext []byte) ([]byte, error) {
	ct, err := Encrypt(cleartext)
	if err != nil {
		return nil, err
	}
	return EncodeTransport(ct), nil
}

// DecodeText reverses EncodeText.
func DecodeText(text []byte) ([]byte, error) {
	ct, err := DecodeTransport(text)
	if err != nil {
		return nil, err
	}
	return Decrypt(ct)
}

func newBlock(key []byte) (cipher.Block, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("aes key must be 32 bytes, got %d", len(key))
	}
	return aes.NewCipher(key)
}

// pad appends n bytes of value n so the result is a multiple of size. Aligned
// input gets a whole block of padding.
func pad(b []byte, size int) []byte {
	n := size - len(b)%size
	out := make([]byte, len(b), len(b)+n)
	copy(out, b)
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrInvalidPadding)
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, fmt.Errorf("%w: pad count %d", ErrInvalidPadding, n)
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, fmt.Errorf("%w: non-uniform pad bytes", ErrInvalidPadding)
		}
	}
	return b[:len(b)-n], nil
}
