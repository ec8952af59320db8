// Package savefile reads and writes the encrypted save format: a serialized
// string record (fixed header, 7-bit length prefix, payload, trailer byte)
// whose payload is base64 text of AES-256-ECB ciphertext.
//
// Every function is a pure transform over in-memory buffers and is safe to
// call concurrently.
package savefile

import (
	"fmt"
	"unicode/utf8"
)

// Encode turns cleartext (normally JSON) into the bytes of a save file.
func Encode(cleartext []byte) ([]byte, error) {
	text, err := EncodeText(cleartext)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}
	out, err := Wrap(text)
	if err != nil {
		return nil, fmt.Errorf("wrap: %w", err)
	}
	return out, nil
}

// Decode returns the cleartext stored in a save file.
func Decode(file []byte) ([]byte, error) {
	_, cleartext, err := DecodeEnvelope(file)
	return cleartext, err
}

// DecodeEnvelope is Decode that also returns the parsed envelope.
func DecodeEnvelope(file []byte) (*Envelope, []byte, error) {
	env, err := ParseEnvelope(file)
	if err != nil {
		return nil, nil, fmt.Errorf("unwrap: %w", err)
	}
	cleartext, err := DecodeText(env.Payload)
	if err != nil {
		return env, nil, fmt.Errorf("decrypt: %w", err)
	}
	if !utf8.Valid(cleartext) {
		return env, nil, ErrDecodeFailure
	}
	return env, cleartext, nil
}
