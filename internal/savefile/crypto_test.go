package savefile

import (
	"bytes"
	"crypto/aes"
	"errors"
	"math/rand/v2"
	"testing"
)

func TestEncodeText_KnownVectors(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "ijGBSkKe6FXOw5BTYAj+DA=="},
		{"0123456789abcdef", "HIv/89n7TwUejH5sl5WbuYoxgUpCnuhVzsOQU2AI/gw="},
		{`{"playerData":{"permadeathMode":0}}`, "TFeIrTZDQKsiH54bCLkFLcEWZk3qOuYL4cghO/6heRNFjWMfoutJpLQ2+kC0HcLf"},
	}
	for _, tc := range cases {
		got, err := EncodeText([]byte(tc.in))
		if err != nil {
			t.Fatalf("EncodeText(%q): %v", tc.in, err)
		}
		if string(got) != tc.want {
			t.Fatalf("EncodeText(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestEncrypt_PadsToBlockSize(t *testing.T) {
	for n := 0; n <= 3*BlockSize; n++ {
		ct, err := Encrypt(make([]byte, n))
		if err != nil {
			t.Fatalf("Encrypt(%d): %v", n, err)
		}
		want := (n/BlockSize + 1) * BlockSize
		if len(ct) != want {
			t.Fatalf("Encrypt(%d) produced %d bytes, want %d", n, len(ct), want)
		}
	}
}

func TestEncrypt_BlocksAreIndependent(t *testing.T) {
	pt := bytes.Repeat([]byte("sixteen byte blk"), 2)
	ct, err := Encrypt(pt)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if !bytes.Equal(ct[:BlockSize], ct[BlockSize:2*BlockSize]) {
		t.Fatalf("identical plaintext blocks encrypted differently")
	}
}

func TestDecodeText_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	sizes := make([]int, 0, 128)
	for n := 0; n <= 64; n++ {
		sizes = append(sizes, n)
	}
	for i := 0; i < 48; i++ {
		sizes = append(sizes, rng.IntN(4097))
	}
	sizes = append(sizes, 4095, 4096)

	for _, n := range sizes {
		pt := make([]byte, n)
		for i := range pt {
			pt[i] = byte(rng.UintN(256))
		}
		text, err := EncodeText(pt)
		if err != nil {
			t.Fatalf("EncodeText(%d bytes): %v", n, err)
		}
		got, err := DecodeText(text)
		if err != nil {
			t.Fatalf("DecodeText(%d bytes): %v", n, err)
		}
		if !bytes.Equal(got, pt) {
			t.Fatalf("round trip mismatch at %d bytes", n)
		}
	}
}

func TestDecrypt_InvalidLength(t *testing.T) {
	for _, n := range []int{0, 1, 15, 17, 33} {
		if _, err := Decrypt(make([]byte, n)); !errors.Is(err, ErrInvalidLength) {
			t.Fatalf("Decrypt(%d bytes): expected ErrInvalidLength, got %v", n, err)
		}
	}
}

func TestDecrypt_InvalidPadding(t *testing.T) {
	uniform := func(last byte) []byte {
		return bytes.Repeat([]byte{last}, BlockSize)
	}
	mixed := bytes.Repeat([]byte{'x'}, BlockSize)
	mixed[BlockSize-1] = 4
	mixed[BlockSize-2] = 4
	mixed[BlockSize-3] = 3
	mixed[BlockSize-4] = 4

	cases := map[string][]byte{
		"zero":        uniform(0),
		"over block":  uniform(BlockSize + 1),
		"max byte":    uniform(0xFF),
		"non-uniform": mixed,
	}
	for name, plain := range cases {
		ct := rawEncrypt(t, plain)
		if _, err := Decrypt(ct); !errors.Is(err, ErrInvalidPadding) {
			t.Fatalf("%s: expected ErrInvalidPadding, got %v", name, err)
		}
	}
}

func TestDecrypt_FullPaddingBlock(t *testing.T) {
	ct := rawEncrypt(t, bytes.Repeat([]byte{BlockSize}, BlockSize))
	pt, err := Decrypt(ct)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if len(pt) != 0 {
		t.Fatalf("expected empty cleartext, got %d bytes", len(pt))
	}
}

func TestDecodeTransport_Invalid(t *testing.T) {
	for _, in := range []string{"!!!!", "abc", "ab=c", "YWJj\x00"} {
		if _, err := DecodeTransport([]byte(in)); !errors.Is(err, ErrInvalidEncoding) {
			t.Fatalf("DecodeTransport(%q): expected ErrInvalidEncoding, got %v", in, err)
		}
	}
}

func TestTransport_RoundTrip(t *testing.T) {
	in := []byte{0x00, 0xFF, 0x10, 0x80, 0x7F}
	got, err := DecodeTransport(EncodeTransport(in))
	if err != nil {
		t.Fatalf("DecodeTransport: %v", err)
	}
	if !bytes.Equal(got, in) {
		t.Fatalf("got % x, want % x", got, in)
	}
}

// rawEncrypt encrypts block-aligned input with the save key and no padding.
func rawEncrypt(t *testing.T, plain []byte) []byte {
	t.Helper()
	block, err := aes.NewCipher(saveKey)
	if err != nil {
		t.Fatalf("aes.NewCipher: %v", err)
	}
	out := make([]byte, len(plain))
	for i := 0; i < len(plain); i += BlockSize {
		block.Encrypt(out[i:i+BlockSize], plain[i:i+BlockSize])
	}
	return out
}
