package xcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/byte271/6cy/errs"
	"github.com/byte271/6cy/format"
)

// BlockCipher seals and opens individual block payloads with AES-256-GCM
// under a single derived key. One BlockCipher is shared by every block in an
// archive; each call generates its own nonce, so there is no per-block
// state to keep.
type BlockCipher struct {
	aead cipher.AEAD
}

// NewBlockCipher constructs a BlockCipher from a 32-byte AES-256 key, as
// produced by DeriveKey.
func NewBlockCipher(key []byte) (*BlockCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes: new cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("aes-gcm: %w", err)
	}

	if aead.NonceSize() != format.NonceSize || aead.Overhead() != format.TagSize {
		return nil, fmt.Errorf("aes-gcm: unexpected nonce/tag size")
	}

	return &BlockCipher{aead: aead}, nil
}

// Seal encrypts plaintext (the already-compressed block body) and returns
// nonce ‖ ciphertext ‖ tag, the on-disk payload layout for an encrypted
// block. The nonce is drawn fresh from the OS entropy pool for every call.
func (c *BlockCipher) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, format.NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	out := make([]byte, 0, len(nonce)+len(plaintext)+format.TagSize)
	out = append(out, nonce...)
	out = c.aead.Seal(out, nonce, plaintext, nil)

	return out, nil
}

// Open splits payload into nonce, ciphertext, and tag, and authenticates and
// decrypts it. Tag failure is fatal: ErrAuthFailed is returned before any
// plaintext is released to the caller.
func (c *BlockCipher) Open(payload []byte) ([]byte, error) {
	if len(payload) < format.NonceSize+format.TagSize {
		return nil, fmt.Errorf("encrypted payload too short: %w", errs.ErrTruncated)
	}

	nonce := payload[:format.NonceSize]
	ciphertext := payload[format.NonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("gcm open: %w", errs.ErrAuthFailed)
	}

	return plaintext, nil
}
