package xcrypto

import (
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/byte271/6cy/errs"
)

// Argon2id tuning parameters fixed by the specification. These are not
// configurable: changing them would silently change the key derived for
// every existing encrypted archive.
const (
	kdfMemoryKiB  = 64 * 1024 // 64 MiB
	kdfIterations = 3
	kdfThreads    = 1
	kdfKeyLen     = 32 // AES-256 key size
)

// DeriveKey runs Argon2id over password using the archive UUID's first 16
// bytes as salt. The same password on a different archive yields a
// different key because the salt is the archive UUID.
func DeriveKey(password string, archiveUUID [16]byte) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("empty password: %w", errs.ErrKDFFailed)
	}

	key := argon2.IDKey([]byte(password), archiveUUID[:], kdfIterations, kdfMemoryKiB, kdfThreads, kdfKeyLen)

	return key, nil
}
