// Package xcrypto implements the key derivation and per-block authenticated
// encryption used when an archive is created with a password.
//
// Key derivation runs Argon2id over the UTF-8 password with the archive's
// UUID as salt (golang.org/x/crypto/argon2), so the same password produces a
// different key for every archive. Per-block encryption is AES-256-GCM
// (crypto/aes, crypto/cipher from the standard library): a fresh 12-byte
// nonce per block, sealed output laid out as nonce ‖ ciphertext ‖ tag.
//
// The INDEX block is never encrypted: listing an archive and checking codec
// requirements must be possible without the password.
package xcrypto
