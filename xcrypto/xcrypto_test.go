package xcrypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	var uuidA, uuidB [16]byte
	copy(uuidA[:], []byte("archive-uuid-aaa"))
	copy(uuidB[:], []byte("archive-uuid-bbb"))

	t.Run("deterministic for same inputs", func(t *testing.T) {
		k1, err := DeriveKey("hunter2", uuidA)
		require.NoError(t, err)

		k2, err := DeriveKey("hunter2", uuidA)
		require.NoError(t, err)

		require.Equal(t, k1, k2)
		require.Len(t, k1, 32)
	})

	t.Run("different salt yields different key", func(t *testing.T) {
		k1, err := DeriveKey("hunter2", uuidA)
		require.NoError(t, err)

		k2, err := DeriveKey("hunter2", uuidB)
		require.NoError(t, err)

		require.NotEqual(t, k1, k2)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := DeriveKey("", uuidA)
		require.Error(t, err)
	})
}

func TestBlockCipher_SealOpen(t *testing.T) {
	var archiveUUID [16]byte
	copy(archiveUUID[:], []byte("archive-uuid-xyz"))

	key, err := DeriveKey("correct horse battery staple", archiveUUID)
	require.NoError(t, err)

	cipher, err := NewBlockCipher(key)
	require.NoError(t, err)

	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	sealed, err := cipher.Seal(plaintext)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, sealed)

	opened, err := cipher.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, plaintext, opened)

	t.Run("distinct nonce per call", func(t *testing.T) {
		sealed2, err := cipher.Seal(plaintext)
		require.NoError(t, err)
		require.NotEqual(t, sealed, sealed2)
	})

	t.Run("tamper detection", func(t *testing.T) {
		tampered := make([]byte, len(sealed))
		copy(tampered, sealed)
		tampered[len(tampered)-1] ^= 0xFF

		_, err := cipher.Open(tampered)
		require.Error(t, err)
	})

	t.Run("truncated payload rejected", func(t *testing.T) {
		_, err := cipher.Open(sealed[:4])
		require.Error(t, err)
	})
}
