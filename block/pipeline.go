package block

import (
	"bytes"
	"fmt"

	"lukechampine.com/blake3"

	"github.com/byte271/6cy/codec"
	"github.com/byte271/6cy/errs"
	"github.com/byte271/6cy/format"
	"github.com/byte271/6cy/xcrypto"
)

// ContentHash returns the BLAKE3-256 digest of plaintext. This is the value
// recorded as a block's content_hash and as a BlockRef's content_hash, and
// is the key used by the dedup table.
func ContentHash(plaintext []byte) [format.ContentHashSize]byte {
	return blake3.Sum256(plaintext)
}

// Encoded is the result of running the encode pipeline on one plaintext
// chunk: a ready-to-write header and payload pair.
type Encoded struct {
	Header  Header
	Payload []byte
}

// Encode runs the block encode pipeline (hash, compress, optionally
// encrypt, fill header) on plaintext and returns the header/payload pair
// ready to append to the archive. fileOffset is the chunk's offset within
// its file, recorded in the header. cipher may be nil, in which case the
// block is written unencrypted.
func Encode(reg *codec.Registry, codecUUID format.CodecUUID, level int, blockType format.BlockType, fileID uint32, fileOffset uint64, plaintext []byte, cipher *xcrypto.BlockCipher) (Encoded, error) {
	hash := ContentHash(plaintext)

	compressed, err := reg.Compress(codecUUID, plaintext, level)
	if err != nil {
		return Encoded{}, err
	}

	payload := compressed
	encrypted := cipher != nil

	if encrypted {
		payload, err = cipher.Seal(compressed)
		if err != nil {
			return Encoded{}, fmt.Errorf("encrypt block: %w", err)
		}
	}

	h := NewHeader(blockType, codecUUID, fileID, fileOffset)
	h.SetEncrypted(encrypted)
	h.OrigSize = uint32(len(plaintext))
	h.CompSize = uint32(len(payload))
	h.ContentHash = hash

	return Encoded{Header: h, Payload: payload}, nil
}

// Decode runs the block decode pipeline on an already-parsed header and its
// raw payload bytes (exactly header.CompSize bytes, as read by the caller
// following header.HeaderSize). It returns the verified plaintext.
func Decode(reg *codec.Registry, h Header, rawPayload []byte, cipher *xcrypto.BlockCipher) ([]byte, error) {
	if uint32(len(rawPayload)) != h.CompSize {
		return nil, fmt.Errorf("payload length %d != comp_size %d: %w", len(rawPayload), h.CompSize, errs.ErrTruncated)
	}

	if !reg.Has(h.CodecUUID) {
		return nil, fmt.Errorf("block codec %s: %w", h.CodecUUID, errs.ErrUnknownCodec)
	}

	compressed := rawPayload

	if h.Encrypted() {
		if cipher == nil {
			return nil, fmt.Errorf("encrypted block without key: %w", errs.ErrAuthFailed)
		}

		var err error

		compressed, err = cipher.Open(rawPayload)
		if err != nil {
			return nil, err
		}
	}

	plaintext, err := reg.Decompress(h.CodecUUID, compressed, int(h.OrigSize))
	if err != nil {
		return nil, err
	}

	if uint32(len(plaintext)) != h.OrigSize {
		return nil, fmt.Errorf("decoded length %d != orig_size %d: %w", len(plaintext), h.OrigSize, errs.ErrContentHash)
	}

	gotHash := ContentHash(plaintext)
	if !bytes.Equal(gotHash[:], h.ContentHash[:]) {
		return nil, fmt.Errorf("block content hash mismatch: %w", errs.ErrContentHash)
	}

	return plaintext, nil
}
