// Package errs defines the sentinel errors returned by the .6cy storage
// engine.
//
// Every error kind named in the specification (IO, FormatVersion, Magic,
// HeaderCRC, ContentHash, UnknownCodec, CodecFailure, AuthFailed, KDFFailed,
// IndexParse, OutOfRange, Truncated) has exactly one sentinel here. Callers
// use errors.Is against these values; wrapped context is added with
// fmt.Errorf("...: %w", errs.ErrXxx) at the call site, never by defining a
// new error type per site.
package errs

import "errors"

var (
	// ErrIO indicates an underlying device error, a short read/write, or a
	// truncated stream encountered outside of forward-scan recovery.
	ErrIO = errors.New("6cy: i/o error")

	// ErrFormatVersion indicates the superblock's format_version field does
	// not match the version this engine implements. The spec defines no
	// migration path: any mismatch is rejected outright.
	ErrFormatVersion = errors.New("6cy: unsupported format version")

	// ErrMagic indicates a superblock or block header did not start with its
	// expected magic bytes.
	ErrMagic = errors.New("6cy: bad magic")

	// ErrHeaderCRC indicates the CRC32 recorded in a superblock or block
	// header does not match the bytes it covers.
	ErrHeaderCRC = errors.New("6cy: header CRC mismatch")

	// ErrContentHash indicates BLAKE3(plaintext) did not match the
	// content_hash recorded in the block header after decompression.
	ErrContentHash = errors.New("6cy: content hash mismatch")

	// ErrUnknownCodec indicates a codec UUID is not present in the registry,
	// either at superblock-open time or during a per-block dispatch.
	ErrUnknownCodec = errors.New("6cy: unknown codec uuid")

	// ErrCodecFailure indicates a registered codec's compress or decompress
	// function returned an internal error.
	ErrCodecFailure = errors.New("6cy: codec failure")

	// ErrAuthFailed indicates AES-256-GCM tag verification failed while
	// opening an encrypted block.
	ErrAuthFailed = errors.New("6cy: authentication failed")

	// ErrKDFFailed indicates Argon2id key derivation could not be completed
	// (e.g. an empty password where one is required).
	ErrKDFFailed = errors.New("6cy: key derivation failed")

	// ErrIndexParse indicates the INDEX block's JSON payload was malformed
	// or missing required fields.
	ErrIndexParse = errors.New("6cy: index parse error")

	// ErrOutOfRange indicates a field value violates a structural invariant:
	// header_size < 84, block_type >= 3, required_codec_count > 13, a
	// duplicate codec UUID, and similar bounds checks.
	ErrOutOfRange = errors.New("6cy: value out of range")

	// ErrTruncated indicates fewer bytes were available on disk than a
	// header declared.
	ErrTruncated = errors.New("6cy: truncated data")

	// ErrNotFound indicates a named file has no record in the index.
	ErrNotFound = errors.New("6cy: file not found")

	// ErrClosed indicates an operation was attempted on a writer or reader
	// past its valid lifecycle state (e.g. add_file after finalize).
	ErrClosed = errors.New("6cy: archive already finalized")

	// ErrCodecCollision indicates a plugin attempted to register a codec
	// UUID that is already present in the registry.
	ErrCodecCollision = errors.New("6cy: codec uuid already registered")

	// ErrBufferOverflow indicates a compress call's output exceeded the
	// caller-supplied capacity; the caller must retry using CompressBound.
	ErrBufferOverflow = errors.New("6cy: output buffer overflow")
)
