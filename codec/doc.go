// Package codec provides the compressor/decompressor registry used by the
// block pipeline.
//
// # Overview
//
// A codec is a pure byte-transforming pair: Compress(plaintext, level) and
// Decompress(compressed, capacityHint), plus a CompressBound upper bound used
// to size output buffers before the real size is known. The registry maps a
// frozen 128-bit format.CodecUUID to one such triple.
//
// Five identities are built in:
//
//	None    00000000-0000-0000-0000-000000000000
//	Zstd    b28a9d4f-5e3c-4a1b-8f2e-7c6d9b0e1a2f   github.com/klauspost/compress/zstd
//	LZ4     3f7b2c8e-1a4d-4e9f-b6c3-5d8a2f7e0b1c   github.com/pierrec/lz4/v4
//	Brotli  9c1e5f3a-7b2d-4c8e-a5f1-2e6b9d0c3a7f   github.com/andybalholm/brotli
//	LZMA    4a8f2e1c-9b3d-4f7a-c2e8-6d5b1a0f3c9e   github.com/ulikunitz/xz/lzma
//
// Additional identities may be contributed at runtime through Register; a
// UUID collision with an existing entry (built-in or plugin) is rejected.
//
// # Levels
//
// Levels are codec-defined. Zstd accepts 1-19 (default 3); Brotli clamps
// levels above 11 to 11 and maps zero or below to its default (6); LZ4 and
// LZMA ignore the level argument; None always ignores it.
//
// # Thread Safety
//
// The registry is populated once at process start and treated as read-only
// thereafter. Lookups are safe for concurrent use. Each codec's Compress and
// Decompress must be safe to invoke concurrently on disjoint buffer pairs,
// since a higher layer may run block encoding in parallel.
package codec
