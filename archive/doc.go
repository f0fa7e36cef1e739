// Package archive implements the Writer and Reader that realize the .6cy
// storage engine on top of packages block, superblock, codec, dedup, index,
// and xcrypto.
//
// # Writer Lifecycle
//
// A Writer moves through a strict state machine: Fresh -> WritingBlocks ->
// [Solid] -> Finalized. Fresh allocates (or accepts) an archive UUID and
// reserves 256 bytes for the superblock placeholder. AddFile splits input
// into chunk_size-byte chunks (default 4 MiB) and drives each through the
// block encode pipeline, consulting the dedup table before compression.
// Finalize serializes the file index, writes the INDEX block, appends the
// recovery map, and patches the real superblock in place at offset 0.
//
// # Reader Lifecycle
//
// Open verifies the superblock, enforces codec availability, decodes the
// INDEX block, and returns a handle that serves ReadFile and ReadAt by
// walking BlockRefs and decoding only the blocks a request overlaps.
package archive
