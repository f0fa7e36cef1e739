// Package block implements the 84-byte block header and the encode/decode
// pipeline that turns plaintext into an on-disk block and back.
//
// # Header Layout
//
// All fields little-endian (see endian.LE):
//
//	offset  size  field
//	0       4     magic ("BLCK")
//	4       2     header_version (1)
//	6       2     header_size (84)
//	8       2     block_type (0=DATA, 1=INDEX, 2=SOLID)
//	10      2     flags (bit 0 = encrypted)
//	12      16    codec_uuid
//	28      4     file_id (0xFFFFFFFF for INDEX/SOLID)
//	32      8     file_offset
//	40      4     orig_size
//	44      4     comp_size
//	48      32    content_hash (BLAKE3-256 of plaintext)
//	80      4     header_crc32 (CRC32-IEEE of bytes [0:80))
//
// # Encode Pipeline (strict order)
//
//  1. content_hash = BLAKE3(plaintext)
//  2. dedup lookup by content_hash (caller's responsibility; see package dedup)
//  3. compressed = codec.Compress(plaintext, level)
//  4. if encrypted: payload = nonce ‖ seal(compressed) ‖ tag
//  5. fill header fields
//  6. header_crc32 = CRC32(header[0:80])
//  7. write header then payload
//
// # Decode Pipeline (strict order, any mismatch fatal for the block)
//
//  1. read header_size bytes
//  2. verify header CRC
//  3. verify magic
//  4. verify codec_uuid is registered
//  5. read exactly comp_size bytes of payload
//  6. if encrypted: split nonce/ciphertext/tag, GCM open
//  7. decompress using codec_uuid, passing orig_size as capacity hint
//  8. verify decompressed length == orig_size and BLAKE3(decompressed) == content_hash
package block
