// Package endian provides the byte order used to encode every fixed-size
// structure on disk in a .6cy archive.
//
// The on-disk format is little-endian throughout (superblock, block header,
// recovery map length prefix). This package exists so the rest of the module
// never imports encoding/binary directly for structure layout: every packer
// goes through a single EndianEngine value, which keeps the byte order a
// single decision instead of a convention scattered across files.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface, satisfied by binary.LittleEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// LE is the engine used for every on-disk integer in the archive format.
// The format has no big-endian variant: all structures are defined as
// little-endian in the specification, and a reader that saw anything else
// would already have failed the magic/version check.
var LE EndianEngine = binary.LittleEndian
