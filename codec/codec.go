package codec

import (
	"fmt"
	"sync"

	"github.com/byte271/6cy/errs"
	"github.com/byte271/6cy/format"
)

// Compressor compresses a plaintext buffer at the given codec-defined level.
type Compressor interface {
	Compress(data []byte, level int) ([]byte, error)
}

// Decompressor decompresses a buffer previously produced by the matching
// Compressor. sizeHint is the original plaintext length recorded in the
// block header (orig_size) and is used to preallocate the output buffer;
// implementations do not check the result against it, and block.Decode
// validates the actual decompressed length.
type Decompressor interface {
	Decompress(data []byte, sizeHint int) ([]byte, error)
}

// Bounder returns an upper bound on compressed output size for an input of
// the given length, used by callers that need to size a buffer before
// compressing.
type Bounder interface {
	CompressBound(inputLen int) int
}

// Codec combines compression, decompression, and bounding for one
// algorithm, keyed in the registry by a 128-bit format.CodecUUID.
type Codec interface {
	Compressor
	Decompressor
	Bounder
}

type registryEntry struct {
	codec   Codec
	alias   string
	builtin bool
}

// Registry maps codec UUIDs to their compress/decompress/bound triple. It is
// seeded with the five built-in codecs and may accept additional plugin
// registrations. Short aliases are process-local dispatch keys and are never
// written to disk.
type Registry struct {
	mu      sync.RWMutex
	byUUID  map[format.CodecUUID]registryEntry
	byAlias map[string]format.CodecUUID
}

// NewRegistry creates a registry pre-populated with the five built-in
// codecs: None, Zstd, LZ4, Brotli, LZMA.
func NewRegistry() *Registry {
	r := &Registry{
		byUUID:  make(map[format.CodecUUID]registryEntry, 8),
		byAlias: make(map[string]format.CodecUUID, 8),
	}

	r.mustRegisterBuiltin(format.CodecNone, "none", noopCodec{})
	r.mustRegisterBuiltin(format.CodecZstd, "zstd", zstdCodec{})
	r.mustRegisterBuiltin(format.CodecLZ4, "lz4", lz4Codec{})
	r.mustRegisterBuiltin(format.CodecBrotli, "brotli", brotliCodec{})
	r.mustRegisterBuiltin(format.CodecLZMA, "lzma", lzmaCodec{})

	return r
}

func (r *Registry) mustRegisterBuiltin(uuid format.CodecUUID, alias string, c Codec) {
	r.byUUID[uuid] = registryEntry{codec: c, alias: alias, builtin: true}
	r.byAlias[alias] = uuid
}

// Register adds a plugin-provided codec to the registry. A UUID collision
// with any existing entry, built-in or plugin, is rejected: built-ins always
// shadow plugins, and plugin-vs-plugin collisions are a load-time error.
func (r *Registry) Register(uuid format.CodecUUID, alias string, c Codec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUUID[uuid]; exists {
		return fmt.Errorf("codec %s: %w", uuid, errs.ErrCodecCollision)
	}

	r.byUUID[uuid] = registryEntry{codec: c, alias: alias}
	if alias != "" {
		r.byAlias[alias] = uuid
	}

	return nil
}

// Has reports whether uuid resolves in the registry. Superblock open uses
// this to enforce codec availability before any block is read.
func (r *Registry) Has(uuid format.CodecUUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byUUID[uuid]

	return ok
}

// Lookup resolves a codec UUID to its Codec implementation.
func (r *Registry) Lookup(uuid format.CodecUUID) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byUUID[uuid]
	if !ok {
		return nil, fmt.Errorf("%s: %w", uuid, errs.ErrUnknownCodec)
	}

	return entry.codec, nil
}

// ResolveAlias resolves a process-local short alias to its codec UUID. The
// alias never reaches disk; it exists purely for in-process dispatch (e.g.
// CLI flags naming a codec by short name instead of UUID).
func (r *Registry) ResolveAlias(alias string) (format.CodecUUID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uuid, ok := r.byAlias[alias]

	return uuid, ok
}

// Compress dispatches to the codec registered for uuid.
func (r *Registry) Compress(uuid format.CodecUUID, data []byte, level int) ([]byte, error) {
	c, err := r.Lookup(uuid)
	if err != nil {
		return nil, err
	}

	out, err := c.Compress(data, level)
	if err != nil {
		return nil, fmt.Errorf("compress with %s: %w: %v", uuid, errs.ErrCodecFailure, err)
	}

	return out, nil
}

// Decompress dispatches to the codec registered for uuid.
func (r *Registry) Decompress(uuid format.CodecUUID, data []byte, sizeHint int) ([]byte, error) {
	c, err := r.Lookup(uuid)
	if err != nil {
		return nil, err
	}

	out, err := c.Decompress(data, sizeHint)
	if err != nil {
		return nil, fmt.Errorf("decompress with %s: %w: %v", uuid, errs.ErrCodecFailure, err)
	}

	return out, nil
}

// CompressBound returns the upper bound on compressed size for uuid, used
// when a caller must preallocate a buffer before the real size is known.
func (r *Registry) CompressBound(uuid format.CodecUUID, inputLen int) (int, error) {
	c, err := r.Lookup(uuid)
	if err != nil {
		return 0, err
	}

	return c.CompressBound(inputLen), nil
}

// Default is the process-global registry populated at init with the five
// built-in codecs. Embedders that need isolated plugin sets should construct
// their own Registry with NewRegistry instead of using Default.
var Default = NewRegistry()
