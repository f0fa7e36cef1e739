package codec

import (
	"fmt"

	"github.com/byte271/6cy/format"
)

// pluginABIVersion is the only plugin ABI version this host accepts.
// Descriptors reporting a higher version are rejected.
const pluginABIVersion = 1

// Return codes used by plugin function pointers, per the frozen ABI in
// the specification.
const (
	PluginOK             int32 = 0
	PluginErrOverflow    int32 = -1
	PluginErrCorrupt     int32 = -2
	PluginErrInternal    int32 = -3
)

// CompressFunc is a plugin's compress entry point. dst is a caller-owned
// buffer of at least CompressBound(len(src)) bytes; the function writes into
// it and returns the number of bytes written, or a negative return code.
type CompressFunc func(dst, src []byte, level int) (int, int32)

// DecompressFunc is a plugin's decompress entry point. dst must be at least
// outCapacity bytes; the function writes the decompressed payload into it.
type DecompressFunc func(dst, src []byte, outCapacity int) (int, int32)

// BoundFunc returns an upper bound on compressed size for an input of the
// given length.
type BoundFunc func(inputLen int) int

// Descriptor is the Go-side mirror of the C-compatible plugin descriptor:
// a codec UUID, an optional process-local short ID, the ABI version the
// plugin was built against, and its three function pointers. A real cgo
// plugin loader fills this in from the struct returned by the plugin's
// single exported entry point; RegisterPlugin below is what the host calls
// once it has done so.
type Descriptor struct {
	CodecUUID  format.CodecUUID
	ShortAlias string
	ABIVersion int
	Compress   CompressFunc
	Decompress DecompressFunc
	Bound      BoundFunc
}

// pluginCodec adapts a Descriptor's raw function-pointer shape to the
// buffer-returning Codec interface the rest of the engine uses.
type pluginCodec struct {
	desc Descriptor
}

func (p pluginCodec) CompressBound(inputLen int) int {
	return p.desc.Bound(inputLen)
}

func (p pluginCodec) Compress(data []byte, level int) ([]byte, error) {
	dst := make([]byte, p.desc.Bound(len(data)))

	n, code := p.desc.Compress(dst, data, level)
	if code != PluginOK {
		return nil, fmt.Errorf("plugin %s: compress returned code %d", p.desc.CodecUUID, code)
	}

	return dst[:n], nil
}

func (p pluginCodec) Decompress(data []byte, sizeHint int) ([]byte, error) {
	capacity := sizeHint
	if capacity <= 0 {
		capacity = len(data) * 4
	}

	dst := make([]byte, capacity)

	n, code := p.desc.Decompress(dst, data, capacity)
	if code != PluginOK {
		return nil, fmt.Errorf("plugin %s: decompress returned code %d", p.desc.CodecUUID, code)
	}

	return dst[:n], nil
}

// RegisterPlugin validates a plugin Descriptor and adds it to the registry.
// The descriptor's entry point is expected to be idempotent and to return a
// process-lifetime static address, per the frozen ABI; RegisterPlugin itself
// only performs the one-time registration, not repeated lookups.
func (r *Registry) RegisterPlugin(desc Descriptor) error {
	if desc.ABIVersion > pluginABIVersion {
		return fmt.Errorf("plugin %s: abi version %d > supported %d", desc.CodecUUID, desc.ABIVersion, pluginABIVersion)
	}

	if desc.Compress == nil || desc.Decompress == nil || desc.Bound == nil {
		return fmt.Errorf("plugin %s: incomplete function triple", desc.CodecUUID)
	}

	return r.Register(desc.CodecUUID, desc.ShortAlias, pluginCodec{desc: desc})
}
