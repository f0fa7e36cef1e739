package codec

// noopCodec is the None codec: it passes plaintext through unchanged. Used
// for data that is already compressed or otherwise incompressible. The
// recovery map and superblock are never compressed and do not pass through
// any codec.
type noopCodec struct{}

func (noopCodec) Compress(data []byte, _ int) ([]byte, error) {
	return data, nil
}

func (noopCodec) Decompress(data []byte, _ int) ([]byte, error) {
	return data, nil
}

func (noopCodec) CompressBound(inputLen int) int {
	return inputLen
}
