package archive

import (
	"github.com/google/uuid"

	"github.com/byte271/6cy/codec"
	"github.com/byte271/6cy/format"
	"github.com/byte271/6cy/internal/options"
)

// Config holds the writer's tunables, set via functional options passed to
// NewWriter. Unset fields take the defaults spelled out by each With*
// function's doc comment.
type Config struct {
	archiveUUID  [16]byte
	chunkSize    int
	password     string
	registry     *codec.Registry
	defaultCodec format.CodecUUID
	level        int
}

// WriterOption configures a Writer at construction time.
type WriterOption = options.Option[*Config]

func newConfig() *Config {
	return &Config{
		archiveUUID:  uuid.New(),
		chunkSize:    format.DefaultChunkSize,
		registry:     codec.Default,
		defaultCodec: format.CodecZstd,
		level:        0, // codec default
	}
}

// WithArchiveUUID pins the archive's UUID instead of generating a random
// one. The UUID also serves as the Argon2id KDF salt, so pinning it is only
// useful for reproducible test fixtures.
func WithArchiveUUID(u [16]byte) WriterOption {
	return options.NoError(func(c *Config) {
		c.archiveUUID = u
	})
}

// WithChunkSize overrides the writer's plaintext chunk size. Default is
// format.DefaultChunkSize (4 MiB).
func WithChunkSize(n int) WriterOption {
	return options.NoError(func(c *Config) {
		if n > 0 {
			c.chunkSize = n
		}
	})
}

// WithPassword enables per-block AES-256-GCM encryption using a key derived
// from password via Argon2id. Every DATA block is encrypted; the INDEX
// block never is.
func WithPassword(password string) WriterOption {
	return options.NoError(func(c *Config) {
		c.password = password
	})
}

// WithRegistry overrides the codec registry used for compression. Defaults
// to codec.Default, the process-global registry of built-in codecs.
func WithRegistry(reg *codec.Registry) WriterOption {
	return options.NoError(func(c *Config) {
		if reg != nil {
			c.registry = reg
		}
	})
}

// WithDefaultCodec sets the codec used by AddFile when no per-call codec is
// given. Default is format.CodecZstd.
func WithDefaultCodec(u format.CodecUUID) WriterOption {
	return options.NoError(func(c *Config) {
		c.defaultCodec = u
	})
}

// WithCompressionLevel sets the codec-defined compression level used by
// AddFile when no per-call level is given. Zero means "codec default".
func WithCompressionLevel(level int) WriterOption {
	return options.NoError(func(c *Config) {
		c.level = level
	})
}
