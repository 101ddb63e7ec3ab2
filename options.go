package fwdeforge

import (
	"io"
	"log/slog"
)

// TagOption configures a Tag invocation.
type TagOption func(*tagConfig)

type tagConfig struct {
	archivePath string
	logger      *slog.Logger
	lock        bool
}

// WithArchivePath sets where the untagged copy is written.
// The default is DefaultArchivePath(path).
func WithArchivePath(p string) TagOption {
	return func(c *tagConfig) {
		c.archivePath = p
	}
}

// WithLogger routes step-level logging to l. Without it Tag logs nothing.
func WithLogger(l *slog.Logger) TagOption {
	return func(c *tagConfig) {
		c.logger = l
	}
}

// WithExclusiveLock acquires an exclusive file lock (flock) on a sidecar
// .lock file for the duration of the tag, so a second tagger on the same
// artifact fails with ErrLocked instead of doubling the header.
func WithExclusiveLock() TagOption {
	return func(c *tagConfig) {
		c.lock = true
	}
}

func applyOptions(path string, opts []TagOption) tagConfig {
	var cfg tagConfig
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.archivePath == "" {
		cfg.archivePath = DefaultArchivePath(path)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cfg
}
