package archive

import (
	"fmt"

	"aw-go/internal/aw"
	"aw-go/internal/config"
)

// NewArchiveFromConfig creates an Archive implementation based on the config type.
func NewArchiveFromConfig(cfg config.ArchiveConfig) (aw.Archive, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryArchive(), nil
	case "s3":
		return NewS3Archive(cfg)
	case "filesystem":
		if cfg.Root == "" {
			return nil, fmt.Errorf("filesystem archive requires root to be set")
		}
		return NewFileSystemArchive(cfg.Root)
	default:
		return nil, fmt.Errorf("unknown archive type: %s", cfg.Type)
	}
}
