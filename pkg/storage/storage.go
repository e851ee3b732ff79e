// Package storage provides the key-value slot the chat history is persisted to.
//
// A KV holds opaque byte values under string keys. Values are always replaced
// wholesale; there is no partial update and no schema versioning.
package storage

import (
	"errors"
	"fmt"
	"strings"

	"agentchat/pkg/config"
)

// ErrUnknownDriver is returned by Open for a driver name it does not recognize.
var ErrUnknownDriver = errors.New("unknown storage driver")

// ErrInvalidKey is returned for keys that are empty or contain path separators.
var ErrInvalidKey = errors.New("invalid storage key")

// KV is a durable key-value capability.
type KV interface {
	// Load returns the value stored under key. ok is false when nothing was stored.
	Load(key string) (data []byte, ok bool, err error)
	// Save overwrites the value stored under key.
	Save(key string, data []byte) error
	Close() error
}

// Open creates the KV selected by cfg.Driver.
func Open(cfg config.StorageConfig) (KV, error) {
	switch cfg.Driver {
	case config.DriverFile:
		return NewFileKV(cfg.Path)
	case config.DriverSQLite:
		return NewSQLiteKV(sqlitePath(cfg.Path))
	case config.DriverMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
