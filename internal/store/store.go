/*
Package store persists named JSON blobs. The registry and the catalog keep
their collections here; load never fails and save is best effort.
*/
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	applog "github.com/shanehull/unicabot/internal/log"
)

// ErrNotFound is returned by Read when no blob exists under the key.
var ErrNotFound = errors.New("blob not found")

// Store reads and writes whole blobs by key.
type Store interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Close() error
}

// LoadList decodes the collection stored under key. A missing or unreadable
// blob yields an empty collection, which is written back immediately.
func LoadList[T any](s Store, key string) []T {
	logger := applog.WithComponent("store")

	data, err := s.Read(key)
	switch {
	case errors.Is(err, ErrNotFound):
		logger.Info().Str("key", key).Msg("No blob found, starting empty")
	case err != nil:
		logger.Warn().Err(err).Str("key", key).Msg("Failed to read blob, starting empty")
	default:
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Unreadable blob, starting empty")
			break
		}
		if items == nil {
			items = []T{}
		}
		return items
	}

	empty := []T{}
	if err := SaveList(s, key, empty); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to write empty blob")
	}
	return empty
}

// SaveList encodes items and overwrites the blob under key.
func SaveList[T any](s Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.Write(key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
