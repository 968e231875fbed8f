package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/niksmo/medsupply/internal/core/port"
	"github.com/syndtr/goleveldb/leveldb"
	lvlstorage "github.com/syndtr/goleveldb/leveldb/storage"
)

var _ port.PreferenceStorage = (*PreferenceStorage)(nil)

const darkModePrefix = "dark_mode:"

// A PreferenceStorage keeps client display preferences in leveldb.
type PreferenceStorage struct {
	db *leveldb.DB
}

func NewPreferenceStorage(path string) (*PreferenceStorage, error) {
	const op = "NewPreferenceStorage"

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &PreferenceStorage{db}, nil
}

// NewMemPreferenceStorage returns a storage that lives in memory.
func NewMemPreferenceStorage() (*PreferenceStorage, error) {
	const op = "NewMemPreferenceStorage"

	db, err := leveldb.Open(lvlstorage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &PreferenceStorage{db}, nil
}

func (s *PreferenceStorage) DarkMode(
	ctx context.Context, clientID string,
) (value bool, found bool, err error) {
	const op = "PreferenceStorage.DarkMode"

	if err := ctx.Err(); err != nil {
		return false, false, fmt.Errorf("%s: %w", op, err)
	}

	data, err := s.db.Get([]byte(darkModePrefix+clientID), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("%s: %w", op, err)
	}

	value, err = strconv.ParseBool(string(data))
	if err != nil {
		return false, false, fmt.Errorf("%s: %w", op, err)
	}
	return value, true, nil
}

func (s *PreferenceStorage) SetDarkMode(
	ctx context.Context, clientID string, value bool,
) error {
	const op = "PreferenceStorage.SetDarkMode"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.db.Put(
		[]byte(darkModePrefix+clientID),
		strconv.AppendBool(nil, value),
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *PreferenceStorage) Close() {
	const op = "PreferenceStorage.Close"
	log := slog.With("op", op)

	log.Info("closing preference storage...")
	if err := s.db.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("preference storage is closed")
}
