// Package blobstore is the string key/value medium the state store persists
// into. The whole application state lives under one key.
package blobstore

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/berling9700/budget-tracker/internal/models"
)

// Store is a string key/value store. Get reports found=false for a missing
// key rather than an error.
type Store interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// GormStore keeps blobs as rows of the blobs table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore. The blobs table must already exist.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get implements Store.
func (s *GormStore) Get(key string) (string, bool, error) {
	var blob models.Blob
	if err := s.db.Where("name = ?", key).First(&blob).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get blob %q: %w", key, err)
	}
	return blob.Value, true, nil
}

// Set implements Store, inserting or overwriting the row.
func (s *GormStore) Set(key, value string) error {
	blob := models.Blob{Key: key, Value: value}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&blob).Error
	if err != nil {
		return fmt.Errorf("set blob %q: %w", key, err)
	}
	return nil
}

// Remove implements Store. Removing a missing key is not an error.
func (s *GormStore) Remove(key string) error {
	if err := s.db.Where("name = ?", key).Delete(&models.Blob{}).Error; err != nil {
		return fmt.Errorf("remove blob %q: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys.
func (s *GormStore) Keys() ([]string, error) {
	var keys []string
	if err := s.db.Model(&models.Blob{}).Order("name").Pluck("name", &keys).Error; err != nil {
		return nil, fmt.Errorf("list blob keys: %w", err)
	}
	return keys, nil
}

// Memory is an in-process Store. Setting FailWrites makes every Set fail,
// which simulates a full or read-only medium.
type Memory struct {
	mu         sync.RWMutex
	data       map[string]string
	FailWrites error
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get implements Store.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements Store.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.data[key] = value
	return nil
}

// Remove implements Store.
func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
