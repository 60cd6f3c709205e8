package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Memory is an in-process key-value store.
type Memory struct {
	mu   sync.RWMutex
	rows map[string]string
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{rows: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.rows[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[key] = value
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, key)
	return nil
}

// File persists key-value pairs as one JSON object on disk.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile creates a File store at path. The file is created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// EnsureDirs creates the directory holding the store file.
func (s *File) EnsureDirs() error {
	return os.MkdirAll(filepath.Dir(s.path), 0o755)
}

// Get returns the value stored under key.
func (s *File) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.readLocked()
	if err != nil {
		return "", false, err
	}
	v, ok := rows[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *File) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.readLocked()
	if err != nil {
		return err
	}
	rows[key] = value
	return s.writeLocked(rows)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *File) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.readLocked()
	if err != nil {
		return err
	}
	if _, ok := rows[key]; !ok {
		return nil
	}
	delete(rows, key)
	return s.writeLocked(rows)
}

func (s *File) readLocked() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}
	rows := map[string]string{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return rows, nil
}

func (s *File) writeLocked(rows map[string]string) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(s.path), ".themepainter-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
