package preferences

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// fileDocument is the on-disk layout: profile -> key -> value.
type fileDocument struct {
	Profiles map[string]map[string]string `yaml:"profiles"`
}

// FileStore persists preferences in a YAML file, the terminal client's
// equivalent of browser local storage.
type FileStore struct {
	mu      sync.Mutex
	path    string
	profile string
}

// NewFileStore returns a store backed by the file at path. The file is created on first write.
func NewFileStore(path, profile string) *FileStore {
	return &FileStore{path: path, profile: profile}
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return "", false, err
	}
	value, ok := doc.Profiles[s.profile][key]
	return value, ok, nil
}

// Set rewrites the whole file. A file that cannot be parsed is replaced.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		doc = fileDocument{}
	}
	if doc.Profiles == nil {
		doc.Profiles = make(map[string]map[string]string)
	}
	if doc.Profiles[s.profile] == nil {
		doc.Profiles[s.profile] = make(map[string]string)
	}
	doc.Profiles[s.profile][key] = value
	return s.write(doc)
}

func (s *FileStore) read() (fileDocument, error) {
	var doc fileDocument
	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read preferences file: %w", err)
	}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return fileDocument{}, fmt.Errorf("parse preferences file %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) write(doc fileDocument) error {
	content, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".preferences-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp preferences file: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace preferences file: %w", err)
	}
	return nil
}
