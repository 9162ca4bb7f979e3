package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	// StateKey is the top-level field holding the session state in the credentials file
	StateKey = "state"

	// FormatVersion is written next to the state so older files can be migrated
	FormatVersion = 1
)

// FileStore keeps the bundle in a JSON file shaped as
//
//	{"state": {"accessToken": "...", "refreshToken": "..."}, "version": 1}
//
// Fields it does not know about, at either level, are preserved on write.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the credentials file
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the bundle from disk
func (s *FileStore) Load(ctx context.Context) (Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDocument()
	if err != nil {
		return Bundle{}, err
	}

	raw, ok := doc[StateKey]
	if !ok {
		return Bundle{}, ErrNotFound
	}

	var bundle Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return Bundle{}, fmt.Errorf("failed to parse credentials state: %w", err)
	}

	return bundle, nil
}

// Save overwrites the tokens in the file
func (s *FileStore) Save(ctx context.Context, bundle Bundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(func(state map[string]json.RawMessage) error {
		access, err := json.Marshal(bundle.AccessToken)
		if err != nil {
			return err
		}
		refresh, err := json.Marshal(bundle.RefreshToken)
		if err != nil {
			return err
		}
		state["accessToken"] = access
		state["refreshToken"] = refresh
		return nil
	})
}

// Clear removes the tokens but keeps any other stored state
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return s.update(func(state map[string]json.RawMessage) error {
		delete(state, "accessToken")
		delete(state, "refreshToken")
		return nil
	})
}

// Delete removes the credentials file entirely
func (s *FileStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FileStore) readDocument() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	return doc, nil
}

// update applies fn to the state object and writes the document back.
// A missing or unreadable file starts from an empty document.
func (s *FileStore) update(fn func(state map[string]json.RawMessage) error) error {
	doc, err := s.readDocument()
	if err != nil {
		doc = map[string]json.RawMessage{}
	}

	state := map[string]json.RawMessage{}
	if raw, ok := doc[StateKey]; ok {
		if err := json.Unmarshal(raw, &state); err != nil || state == nil {
			state = map[string]json.RawMessage{}
		}
	}

	if err := fn(state); err != nil {
		return fmt.Errorf("failed to update credentials state: %w", err)
	}

	rawState, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials state: %w", err)
	}
	doc[StateKey] = rawState

	if _, ok := doc["version"]; !ok {
		doc["version"] = json.RawMessage(fmt.Sprintf("%d", FormatVersion))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials file: %w", err)
	}

	return s.write(data)
}

func (s *FileStore) write(data []byte) error {
	// Ensure the directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	// Rename so readers never observe a half-written file
	return os.Rename(tmpName, s.path)
}
