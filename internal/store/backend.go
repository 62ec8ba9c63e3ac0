package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/calvinalkan/jira-tui/internal/fs"
	"github.com/calvinalkan/jira-tui/internal/model"
)

// Backend loads and saves the complete tracker state.
type Backend interface {
	Load() (*model.State, error)
	Save(state *model.State) error
}

const (
	dirPerms  = 0o750
	filePerms = 0o600
)

// JSONFile persists the state as an indented JSON document at Path.
//
// A missing file loads as an empty state. Saves go through
// [fs.FS.WriteFileAtomic], so an interrupted save leaves the previous
// document intact.
type JSONFile struct {
	Path string
	FS   fs.FS
}

// NewJSONFile returns a JSONFile backed by the real filesystem.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{Path: path, FS: fs.NewReal()}
}

// Load reads and decodes the database file.
func (j *JSONFile) Load() (*model.State, error) {
	exists, err := j.FS.Exists(j.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %w", model.ErrStorage, j.Path, err)
	}

	if !exists {
		return model.NewState(), nil
	}

	data, err := j.FS.ReadFile(j.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", model.ErrStorage, j.Path, err)
	}

	return decodeState(j.Path, data)
}

// Save encodes state and atomically replaces the database file, creating its
// directory if needed.
func (j *JSONFile) Save(state *model.State) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	dir := filepath.Dir(j.Path)

	err = j.FS.MkdirAll(dir, dirPerms)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", model.ErrStorage, dir, err)
	}

	err = j.FS.WriteFileAtomic(j.Path, data, filePerms)
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", model.ErrStorage, j.Path, err)
	}

	return nil
}

// Memory keeps the encoded state in memory. Every Load decodes a fresh copy,
// so callers never share state with the backend, the same as with a file.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory returns a Memory backend holding state. A nil state starts empty.
func NewMemory(state *model.State) (*Memory, error) {
	m := &Memory{}
	if state == nil {
		return m, nil
	}

	err := m.Save(state)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Load decodes the last saved state.
func (m *Memory) Load() (*model.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return model.NewState(), nil
	}

	return decodeState("memory", m.data)
}

// Save replaces the stored state.
func (m *Memory) Save(state *model.State) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.data = data
	m.mu.Unlock()

	return nil
}

// Bytes returns the persisted document, or nil if nothing was saved.
func (m *Memory) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]byte(nil), m.data...)
}

func encodeState(state *model.State) ([]byte, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %w", model.ErrMalformed, err)
	}

	return append(data, '\n'), nil
}

func decodeState(source string, data []byte) (*model.State, error) {
	state := model.NewState()

	err := json.Unmarshal(data, state)
	if err != nil {
		if errors.Is(err, model.ErrMalformed) {
			return nil, fmt.Errorf("decode %s: %w", source, err)
		}

		return nil, fmt.Errorf("%w: decode %s: %w", model.ErrMalformed, source, err)
	}

	return state, nil
}
