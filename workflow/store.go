package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marcusg999/open-agent-builder/slogger"
	"github.com/romdo/go-debounce"
)

// Store persists workflows. Implementations treat node and edge payloads
// as structurally validated but content-opaque.
type Store interface {
	Load(id string) (*Workflow, error)
	Save(w *Workflow) (string, error)
	List() ([]*Workflow, error)
	Delete(id string) bool
}

const saveDebounceWait = 300 * time.Millisecond

// FileStore keeps each workflow as a JSON document under a base directory.
type FileStore struct {
	dir    string
	logger slogger.Logger

	mutex   sync.RWMutex
	pending map[string]*pendingSave
}

type pendingSave struct {
	flush    func()
	cancel   func()
	workflow *Workflow
}

// NewFileStore creates a file-backed workflow store rooted at dir.
func NewFileStore(dir string, logger slogger.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slogger.DefaultLogger
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workflow directory: %w", err)
	}
	return &FileStore{
		dir:     dir,
		logger:  logger,
		pending: make(map[string]*pendingSave),
	}, nil
}

// Load reads a workflow by id.
func (s *FileStore) Load(id string) (*Workflow, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow %q: %w", id, err)
	}
	var w Workflow
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode workflow %q: %w", id, err)
	}
	return &w, nil
}

// Save writes a workflow, assigning an id and timestamps when missing, and
// returns the id.
func (s *FileStore) Save(w *Workflow) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.save(w)
}

func (s *FileStore) save(w *Workflow) (string, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now

	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode workflow %q: %w", w.ID, err)
	}
	if err := os.WriteFile(s.path(w.ID), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write workflow %q: %w", w.ID, err)
	}
	return w.ID, nil
}

// SaveSoon schedules a debounced, last-write-wins save. Rapid edits from
// the editor coalesce into one write; there is no optimistic-concurrency
// check, so concurrent editors of the same workflow can race.
func (s *FileStore) SaveSoon(w *Workflow) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, ok := s.pending[w.ID]
	if !ok {
		entry = &pendingSave{}
		id := w.ID
		entry.flush, entry.cancel = debounce.New(saveDebounceWait, func() {
			s.mutex.Lock()
			defer s.mutex.Unlock()
			pending, ok := s.pending[id]
			if !ok {
				return
			}
			delete(s.pending, id)
			if _, err := s.save(pending.workflow); err != nil {
				s.logger.Error("debounced workflow save failed", "workflow_id", id, "error", err)
			}
		})
		s.pending[w.ID] = entry
	}
	entry.workflow = w
	entry.flush()
}

// List returns all stored workflows, most recently updated first.
func (s *FileStore) List() ([]*Workflow, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow directory: %w", err)
	}
	var workflows []*Workflow
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read workflow file %q: %w", entry.Name(), err)
		}
		var w Workflow
		if err := json.Unmarshal(data, &w); err != nil {
			s.logger.Warn("skipping unreadable workflow file", "file", entry.Name(), "error", err)
			continue
		}
		workflows = append(workflows, &w)
	}
	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].UpdatedAt.After(workflows[j].UpdatedAt)
	})
	return workflows, nil
}

// Delete removes a workflow and reports whether it existed.
func (s *FileStore) Delete(id string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if entry, ok := s.pending[id]; ok {
		entry.cancel()
		delete(s.pending, id)
	}
	if err := os.Remove(s.path(id)); err != nil {
		return false
	}
	return true
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
