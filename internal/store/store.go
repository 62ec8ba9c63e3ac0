// Package store implements the tracker's data store: every operation re-reads
// the full state from a [Backend], applies one change, and writes it back.
//
// Failed operations never write, so a rejected mutation leaves the persisted
// state exactly as it was.
package store

import (
	"fmt"
	"log/slog"

	"github.com/calvinalkan/jira-tui/internal/model"
)

// Store is the read-modify-write layer over a [Backend].
// It keeps no state between calls.
type Store struct {
	backend Backend
	log     *slog.Logger
}

// New returns a Store over backend. A nil logger discards records.
func New(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Store{backend: backend, log: logger}
}

// Read returns the current state. The result is a private copy; changing it
// does not affect the store.
func (s *Store) Read() (*model.State, error) {
	return s.backend.Load()
}

// CreateEpic stores epic as a new open epic and returns its id.
func (s *Store) CreateEpic(epic model.Epic) (uint32, error) {
	var id uint32

	err := s.update("create_epic", func(state *model.State) error {
		var addErr error

		id, addErr = state.AddEpic(epic)

		return addErr
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("epic created", "op", "create_epic", "epic", id)

	return id, nil
}

// CreateStory stores story as a new open story of the epic and returns its id.
func (s *Store) CreateStory(story model.Story, epicID uint32) (uint32, error) {
	var id uint32

	err := s.update("create_story", func(state *model.State) error {
		var addErr error

		id, addErr = state.AddStory(story, epicID)

		return addErr
	}, "epic", epicID)
	if err != nil {
		return 0, err
	}

	s.log.Info("story created", "op", "create_story", "epic", epicID, "story", id)

	return id, nil
}

// DeleteEpic removes the epic together with all of its stories.
func (s *Store) DeleteEpic(epicID uint32) error {
	err := s.update("delete_epic", func(state *model.State) error {
		return state.RemoveEpic(epicID)
	}, "epic", epicID)
	if err != nil {
		return err
	}

	s.log.Info("epic deleted", "op", "delete_epic", "epic", epicID)

	return nil
}

// DeleteStory removes the story and its reference from the epic.
func (s *Store) DeleteStory(epicID, storyID uint32) error {
	err := s.update("delete_story", func(state *model.State) error {
		return state.RemoveStory(epicID, storyID)
	}, "epic", epicID, "story", storyID)
	if err != nil {
		return err
	}

	s.log.Info("story deleted", "op", "delete_story", "epic", epicID, "story", storyID)

	return nil
}

// UpdateEpicStatus sets the epic's status.
func (s *Store) UpdateEpicStatus(epicID uint32, status model.Status) error {
	err := s.update("update_epic_status", func(state *model.State) error {
		return state.SetEpicStatus(epicID, status)
	}, "epic", epicID, "status", status.String())
	if err != nil {
		return err
	}

	s.log.Info("epic status updated", "op", "update_epic_status", "epic", epicID, "status", status.String())

	return nil
}

// UpdateStoryStatus sets the story's status.
func (s *Store) UpdateStoryStatus(storyID uint32, status model.Status) error {
	err := s.update("update_story_status", func(state *model.State) error {
		return state.SetStoryStatus(storyID, status)
	}, "story", storyID, "status", status.String())
	if err != nil {
		return err
	}

	s.log.Info("story status updated", "op", "update_story_status", "story", storyID, "status", status.String())

	return nil
}

// update loads the state, applies fn and saves the result. Nothing is saved
// when fn fails. attrs are added to the failure log record.
func (s *Store) update(op string, fn func(*model.State) error, attrs ...any) error {
	state, err := s.backend.Load()
	if err != nil {
		s.log.Warn("load failed", append([]any{"op", op, "err", err}, attrs...)...)

		return fmt.Errorf("%s: %w", op, err)
	}

	err = fn(state)
	if err != nil {
		s.log.Warn("rejected", append([]any{"op", op, "err", err}, attrs...)...)

		return err
	}

	err = s.backend.Save(state)
	if err != nil {
		s.log.Warn("save failed", append([]any{"op", op, "err", err}, attrs...)...)

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
