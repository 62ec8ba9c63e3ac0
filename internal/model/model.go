// Package model defines epics, stories, and the persisted tracker state,
// together with the in-memory mutations that keep them consistent.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// Epic is a top-level unit of work. It owns the ids of its stories but not
// the story bodies, which live in [State.Stories].
type Epic struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Stories     []uint32 `json:"stories"`
}

// NewEpic returns an open epic without stories.
func NewEpic(name, description string) Epic {
	return Epic{
		Name:        name,
		Description: description,
		Status:      StatusOpen,
		Stories:     []uint32{},
	}
}

// MarshalJSON encodes a nil story list as [] rather than null.
func (e Epic) MarshalJSON() ([]byte, error) {
	type plain Epic

	if e.Stories == nil {
		e.Stories = []uint32{}
	}

	return json.Marshal(plain(e))
}

// Story is a leaf unit of work belonging to exactly one epic.
type Story struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

// NewStory returns an open story.
func NewStory(name, description string) Story {
	return Story{
		Name:        name,
		Description: description,
		Status:      StatusOpen,
	}
}

// State is everything the tracker persists.
//
// Epics and stories share one id space: both draw from LastItemID, so an id
// never names two entities and is never reused after deletion.
type State struct {
	LastItemID uint32            `json:"last_item_id"`
	Epics      map[uint32]*Epic  `json:"epics"`
	Stories    map[uint32]*Story `json:"stories"`
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		Epics:   map[uint32]*Epic{},
		Stories: map[uint32]*Story{},
	}
}

// ensureMaps replaces nil maps left by decoding "null" or a missing field.
func (s *State) ensureMaps() {
	if s.Epics == nil {
		s.Epics = map[uint32]*Epic{}
	}

	if s.Stories == nil {
		s.Stories = map[uint32]*Story{}
	}
}

// UnmarshalJSON decodes a state, guarantees non-nil maps and rejects
// documents that fail [State.Validate].
func (s *State) UnmarshalJSON(data []byte) error {
	type plain State

	var decoded plain

	err := json.Unmarshal(data, &decoded)
	if err != nil {
		return err
	}

	*s = State(decoded)
	s.ensureMaps()

	return s.Validate()
}

// Validate checks that new ids cannot collide with stored ones and that the
// hierarchy can be walked without nil entries:
//
//   - every epic, story and listed story id is in 1..LastItemID
//   - no id names both an epic and a story
//   - no story id is listed twice, in one epic or across epics
//   - statuses are known values
//
// Listed ids without a story entry and stories no epic lists are allowed;
// the cascade in [State.RemoveEpic] tolerates them.
func (s *State) Validate() error {
	for id, epic := range s.Epics {
		if epic == nil {
			return fmt.Errorf("%w: epic %d is null", ErrMalformed, id)
		}

		err := s.checkID("epic", id)
		if err != nil {
			return err
		}

		if !epic.Status.Valid() {
			return fmt.Errorf("%w: epic %d has unknown status %d", ErrMalformed, id, uint8(epic.Status))
		}
	}

	for id, story := range s.Stories {
		if story == nil {
			return fmt.Errorf("%w: story %d is null", ErrMalformed, id)
		}

		err := s.checkID("story", id)
		if err != nil {
			return err
		}

		if _, clash := s.Epics[id]; clash {
			return fmt.Errorf("%w: id %d is both an epic and a story", ErrMalformed, id)
		}

		if !story.Status.Valid() {
			return fmt.Errorf("%w: story %d has unknown status %d", ErrMalformed, id, uint8(story.Status))
		}
	}

	owner := make(map[uint32]uint32, len(s.Stories))

	for epicID, epic := range s.Epics {
		for _, storyID := range epic.Stories {
			err := s.checkID("listed story", storyID)
			if err != nil {
				return err
			}

			if _, clash := s.Epics[storyID]; clash {
				return fmt.Errorf("%w: epic %d lists epic %d as a story", ErrMalformed, epicID, storyID)
			}

			if prev, dup := owner[storyID]; dup {
				return fmt.Errorf("%w: story %d is listed by epics %d and %d", ErrMalformed, storyID, prev, epicID)
			}

			owner[storyID] = epicID
		}
	}

	return nil
}

func (s *State) checkID(kind string, id uint32) error {
	if id == 0 || id > s.LastItemID {
		return fmt.Errorf("%w: %s id %d outside 1..last_item_id (%d)", ErrMalformed, kind, id, s.LastItemID)
	}

	return nil
}

// nextID returns the id after LastItemID without claiming it.
func (s *State) nextID() (uint32, error) {
	if s.LastItemID == math.MaxUint32 {
		return 0, fmt.Errorf("%w: id space exhausted", ErrInconsistent)
	}

	return s.LastItemID + 1, nil
}

// AddEpic stores epic under the next id and returns that id.
// The epic starts Open with an empty story list regardless of its input.
func (s *State) AddEpic(epic Epic) (uint32, error) {
	s.ensureMaps()

	id, err := s.nextID()
	if err != nil {
		return 0, err
	}

	s.LastItemID = id
	epic.Status = StatusOpen
	epic.Stories = []uint32{}
	s.Epics[id] = &epic

	return id, nil
}

// AddStory stores story under the next id and appends that id to the epic's
// story list. The counter is left untouched when the epic does not exist.
func (s *State) AddStory(story Story, epicID uint32) (uint32, error) {
	s.ensureMaps()

	epic, ok := s.Epics[epicID]
	if !ok {
		return 0, fmt.Errorf("%w: epic %d (creating story)", ErrNotFound, epicID)
	}

	id, err := s.nextID()
	if err != nil {
		return 0, err
	}

	err = checkAppend(epicID, epic.Stories, id)
	if err != nil {
		return 0, err
	}

	s.LastItemID = id
	story.Status = StatusOpen
	epic.Stories = append(epic.Stories, id)
	s.Stories[id] = &story

	return id, nil
}

// RemoveEpic deletes the epic and every story it lists. Listed ids without a
// story entry are skipped.
func (s *State) RemoveEpic(epicID uint32) error {
	epic, ok := s.Epics[epicID]
	if !ok {
		return fmt.Errorf("%w: epic %d (deleting epic)", ErrNotFound, epicID)
	}

	delete(s.Epics, epicID)

	for _, storyID := range epic.Stories {
		delete(s.Stories, storyID)
	}

	return nil
}

// RemoveStory deletes the story and its id from the epic's list.
//
// If the story is not listed in the epic, the removed entry is put back and
// ErrInconsistent is returned, so the state is exactly as before the call.
func (s *State) RemoveStory(epicID, storyID uint32) error {
	epic, ok := s.Epics[epicID]
	if !ok {
		return fmt.Errorf("%w: epic %d (deleting story %d)", ErrNotFound, epicID, storyID)
	}

	story, ok := s.Stories[storyID]
	if !ok {
		return fmt.Errorf("%w: story %d (deleting story)", ErrNotFound, storyID)
	}

	delete(s.Stories, storyID)

	idx, found := -1, false
	if slices.IsSorted(epic.Stories) {
		idx, found = slices.BinarySearch(epic.Stories, storyID)
	}

	if !found {
		s.Stories[storyID] = story

		return fmt.Errorf("%w: story %d is not listed in epic %d, reverted", ErrInconsistent, storyID, epicID)
	}

	epic.Stories = slices.Delete(epic.Stories, idx, idx+1)

	return nil
}

// SetEpicStatus replaces the epic's status.
func (s *State) SetEpicStatus(epicID uint32, status Status) error {
	epic, ok := s.Epics[epicID]
	if !ok {
		return fmt.Errorf("%w: epic %d (updating status)", ErrNotFound, epicID)
	}

	epic.Status = status

	return nil
}

// SetStoryStatus replaces the story's status.
func (s *State) SetStoryStatus(storyID uint32, status Status) error {
	story, ok := s.Stories[storyID]
	if !ok {
		return fmt.Errorf("%w: story %d (updating status)", ErrNotFound, storyID)
	}

	story.Status = status

	return nil
}

// SortedEpicIDs returns all epic ids in ascending order.
func (s *State) SortedEpicIDs() []uint32 {
	ids := make([]uint32, 0, len(s.Epics))
	for id := range s.Epics {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// checkAppend verifies that appending id keeps the story list strictly
// ascending. Removal relies on binary search over this list.
func checkAppend(epicID uint32, stories []uint32, id uint32) error {
	if !slices.IsSorted(stories) {
		return fmt.Errorf("%w: stories of epic %d are out of order", ErrInconsistent, epicID)
	}

	if n := len(stories); n > 0 && stories[n-1] >= id {
		return fmt.Errorf("%w: story id %d would not be the largest in epic %d", ErrInconsistent, id, epicID)
	}

	return nil
}
