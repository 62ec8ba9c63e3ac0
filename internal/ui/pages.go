// Package ui holds the interactive pages, the actions they produce, and the
// prompts and terminal they talk through.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/calvinalkan/jira-tui/internal/model"
)

// Reader is the read access a page gets to the store. Pages borrow it for
// one call and never keep it.
type Reader interface {
	Read() (*model.State, error)
}

// Page is one screen of the application.
type Page interface {
	Draw(w io.Writer, db Reader) error
	HandleInput(input string, db Reader) (Action, error)
}

// Column widths in display cells.
var (
	listWidths   = []int{11, 32, 17}
	detailWidths = []int{5, 12, 27, 13}
)

const (
	homeFooter  = "[q] quit | [c] create epic | [:id:] navigate to epic"
	epicFooter  = "[p] previous | [u] update epic | [d] delete epic | [c] create story | [:id:] navigate to story"
	storyFooter = "[p] previous | [u] update story | [d] delete story"
)

// HomePage lists all epics.
type HomePage struct{}

// Draw renders the epic table sorted by id.
func (HomePage) Draw(w io.Writer, db Reader) error {
	state, err := db.Read()
	if err != nil {
		return err
	}

	out := bufio.NewWriter(w)

	writeLines(out,
		banner("EPICS", listWidths),
		header([]string{"id", "name", "status"}, listWidths),
	)

	for _, id := range state.SortedEpicIDs() {
		epic := state.Epics[id]
		writeLines(out, listRow(id, epic.Name, epic.Status))
	}

	writeLines(out, "", "", homeFooter, "")

	return out.Flush()
}

// HandleInput maps q, c and epic ids to actions.
func (HomePage) HandleInput(input string, db Reader) (Action, error) {
	switch input {
	case "q":
		return Exit{}, nil
	case "c":
		return CreateEpic{}, nil
	}

	id, ok := parseID(input)
	if !ok {
		return nil, nil
	}

	state, err := db.Read()
	if err != nil {
		return nil, err
	}

	if _, exists := state.Epics[id]; !exists {
		return nil, nil
	}

	return NavigateToEpicDetail{EpicID: id}, nil
}

// EpicDetailPage shows one epic and its stories.
type EpicDetailPage struct {
	EpicID uint32
}

// Draw renders the epic header and its stories sorted by id.
func (p EpicDetailPage) Draw(w io.Writer, db Reader) error {
	state, err := db.Read()
	if err != nil {
		return err
	}

	epic, err := lookupEpic(state, p.EpicID)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(w)

	writeLines(out,
		banner("EPIC", detailWidths),
		header([]string{"id", "name", "description", "status"}, detailWidths),
		detailRow(p.EpicID, epic.Name, epic.Description, epic.Status),
		"",
		banner("STORIES", listWidths),
		header([]string{"id", "name", "status"}, listWidths),
	)

	ids := slices.Clone(epic.Stories)
	slices.Sort(ids)

	for _, id := range ids {
		story, ok := state.Stories[id]
		if !ok {
			continue
		}

		writeLines(out, listRow(id, story.Name, story.Status))
	}

	writeLines(out, "", "", epicFooter, "")

	return out.Flush()
}

// HandleInput maps p, u, d, c and story ids of this epic to actions.
func (p EpicDetailPage) HandleInput(input string, db Reader) (Action, error) {
	state, err := db.Read()
	if err != nil {
		return nil, err
	}

	epic, err := lookupEpic(state, p.EpicID)
	if err != nil {
		return nil, err
	}

	switch input {
	case "p":
		return NavigateToPreviousPage{}, nil
	case "u":
		return UpdateEpicStatus{EpicID: p.EpicID}, nil
	case "d":
		return DeleteEpic{EpicID: p.EpicID}, nil
	case "c":
		return CreateStory{EpicID: p.EpicID}, nil
	}

	id, ok := parseID(input)
	if !ok || !slices.Contains(epic.Stories, id) {
		return nil, nil
	}

	return NavigateToStoryDetail{EpicID: p.EpicID, StoryID: id}, nil
}

// StoryDetailPage shows one story.
type StoryDetailPage struct {
	EpicID  uint32
	StoryID uint32
}

// Draw renders the story header.
func (p StoryDetailPage) Draw(w io.Writer, db Reader) error {
	state, err := db.Read()
	if err != nil {
		return err
	}

	story, err := lookupStory(state, p.StoryID)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(w)

	writeLines(out,
		banner("STORY", detailWidths),
		header([]string{"id", "name", "description", "status"}, detailWidths),
		detailRow(p.StoryID, story.Name, story.Description, story.Status),
		"",
		"",
		storyFooter,
		"",
	)

	return out.Flush()
}

// HandleInput maps p, u and d to actions.
func (p StoryDetailPage) HandleInput(input string, db Reader) (Action, error) {
	state, err := db.Read()
	if err != nil {
		return nil, err
	}

	_, err = lookupStory(state, p.StoryID)
	if err != nil {
		return nil, err
	}

	switch input {
	case "p":
		return NavigateToPreviousPage{}, nil
	case "u":
		return UpdateStoryStatus{StoryID: p.StoryID}, nil
	case "d":
		return DeleteStory{EpicID: p.EpicID, StoryID: p.StoryID}, nil
	default:
		return nil, nil
	}
}

func lookupEpic(state *model.State, id uint32) (*model.Epic, error) {
	epic, ok := state.Epics[id]
	if !ok {
		return nil, fmt.Errorf("%w: epic %d", model.ErrNotFound, id)
	}

	return epic, nil
}

func lookupStory(state *model.State, id uint32) (*model.Story, error) {
	story, ok := state.Stories[id]
	if !ok {
		return nil, fmt.Errorf("%w: story %d", model.ErrNotFound, id)
	}

	return story, nil
}

// parseID accepts a plain decimal id. Signs and spaces are rejected.
func parseID(input string) (uint32, bool) {
	if input == "" || input[0] == '+' {
		return 0, false
	}

	id, err := strconv.ParseUint(input, 10, 32)
	if err != nil {
		return 0, false
	}

	return uint32(id), true
}

func listRow(id uint32, name string, status model.Status) string {
	return row(
		Cell(strconv.FormatUint(uint64(id), 10), listWidths[0]),
		Cell(name, listWidths[1]),
		Cell(status.String(), listWidths[2]),
	)
}

func detailRow(id uint32, name, description string, status model.Status) string {
	return row(
		Cell(strconv.FormatUint(uint64(id), 10), detailWidths[0]),
		Cell(name, detailWidths[1]),
		Cell(description, detailWidths[2]),
		Cell(status.String(), detailWidths[3]),
	)
}

func writeLines(w *bufio.Writer, lines ...string) {
	for _, line := range lines {
		_, _ = w.WriteString(line)
		_ = w.WriteByte('\n')
	}
}
