// Package nav keeps the page stack and turns page actions into store
// mutations and page transitions.
package nav

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/calvinalkan/jira-tui/internal/store"
	"github.com/calvinalkan/jira-tui/internal/ui"
)

// Navigator owns the page stack and the store.
//
// The top of the stack is the current page. An empty stack means the
// session is over.
type Navigator struct {
	pages    []ui.Page
	store    *store.Store
	prompter ui.Prompter
	log      *slog.Logger
}

// New returns a Navigator showing the home page. A nil logger discards records.
func New(s *store.Store, prompter ui.Prompter, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Navigator{
		pages:    []ui.Page{ui.HomePage{}},
		store:    s,
		prompter: prompter,
		log:      logger,
	}
}

// Current returns the top page, or nil when the stack is empty.
func (n *Navigator) Current() ui.Page {
	if len(n.pages) == 0 {
		return nil
	}

	return n.pages[len(n.pages)-1]
}

// Store lends the store to the caller for one draw or input call.
func (n *Navigator) Store() *store.Store {
	return n.store
}

// Pages returns a copy of the stack, bottom first.
func (n *Navigator) Pages() []ui.Page {
	return slices.Clone(n.pages)
}

// HandleAction applies action. On error the stack is unchanged and the error
// comes from the prompter or the store. A nil action does nothing.
func (n *Navigator) HandleAction(action ui.Action) error {
	if action == nil {
		return nil
	}

	err := n.apply(action)
	if err != nil {
		n.log.Debug("action failed", "action", action.String(), "depth", len(n.pages), "err", err)

		return err
	}

	n.log.Debug("action handled", "action", action.String(), "depth", len(n.pages))

	return nil
}

func (n *Navigator) apply(action ui.Action) error {
	switch a := action.(type) {
	case ui.NavigateToEpicDetail:
		n.push(ui.EpicDetailPage{EpicID: a.EpicID})
	case ui.NavigateToStoryDetail:
		n.push(ui.StoryDetailPage{EpicID: a.EpicID, StoryID: a.StoryID})
	case ui.NavigateToPreviousPage:
		n.pop()
	case ui.CreateEpic:
		epic, err := n.prompter.BuildEpic()
		if err != nil {
			return err
		}

		_, err = n.store.CreateEpic(epic)

		return err
	case ui.UpdateEpicStatus:
		status, ok, err := n.prompter.ChooseStatus()
		if err != nil || !ok {
			return err
		}

		return n.store.UpdateEpicStatus(a.EpicID, status)
	case ui.DeleteEpic:
		confirmed, err := n.prompter.ConfirmDeleteEpic()
		if err != nil || !confirmed {
			return err
		}

		err = n.store.DeleteEpic(a.EpicID)
		if err != nil {
			return err
		}

		n.pop()
	case ui.CreateStory:
		story, err := n.prompter.BuildStory()
		if err != nil {
			return err
		}

		_, err = n.store.CreateStory(story, a.EpicID)

		return err
	case ui.UpdateStoryStatus:
		status, ok, err := n.prompter.ChooseStatus()
		if err != nil || !ok {
			return err
		}

		return n.store.UpdateStoryStatus(a.StoryID, status)
	case ui.DeleteStory:
		confirmed, err := n.prompter.ConfirmDeleteStory()
		if err != nil || !confirmed {
			return err
		}

		err = n.store.DeleteStory(a.EpicID, a.StoryID)
		if err != nil {
			return err
		}

		n.pop()
	case ui.Exit:
		n.pages = nil
	default:
		return fmt.Errorf("unknown action %T", action)
	}

	return nil
}

func (n *Navigator) push(page ui.Page) {
	n.pages = append(n.pages, page)
}

func (n *Navigator) pop() {
	if len(n.pages) > 0 {
		n.pages = n.pages[:len(n.pages)-1]
	}
}
