package ui

import "fmt"

// Action is a request from a page to the navigator. The set is closed: only
// the types in this file implement it. A nil Action means "no action".
type Action interface {
	action()
	fmt.Stringer
}

// NavigateToEpicDetail opens the detail page of an epic.
type NavigateToEpicDetail struct{ EpicID uint32 }

// NavigateToStoryDetail opens the detail page of a story of an epic.
type NavigateToStoryDetail struct{ EpicID, StoryID uint32 }

// NavigateToPreviousPage goes back one page.
type NavigateToPreviousPage struct{}

// CreateEpic asks for a new epic.
type CreateEpic struct{}

// UpdateEpicStatus asks for a new status of the epic.
type UpdateEpicStatus struct{ EpicID uint32 }

// DeleteEpic asks to delete the epic.
type DeleteEpic struct{ EpicID uint32 }

// CreateStory asks for a new story in the epic.
type CreateStory struct{ EpicID uint32 }

// UpdateStoryStatus asks for a new status of the story.
type UpdateStoryStatus struct{ StoryID uint32 }

// DeleteStory asks to delete the story from the epic.
type DeleteStory struct{ EpicID, StoryID uint32 }

// Exit ends the session.
type Exit struct{}

func (NavigateToEpicDetail) action()   {}
func (NavigateToStoryDetail) action()  {}
func (NavigateToPreviousPage) action() {}
func (CreateEpic) action()             {}
func (UpdateEpicStatus) action()       {}
func (DeleteEpic) action()             {}
func (CreateStory) action()            {}
func (UpdateStoryStatus) action()      {}
func (DeleteStory) action()            {}
func (Exit) action()                   {}

func (a NavigateToEpicDetail) String() string {
	return fmt.Sprintf("navigate_to_epic_detail(%d)", a.EpicID)
}

func (a NavigateToStoryDetail) String() string {
	return fmt.Sprintf("navigate_to_story_detail(%d, %d)", a.EpicID, a.StoryID)
}

func (NavigateToPreviousPage) String() string { return "navigate_to_previous_page" }

func (CreateEpic) String() string { return "create_epic" }

func (a UpdateEpicStatus) String() string { return fmt.Sprintf("update_epic_status(%d)", a.EpicID) }

func (a DeleteEpic) String() string { return fmt.Sprintf("delete_epic(%d)", a.EpicID) }

func (a CreateStory) String() string { return fmt.Sprintf("create_story(%d)", a.EpicID) }

func (a UpdateStoryStatus) String() string {
	return fmt.Sprintf("update_story_status(%d)", a.StoryID)
}

func (a DeleteStory) String() string {
	return fmt.Sprintf("delete_story(%d, %d)", a.EpicID, a.StoryID)
}

func (Exit) String() string { return "exit" }
