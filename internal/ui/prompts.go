package ui

import (
	"fmt"
	"strings"

	"github.com/calvinalkan/jira-tui/internal/model"
)

// Prompter asks the user for the details of a mutation.
//
// Errors are input failures only (end of input, aborted prompt). A declined
// confirmation or an invalid status choice is an answer, not an error.
type Prompter interface {
	BuildEpic() (model.Epic, error)
	BuildStory() (model.Story, error)
	ConfirmDeleteEpic() (bool, error)
	ConfirmDeleteStory() (bool, error)
	// ChooseStatus returns ok == false when the answer names no status.
	ChooseStatus() (status model.Status, ok bool, err error)
}

const (
	shortRule = "----------------------------"
	longRule  = "----------------------------------------"
)

// LinePrompter asks its questions line by line on a [Terminal].
type LinePrompter struct {
	term Terminal
}

// NewLinePrompter returns a prompter using term.
func NewLinePrompter(term Terminal) *LinePrompter {
	return &LinePrompter{term: term}
}

// BuildEpic asks for the name and description of a new epic.
func (p *LinePrompter) BuildEpic() (model.Epic, error) {
	name, description, err := p.nameAndDescription(shortRule, "Epic Name:", "Epic Description:")
	if err != nil {
		return model.Epic{}, err
	}

	return model.NewEpic(name, description), nil
}

// BuildStory asks for the name and description of a new story.
func (p *LinePrompter) BuildStory() (model.Story, error) {
	name, description, err := p.nameAndDescription(longRule, "Story Name:", "Story Description:")
	if err != nil {
		return model.Story{}, err
	}

	return model.NewStory(name, description), nil
}

// ConfirmDeleteEpic asks until the answer is yes or no.
func (p *LinePrompter) ConfirmDeleteEpic() (bool, error) {
	return p.confirm("Are you sure you want to delete this epic? All stories in this epic will also be deleted [Y/n]:")
}

// ConfirmDeleteStory asks until the answer is yes or no.
func (p *LinePrompter) ConfirmDeleteStory() (bool, error) {
	return p.confirm("Are you sure you want to delete this story? [Y/n]:")
}

// ChooseStatus maps 1 to 4 onto the statuses in workflow order.
func (p *LinePrompter) ChooseStatus() (model.Status, bool, error) {
	p.println(shortRule)
	p.println("New Status (1 - OPEN, 2 - IN-PROGRESS, 3 - RESOLVED, 4 - CLOSED):")

	answer, err := p.readTrimmed()
	if err != nil {
		return 0, false, err
	}

	switch answer {
	case "1":
		return model.StatusOpen, true, nil
	case "2":
		return model.StatusInProgress, true, nil
	case "3":
		return model.StatusResolved, true, nil
	case "4":
		return model.StatusClosed, true, nil
	default:
		return 0, false, nil
	}
}

func (p *LinePrompter) nameAndDescription(rule, nameQuestion, descriptionQuestion string) (string, string, error) {
	p.println(rule)
	p.println(nameQuestion)

	name, err := p.readTrimmed()
	if err != nil {
		return "", "", err
	}

	p.println(descriptionQuestion)

	description, err := p.readTrimmed()
	if err != nil {
		return "", "", err
	}

	return name, description, nil
}

func (p *LinePrompter) confirm(question string) (bool, error) {
	valid := func(answer string) bool {
		switch answer {
		case "y", "Y", "n", "N":
			return true
		default:
			return false
		}
	}

	for {
		p.println(shortRule)
		p.println(question)

		answer, err := p.readTrimmed()
		if err != nil {
			return false, err
		}

		if valid(answer) {
			return answer == "y" || answer == "Y", nil
		}

		p.println("Invalid input")
	}
}

func (p *LinePrompter) readTrimmed() (string, error) {
	line, err := p.term.ReadLine("")
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

func (p *LinePrompter) println(line string) {
	_, _ = fmt.Fprintln(p.term.Out(), line)
}
