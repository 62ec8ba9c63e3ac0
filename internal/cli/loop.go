package cli

import (
	"strings"

	"github.com/calvinalkan/jira-tui/internal/nav"
	"github.com/calvinalkan/jira-tui/internal/ui"
)

// runLoop draws the current page, reads one line, and dispatches the
// resulting action until the page stack is empty.
//
// Errors from drawing, input handling, or actions are shown and acknowledged;
// navigation stays where it was. Only input failures end the loop early.
func runLoop(terminal ui.Terminal, navigator *nav.Navigator) error {
	o := NewIO(terminal.Out(), terminal.Out())

	for {
		page := navigator.Current()
		if page == nil {
			return nil
		}

		terminal.ClearScreen()

		err := page.Draw(terminal.Out(), navigator.Store())
		if err != nil {
			err = pause(o, terminal, "rendering page", err)
			if err != nil {
				return err
			}
		}

		input, err := terminal.ReadLine("")
		if err != nil {
			return err
		}

		action, err := page.HandleInput(strings.TrimSpace(input), navigator.Store())
		if err != nil {
			err = pause(o, terminal, "handling input", err)
			if err != nil {
				return err
			}

			continue
		}

		err = navigator.HandleAction(action)
		if err != nil {
			if ui.IsEndOfInput(err) {
				return err
			}

			err = pause(o, terminal, "handling action", err)
			if err != nil {
				return err
			}
		}
	}
}

// pause shows cause and waits for enter.
func pause(o *IO, terminal ui.Terminal, phase string, cause error) error {
	o.Printf("Error %s: %v\n", phase, cause)
	o.Println("Press enter to continue...")

	_, err := terminal.ReadLine("")

	return err
}
