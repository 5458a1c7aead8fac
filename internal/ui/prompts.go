package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted is returned when the user abandons an interactive prompt.
var ErrAborted = errors.New("aborted")

// SelectNumbered shows a numbered menu of a category's configurations and
// reads the choice from in. Out-of-range or non-numeric input re-prompts;
// end of input aborts.
func SelectNumbered(in io.Reader, out io.Writer, category string, options []string) (string, error) {
	fmt.Fprintf(out, "Select a configuration for '%s':\n\n", category)
	for i, option := range options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, option)
	}
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "Enter number [1-%d]: ", len(options))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("failed to read selection: %w", err)
			}
			return "", ErrAborted
		}

		input := strings.TrimSpace(scanner.Text())
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(options) {
			fmt.Fprintf(out, "Invalid selection %q, expected a number between 1 and %d.\n", input, len(options))
			continue
		}
		return options[n-1], nil
	}
}

// PromptValue prompts for a single required value
func PromptValue(message, help string) (string, error) {
	var value string
	prompt := &survey.Input{
		Message: message,
		Help:    help,
	}
	if err := survey.AskOne(prompt, &value, survey.WithValidator(survey.Required)); err != nil {
		return "", wrapInterrupt(err)
	}
	return value, nil
}

// PromptConfirmation prompts for yes/no confirmation
func PromptConfirmation(message string) (bool, error) {
	var confirmed bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, wrapInterrupt(err)
	}
	return confirmed, nil
}

func wrapInterrupt(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
