package ui

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"
)

var colorEnabled = false

// InitColor configures colored output. Mode is "always", "never" or
// "auto"; auto enables color only for terminals and honors NO_COLOR.
func InitColor(mode string) {
	switch mode {
	case "always":
		colorEnabled = true
	case "never":
		colorEnabled = false
	default:
		colorEnabled = os.Getenv("NO_COLOR") == "" &&
			isatty.IsTerminal(os.Stdout.Fd())
	}
}

func paint(style, s string) string {
	if !colorEnabled {
		return s
	}
	return ansi.Color(s, style)
}

// Success prints a success message with checkmark
func Success(message string) {
	fmt.Printf("%s %s\n", paint("green", "✓"), message)
}

// Error prints an error message
func Error(message string) {
	fmt.Printf("%s %s\n", paint("red", "✗"), message)
}

// Info prints an info message
func Info(message string) {
	fmt.Printf("%s %s\n", paint("cyan", "ℹ"), message)
}

// Warning prints a warning message
func Warning(message string) {
	fmt.Printf("%s %s\n", paint("yellow", "⚠"), message)
}

// PrintCategoriesList prints the known categories in a formatted way
func PrintCategoriesList(categories []string, contextsRoot string) {
	if len(categories) == 0 {
		fmt.Println("No categories found.")
		fmt.Printf("\nCreate one with: mkdir -p %s/<category>/<config>\n", contextsRoot)
		return
	}

	fmt.Println("\nCategories:")
	fmt.Println()

	for _, category := range categories {
		fmt.Printf("  %s\n", category)
	}

	fmt.Println()
	fmt.Println("List configurations with: benv list <category>")
}

// PrintConfigsList prints a category's configurations, marking the active one
func PrintConfigsList(category string, configs []string, active string) {
	if len(configs) == 0 {
		fmt.Printf("No configurations found in '%s'.\n", category)
		fmt.Println("\nA configuration is a directory containing an 'activate' file.")
		return
	}

	fmt.Printf("\nConfigurations in '%s':\n", category)
	fmt.Println()

	for _, config := range configs {
		indicator := " "
		if config == active {
			indicator = paint("green", "→")
		}

		fmt.Printf("%s %s\n", indicator, config)
	}

	fmt.Println()
	if active == "" {
		fmt.Printf("No active configuration. Use 'benv use %s <config>' to set one.\n", category)
	}
}
