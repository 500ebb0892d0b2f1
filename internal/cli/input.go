package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// PromptPassword writes prompt to stdout and reads a line from stdin with
// terminal echo disabled, so a passphrase typed at vaultcli's prompt never
// lands in shell history or a terminal scrollback.
func PromptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("cli: reading password failed: %w", err)
	}
	return string(secret), nil
}

// PromptPasswordConfirm reads a password via PromptPassword, then asks for
// it again and requires both entries to match — used wherever vaultcli
// establishes a new passphrase (init, rebase) rather than verifying one.
func PromptPasswordConfirm(prompt string) (string, error) {
	first, err := PromptPassword(prompt)
	if err != nil {
		return "", err
	}
	second, err := PromptPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", fmt.Errorf("cli: passwords do not match")
	}
	return first, nil
}

// PromptInput writes prompt to stdout and returns the next line of stdin,
// trimmed of surrounding whitespace.
func PromptInput(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("cli: reading input failed: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// PromptConfirm asks a yes/no question, defaulting to defaultYes when the
// user presses enter without typing anything.
func PromptConfirm(prompt string, defaultYes bool) (bool, error) {
	suffix := " [y/N]: "
	if defaultYes {
		suffix = " [Y/n]: "
	}

	answer, err := PromptInput(prompt + suffix)
	if err != nil {
		return false, err
	}

	answer = strings.ToLower(answer)
	if answer == "" {
		return defaultYes, nil
	}
	return answer == "y" || answer == "yes", nil
}

// PromptChoice lists choices as a numbered menu and accepts either the
// number or the choice text itself.
func PromptChoice(prompt string, choices []string) (string, error) {
	fmt.Println(prompt)
	for i, choice := range choices {
		fmt.Printf("  %d) %s\n", i+1, choice)
	}

	answer, err := PromptInput(fmt.Sprintf("Enter choice (1-%d): ", len(choices)))
	if err != nil {
		return "", err
	}

	if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(choices) {
		return choices[n-1], nil
	}

	lower := strings.ToLower(answer)
	for _, choice := range choices {
		if strings.ToLower(choice) == lower {
			return choice, nil
		}
	}

	return "", fmt.Errorf("cli: %q is not one of the listed choices", answer)
}
