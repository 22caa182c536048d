package crypt

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// ErrPasswordMismatch reports that the confirmation entry did not repeat
// the passphrase exactly.
var ErrPasswordMismatch = errors.New("password confirmation doesn't match")

// PromptPassword reads a passphrase from the terminal with echo disabled.
func PromptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no terminal available for password prompt (pass the password explicitly or disable encryption)")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}

// PromptNewPassword asks for a passphrase twice and requires both entries
// to match. An empty first entry disables encryption and skips the
// confirmation. This runs before any compression or upload work so a typo
// aborts a doomed run early.
func PromptNewPassword() (string, error) {
	password, err := PromptPassword("Password (blank to disable encryption): ")
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", nil
	}
	confirm, err := PromptPassword("Password confirmation: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", ErrPasswordMismatch
	}
	return password, nil
}
