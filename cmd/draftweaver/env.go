package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/term"

	draftweaver "github.com/alnah/go-draftweaver"
)

// ErrNoTerminal is returned when a secret must be prompted for but stdin
// is not a terminal.
var ErrNoTerminal = errors.New("cannot prompt for passphrase: stdin is not a terminal, set DRAFTWEAVER_PASSPHRASE")

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment and network access.
type Environment struct {
	Now     func() time.Time
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	// ReadPassword prompts for a secret without echoing it.
	ReadPassword func(prompt string) (string, error)

	// HTTPClient is used for WordPress requests; nil keeps the client default.
	HTTPClient *http.Client

	// Transport delivers events to relays; nil selects the WebSocket client.
	Transport draftweaver.Transport
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:          time.Now,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Getenv:       os.Getenv,
		Environ:      os.Environ,
		ReadPassword: readPasswordTTY,
	}
}

// readPasswordTTY prompts on stderr and reads from the controlling terminal.
func readPasswordTTY(prompt string) (string, error) {
	fd := int(os.Stdin.Fd()) // #nosec G115 -- fd fits in int
	if !term.IsTerminal(fd) {
		return "", ErrNoTerminal
	}

	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(secret), nil
}
