package main

import (
	"errors"
	"os"

	draftweaver "github.com/alnah/go-draftweaver"
	"github.com/alnah/go-draftweaver/internal/assets"
	"github.com/alnah/go-draftweaver/internal/config"
	"github.com/alnah/go-draftweaver/internal/nostr"
	"github.com/alnah/go-draftweaver/internal/preview"
	"github.com/alnah/go-draftweaver/internal/relay"
	"github.com/alnah/go-draftweaver/internal/wordpress"
)

// Exit codes for the draftweaver CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitNetwork = 4 // Relay or WordPress errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Network errors (exit 4)
	if errors.Is(err, draftweaver.ErrPublishFailed) ||
		errors.Is(err, relay.ErrDial) ||
		errors.Is(err, relay.ErrSend) ||
		errors.Is(err, relay.ErrReceive) ||
		errors.Is(err, relay.ErrRejected) ||
		errors.Is(err, wordpress.ErrRequest) ||
		errors.Is(err, wordpress.ErrUnexpectedStatus) ||
		errors.Is(err, wordpress.ErrDecode) ||
		errors.Is(err, wordpress.ErrPostNotFound) {
		return ExitNetwork
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, draftweaver.ErrReadDraft) ||
		errors.Is(err, draftweaver.ErrWriteDraft) ||
		errors.Is(err, config.ErrConfigWrite) ||
		errors.Is(err, nostr.ErrKeyFileRead) ||
		errors.Is(err, nostr.ErrKeyFileWrite) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, assets.ErrAssetRead) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrOutputExists) ||
		errors.Is(err, ErrNoTerminal) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, draftweaver.ErrInvalidDocument) ||
		errors.Is(err, draftweaver.ErrInvalidRelayURL) ||
		errors.Is(err, draftweaver.ErrRelayExists) ||
		errors.Is(err, draftweaver.ErrRelayNotFound) ||
		errors.Is(err, draftweaver.ErrNoSigner) ||
		errors.Is(err, draftweaver.ErrNoWriteRelays) ||
		errors.Is(err, preview.ErrUnknownEngine) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrPathTraversal) ||
		errors.Is(err, wordpress.ErrInvalidURL) ||
		errors.Is(err, wordpress.ErrNoSlug) ||
		errors.Is(err, nostr.ErrInvalidKey) ||
		errors.Is(err, nostr.ErrInvalidBech32) ||
		errors.Is(err, nostr.ErrUnexpectedPrefix) ||
		errors.Is(err, nostr.ErrEmptyPassphrase) ||
		errors.Is(err, nostr.ErrKeyFileDecrypt) {
		return ExitUsage
	}

	return ExitGeneral
}
