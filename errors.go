package draftweaver

import "errors"

// Sentinel errors for library operations.
var (
	// Publishing errors.
	ErrNoSigner      = errors.New("a signer is required to publish")
	ErrNoWriteRelays = errors.New("no write-enabled relays configured, add wss://jumble.social or another relay")
	ErrPublishFailed = errors.New("could not publish to any configured relays")

	// Relay list errors.
	ErrInvalidRelayURL = errors.New("invalid relay URL")
	ErrRelayExists     = errors.New("relay already in list")
	ErrRelayNotFound   = errors.New("relay not in list")

	// Document validation errors.
	ErrInvalidDocument = errors.New("invalid document")

	// Draft file errors.
	ErrReadDraft  = errors.New("failed to read draft")
	ErrWriteDraft = errors.New("failed to write draft")
)
