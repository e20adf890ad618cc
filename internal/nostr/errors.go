package nostr

import "errors"

// Sentinel errors for key and event operations.
var (
	ErrInvalidKey       = errors.New("invalid key")
	ErrInvalidBech32    = errors.New("invalid bech32 key")
	ErrUnexpectedPrefix = errors.New("unexpected bech32 prefix")
	ErrInvalidSignature = errors.New("invalid event signature")
	ErrIDMismatch       = errors.New("event id does not match content")

	// Key file errors.
	ErrEmptyPassphrase = errors.New("passphrase cannot be empty")
	ErrKeyFileDecrypt  = errors.New("failed to decrypt key file")
	ErrKeyFileWrite    = errors.New("failed to write key file")
	ErrKeyFileRead     = errors.New("failed to read key file")
)
