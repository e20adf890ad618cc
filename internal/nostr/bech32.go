package nostr

import (
	"encoding/hex"
	"fmt"

	"github.com/cosmos/btcutil/bech32"
)

// NIP-19 human-readable prefixes.
const (
	HRPPublic = "npub"
	HRPSecret = "nsec"
)

// EncodeNpub encodes a hex public key as npub.
func EncodeNpub(pubHex string) (string, error) {
	return encodeKey(HRPPublic, pubHex)
}

// EncodeNsec encodes a hex secret key as nsec.
func EncodeNsec(secretHex string) (string, error) {
	return encodeKey(HRPSecret, secretHex)
}

// DecodeNpub returns the hex public key of an npub string.
func DecodeNpub(s string) (string, error) {
	return decodeKey(HRPPublic, s)
}

// DecodeNsec returns the hex secret key of an nsec string.
func DecodeNsec(s string) (string, error) {
	return decodeKey(HRPSecret, s)
}

func encodeKey(hrp, keyHex string) (string, error) {
	raw, err := decodeKeyHex(keyHex)
	if err != nil {
		return "", err
	}
	out, err := bech32.EncodeFromBase256(hrp, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBech32, err)
	}
	return out, nil
}

func decodeKey(wantHRP, s string) (string, error) {
	hrp, raw, err := bech32.DecodeToBase256(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBech32, err)
	}
	if hrp != wantHRP {
		return "", fmt.Errorf("%w: got %q, want %q", ErrUnexpectedPrefix, hrp, wantHRP)
	}
	if len(raw) != keyLen {
		return "", fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidBech32, len(raw), keyLen)
	}
	return hex.EncodeToString(raw), nil
}
