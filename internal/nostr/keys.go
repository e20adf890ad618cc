package nostr

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// keyLen is the byte length of secret keys and x-only public keys.
const keyLen = 32

// Keypair is a secp256k1 secret key with its x-only public key.
type Keypair struct {
	priv *btcec.PrivateKey
}

// GenerateKey creates a new random keypair.
func GenerateKey() (*Keypair, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}
	return &Keypair{priv: priv}, nil
}

// KeypairFromHex builds a keypair from a 64-character hex secret key.
func KeypairFromHex(secret string) (*Keypair, error) {
	raw, err := decodeKeyHex(secret)
	if err != nil {
		return nil, err
	}
	priv, _ := btcec.PrivKeyFromBytes(raw)
	if priv.Key.IsZero() {
		return nil, fmt.Errorf("%w: zero secret key", ErrInvalidKey)
	}
	return &Keypair{priv: priv}, nil
}

// ParseSecret accepts either an nsec bech32 string or a hex secret key.
func ParseSecret(s string) (*Keypair, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, HRPSecret+"1") {
		secret, err := DecodeNsec(s)
		if err != nil {
			return nil, err
		}
		return KeypairFromHex(secret)
	}
	return KeypairFromHex(s)
}

// PublicKeyHex returns the x-only public key as 64 hex characters.
func (k *Keypair) PublicKeyHex() string {
	return hex.EncodeToString(schnorr.SerializePubKey(k.priv.PubKey()))
}

// EncodePublic returns the npub encoding of the public key.
func (k *Keypair) EncodePublic() (string, error) {
	return EncodeNpub(k.PublicKeyHex())
}

// SecretHex returns the secret key as 64 hex characters.
func (k *Keypair) SecretHex() string {
	return hex.EncodeToString(k.priv.Serialize())
}

// EncodeSecret returns the nsec encoding of the secret key.
func (k *Keypair) EncodeSecret() (string, error) {
	return EncodeNsec(k.SecretHex())
}

// SignEvent sets the event pubkey, computes its id and attaches a BIP-340
// signature. CreatedAt must already be set.
func (k *Keypair) SignEvent(e *Event) error {
	e.replaceInvalidUTF8()
	e.PubKey = k.PublicKeyHex()
	h := e.Hash()

	sig, err := schnorr.Sign(k.priv, h[:])
	if err != nil {
		return fmt.Errorf("signing event: %w", err)
	}

	e.ID = hex.EncodeToString(h[:])
	e.Sig = hex.EncodeToString(sig.Serialize())
	return nil
}

// decodeKeyHex decodes a 32-byte key given as hex.
func decodeKeyHex(s string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(raw) != keyLen {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(raw), keyLen)
	}
	return raw, nil
}
