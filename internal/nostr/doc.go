// Package nostr implements the parts of NIP-01 and NIP-19 needed to sign and
// publish long-form events: event serialization and ids, BIP-340 Schnorr
// signatures over secp256k1, npub/nsec bech32 encoding, and an
// age-encrypted key file.
package nostr
