package nostr

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"

	"github.com/alnah/go-draftweaver/internal/fileutil"
)

// maxKeyFilePlaintext bounds the decrypted key file size. An nsec line is
// well under 100 bytes.
const maxKeyFilePlaintext = 4 << 10

// ScryptWorkFactor is the log2 scrypt cost used when writing key files.
// Tests lower it to keep encryption fast.
var ScryptWorkFactor = 18

// WriteKeyFile encrypts the keypair's nsec with a passphrase and writes it
// to path with owner-only permissions.
func WriteKeyFile(path string, k *Keypair, passphrase string) error {
	if passphrase == "" {
		return ErrEmptyPassphrase
	}

	nsec, err := k.EncodeSecret()
	if err != nil {
		return err
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKeyFileWrite, err)
	}
	recipient.SetWorkFactor(ScryptWorkFactor)

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKeyFileWrite, err)
	}
	if _, err := io.WriteString(w, nsec+"\n"); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyFileWrite, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyFileWrite, err)
	}

	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), fileutil.SecretPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyFileWrite, err)
	}
	return nil
}

// ReadKeyFile decrypts the key file at path with a passphrase.
func ReadKeyFile(path, passphrase string) (*Keypair, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided key path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFileRead, err)
	}
	defer f.Close()

	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFileDecrypt, err)
	}

	r, err := age.Decrypt(f, identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFileDecrypt, err)
	}

	data, err := io.ReadAll(io.LimitReader(r, maxKeyFilePlaintext))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFileDecrypt, err)
	}

	return ParseSecret(strings.TrimSpace(string(data)))
}
