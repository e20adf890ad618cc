package main

import (
	"fmt"

	"github.com/alnah/go-draftweaver/internal/nostr"
)

// runKeygen creates (or imports) a signing key and optionally stores it in
// an age-encrypted key file.
func runKeygen(args []string, env *Environment) error {
	f := &keygenFlags{}
	pos, err := parseFlagSet(newKeygenFlagSet(f), args)
	if err != nil {
		return err
	}
	if err := expectArgs("keygen", pos, 0, 0); err != nil {
		return err
	}

	a, err := newApp(env, f.common, false)
	if err != nil {
		return err
	}

	k, err := keygenKey(f.imprt, a.envCfg)
	if err != nil {
		return err
	}
	npub, err := k.EncodePublic()
	if err != nil {
		return err
	}
	nsec, err := k.EncodeSecret()
	if err != nil {
		return err
	}

	if f.output == "" {
		fmt.Fprintf(env.Stdout, "npub: %s\n", npub)
		fmt.Fprintf(env.Stdout, "nsec: %s\n", nsec)
		if !f.common.quiet {
			fmt.Fprintln(env.Stderr, "warning: keep the nsec secret, use --output to store it encrypted")
		}
		return nil
	}

	if err := checkOverwrite(f.output, f.force); err != nil {
		return err
	}
	passphrase, err := a.newPassphrase()
	if err != nil {
		return err
	}
	if err := nostr.WriteKeyFile(f.output, k, passphrase); err != nil {
		return err
	}

	fmt.Fprintf(env.Stdout, "npub: %s\n", npub)
	if f.showKey {
		fmt.Fprintf(env.Stdout, "nsec: %s\n", nsec)
	}
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Key file written to %s\n", f.output)
		if a.cfg.Signer.KeyFile == "" {
			fmt.Fprintf(env.Stdout, "Set signer.keyFile: %s in your config to publish with it\n", f.output)
		}
	}
	return nil
}

// keygenKey generates a key, or parses DRAFTWEAVER_NSEC with --import.
func keygenKey(imprt bool, envCfg *envConfig) (*nostr.Keypair, error) {
	if !imprt {
		return nostr.GenerateKey()
	}
	if envCfg.Nsec == "" {
		return nil, fmt.Errorf("%w: --import reads the key from %s, which is not set", ErrUsage, envNsec)
	}
	k, err := nostr.ParseSecret(envCfg.Nsec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", envNsec, err)
	}
	return k, nil
}

// newPassphrase returns DRAFTWEAVER_PASSPHRASE, or prompts twice and
// checks both entries match.
func (a *app) newPassphrase() (string, error) {
	if a.envCfg.Passphrase != "" {
		return a.envCfg.Passphrase, nil
	}

	first, err := a.passphrase("New passphrase: ")
	if err != nil {
		return "", err
	}
	second, err := a.passphrase("Repeat passphrase: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", fmt.Errorf("%w: passphrases do not match", ErrUsage)
	}
	return first, nil
}
