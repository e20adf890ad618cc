package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	draftweaver "github.com/alnah/go-draftweaver"
	"github.com/alnah/go-draftweaver/internal/hints"
	"github.com/alnah/go-draftweaver/internal/nostr"
	"github.com/alnah/go-draftweaver/internal/relay"
)

// runPublish signs a draft as a kind 30023 event and sends it to the write
// relays.
func runPublish(ctx context.Context, args []string, env *Environment) error {
	f := &publishFlags{}
	pos, err := parseFlagSet(newPublishFlagSet(f), args)
	if err != nil {
		return err
	}
	if err := expectArgs("publish", pos, 1, 1); err != nil {
		return err
	}

	a, err := newApp(env, f.common, true)
	if err != nil {
		return err
	}

	src, err := readInput(env, pos[0])
	if err != nil {
		return err
	}
	doc, err := draftweaver.ParseDraft(bytes.NewReader(src))
	if err != nil {
		return err
	}
	doc.Identifier = doc.ResolveIdentifier()
	if err := doc.Validate(); err != nil {
		return err
	}

	relays, err := publishRelays(f.relays, a)
	if err != nil {
		return err
	}

	signer, err := a.resolveSigner(f.keyFile)
	if err != nil {
		return err
	}

	timeout := f.timeout
	if timeout <= 0 {
		timeout = a.cfg.Publish.Timeout
	}

	var transport draftweaver.Transport = env.Transport
	if transport == nil {
		transport = relay.New(
			relay.WithLogger(a.logger),
			relay.WithUserAgent("draftweaver/"+Version))
	}

	publisher := draftweaver.NewPublisher(
		draftweaver.WithTimeout(timeout),
		draftweaver.WithLogger(a.logger),
		draftweaver.WithTransport(transport),
		draftweaver.WithClock(env.Now))

	a.logger.Debug("publishing",
		slog.String("identifier", doc.Identifier),
		slog.Any("relays", relays.WriteURLs()),
		slog.Duration("timeout", timeout))

	result, err := publisher.Publish(ctx, draftweaver.NewEvent(doc, signer), signer, relays)
	if err != nil {
		if result != nil {
			printOutcomes(env.Stderr, result)
		}
		return publishHint(err, result, len(a.envCfg.Relays) > 0)
	}

	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Published %q (d: %s)\n", doc.Title, doc.Identifier)
		fmt.Fprintf(env.Stdout, "  event: %s\n", result.Event.ID)
		printOutcomes(env.Stdout, result)
		fmt.Fprintf(env.Stdout, "Accepted by %d of %d relays\n", len(result.AcceptedBy()), len(result.Outcomes))
	}
	return nil
}

// publishRelays returns the --relay list when given, the configured list
// otherwise.
func publishRelays(urls []string, a *app) (*draftweaver.RelayList, error) {
	if len(urls) == 0 {
		return a.cfg.RelayList(), nil
	}

	relays := make([]draftweaver.Relay, 0, len(urls))
	for _, u := range urls {
		if _, err := draftweaver.NormalizeRelayURL(u); err != nil {
			return nil, err
		}
		relays = append(relays, draftweaver.Relay{URL: u, Write: true})
	}
	return draftweaver.NewRelayList(relays...), nil
}

// resolveSigner finds the signing key: --key, then DRAFTWEAVER_NSEC, then
// signer.keyFile from the config. Key files are unlocked with
// DRAFTWEAVER_PASSPHRASE or an interactive prompt.
func (a *app) resolveSigner(keyFile string) (*nostr.Keypair, error) {
	if keyFile == "" && a.envCfg.Nsec != "" {
		k, err := nostr.ParseSecret(a.envCfg.Nsec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", envNsec, err)
		}
		return k, nil
	}

	if keyFile == "" {
		keyFile = a.cfg.Signer.KeyFile
	}
	if keyFile == "" {
		return nil, fmt.Errorf("%w%s", draftweaver.ErrNoSigner, hints.ForNoSigner())
	}

	passphrase, err := a.passphrase("Passphrase for " + keyFile + ": ")
	if err != nil {
		return nil, err
	}
	k, err := nostr.ReadKeyFile(keyFile, passphrase)
	if errors.Is(err, nostr.ErrKeyFileDecrypt) {
		return nil, fmt.Errorf("%w%s", err, hints.ForKeyFileDecrypt())
	}
	if err != nil {
		return nil, err
	}
	a.logger.Debug("key file unlocked", slog.String("path", keyFile))
	return k, nil
}

// passphrase returns DRAFTWEAVER_PASSPHRASE or prompts for one.
func (a *app) passphrase(prompt string) (string, error) {
	if a.envCfg.Passphrase != "" {
		return a.envCfg.Passphrase, nil
	}
	if a.env.ReadPassword == nil {
		return "", ErrNoTerminal
	}
	return a.env.ReadPassword(prompt)
}

// publishHint appends hints to a failed publish.
func publishHint(err error, result *draftweaver.PublishResult, relaysFromEnv bool) error {
	if !errors.Is(err, draftweaver.ErrPublishFailed) {
		return err
	}
	hint := hints.ForRelayFailure(relaysFromEnv)
	if result != nil && len(result.Outcomes) > 0 && allTimedOut(result.Outcomes) {
		hint += hints.ForTimeout()
	}
	return fmt.Errorf("%w%s", err, hint)
}

func allTimedOut(outcomes []draftweaver.RelayOutcome) bool {
	for _, o := range outcomes {
		if !errors.Is(o.Err, context.DeadlineExceeded) {
			return false
		}
	}
	return true
}

// printOutcomes writes one line per relay.
func printOutcomes(w io.Writer, result *draftweaver.PublishResult) {
	for _, o := range result.Outcomes {
		if o.Accepted() {
			fmt.Fprintf(w, "  [OK]   %s (%s)\n", o.URL, o.Duration.Round(time.Millisecond))
			continue
		}
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", o.URL, o.Err)
	}
}
