package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	draftweaver "github.com/alnah/go-draftweaver"
)

// relaysSubcommands lists the relays actions in help order.
var relaysSubcommands = []string{"list", "add", "remove", "toggle-read", "toggle-write"}

// runRelays lists or edits the relays stored in the config file.
func runRelays(args []string, env *Environment) error {
	f := &commonFlags{}
	pos, err := parseFlagSet(newRelaysFlagSet(f), args)
	if err != nil {
		return err
	}
	if len(pos) == 0 {
		pos = []string{"list"}
	}

	// Env overrides stay out of the list that gets saved.
	a, err := newApp(env, *f, false)
	if err != nil {
		return err
	}
	list := a.cfg.RelayList()

	action, rest := pos[0], pos[1:]
	if action == "list" {
		if err := expectArgs("relays list", rest, 0, 0); err != nil {
			return err
		}
		if a.envCfg.Relays != nil && !f.quiet {
			fmt.Fprintf(env.Stderr, "note: %s is set and replaces this list when publishing\n", envRelays)
		}
		return printRelays(env.Stdout, list)
	}

	if err := expectArgs("relays "+action, rest, 1, 1); err != nil {
		return err
	}
	url := rest[0]

	var verb string
	switch action {
	case "add":
		verb = "added"
		err = list.Add(url)
	case "remove":
		verb = "removed"
		if !list.Remove(url) {
			err = removeError(list, url)
		}
	case "toggle-read":
		verb = "toggled read on"
		err = list.ToggleRead(url)
	case "toggle-write":
		verb = "toggled write on"
		err = list.ToggleWrite(url)
	default:
		return fmt.Errorf("%w: unknown relays action %q (supported: list, add, remove, toggle-read, toggle-write)",
			ErrUsage, action)
	}
	if err != nil {
		return err
	}

	if a.cfgPath == "" {
		return errors.New("no config location available, pass --config")
	}
	a.cfg.SetRelays(list)
	if err := a.cfg.Save(a.cfgPath); err != nil {
		return err
	}

	if !f.quiet {
		normalized, _ := draftweaver.NormalizeRelayURL(url)
		fmt.Fprintf(env.Stdout, "%s %s (%s)\n", verb, normalized, a.cfgPath)
	}
	return nil
}

// removeError explains why Remove left the list unchanged.
func removeError(list *draftweaver.RelayList, rawURL string) error {
	u, err := draftweaver.NormalizeRelayURL(rawURL)
	if err != nil {
		return err
	}
	for _, r := range list.Relays() {
		if r.URL == u {
			return fmt.Errorf("%w: cannot remove the last relay", ErrUsage)
		}
	}
	return fmt.Errorf("%w: %s", draftweaver.ErrRelayNotFound, u)
}

// printRelays writes the relay table.
func printRelays(w io.Writer, list *draftweaver.RelayList) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "URL\tREAD\tWRITE")
	for _, r := range list.Relays() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.URL, yesNo(r.Read), yesNo(r.Write))
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
