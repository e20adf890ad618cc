package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: draftweaver <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  import      Import a WordPress post as a draft")
	fmt.Fprintln(w, "  convert     Convert HTML to Markdown")
	fmt.Fprintln(w, "  render      Render Markdown to HTML")
	fmt.Fprintln(w, "  preview     Preview a draft as JSON, HTML or terminal text")
	fmt.Fprintln(w, "  publish     Sign and publish a draft to relays")
	fmt.Fprintln(w, "  relays      List or edit relays")
	fmt.Fprintln(w, "  keygen      Generate or import a signing key")
	fmt.Fprintln(w, "  slug        Print the identifier for a text")
	fmt.Fprintln(w, "  doctor      Check configuration, signer and relays")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'draftweaver help <command>' for details on a specific command.")
}

// printCommonFlags prints flags shared by config-aware commands.
func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>     Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet             Only show errors")
	fmt.Fprintln(w, "  -v, --verbose           Show debug logs")
}

func printImportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: draftweaver import <post-url> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fetch a post from the WordPress REST API and write it as a Markdown draft")
	fmt.Fprintln(w, "with a YAML front matter header. Prints the draft when no output is given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>     Write the draft to this file")
	fmt.Fprintln(w, "  -f, --force             Overwrite an existing output file")
	printCommonFlags(w)
}

func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: draftweaver convert <file.html|-> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert an HTML fragment to Markdown. Use - to read stdin.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -b, --base <url>        Base URL for relative links and images")
	fmt.Fprintln(w, "  -o, --output <path>     Write the result to this file")
	fmt.Fprintln(w, "  -f, --force             Overwrite an existing output file")
}

func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: draftweaver render <draft.md|-> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render Markdown (or a draft body) to an HTML fragment. Use - to read stdin.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>     Write the result to this file")
	fmt.Fprintln(w, "  -f, --force             Overwrite an existing output file")
}

func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: draftweaver preview <draft.md|-> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Preview a draft before publishing.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --format <s>        json, html or terminal (default: terminal)")
	fmt.Fprintln(w, "  -e, --engine <s>        HTML engine: builtin, goldmark (default: config)")
	fmt.Fprintln(w, "  -s, --style <name>      HTML stylesheet: default, dark, sepia or a custom name")
	fmt.Fprintln(w, "  -o, --output <path>     Write the preview to this file")
	fmt.Fprintln(w, "  -w, --width <n>         Terminal width (0 = detect)")
	printCommonFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The JSON preview is the unsigned event. Its author tag is filled when")
	fmt.Fprintln(w, "DRAFTWEAVER_NSEC is set.")
}

func printPublishUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: draftweaver publish <draft.md|-> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sign the draft as a NIP-23 long-form event and send it to every")
	fmt.Fprintln(w, "write-enabled relay. Succeeds when at least one relay accepts it.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -k, --key <path>        Encrypted key file (default: signer.keyFile)")
	fmt.Fprintln(w, "  -r, --relay <url>       Publish to this relay only (repeatable)")
	fmt.Fprintln(w, "  -t, --timeout <d>       Publish timeout, e.g. 8s, 1m")
	printCommonFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Signer lookup: --key, then DRAFTWEAVER_NSEC, then signer.keyFile.")
	fmt.Fprintln(w, "Key files are unlocked with DRAFTWEAVER_PASSPHRASE or a prompt.")
}

func printRelaysUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: draftweaver relays [action] [url] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List or edit the relays stored in the config file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Actions:")
	fmt.Fprintln(w, "  list                    Show relays (default)")
	fmt.Fprintln(w, "  add <url>               Add a read and write relay")
	fmt.Fprintln(w, "  remove <url>            Remove a relay (the last one is kept)")
	fmt.Fprintln(w, "  toggle-read <url>       Flip the read flag")
	fmt.Fprintln(w, "  toggle-write <url>      Flip the write flag")
	printCommonFlags(w)
}

func printKeygenUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: draftweaver keygen [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a signing key. With --output the key is stored in an")
	fmt.Fprintln(w, "age-encrypted file instead of being printed.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>     Write an encrypted key file")
	fmt.Fprintln(w, "  -f, --force             Overwrite an existing key file")
	fmt.Fprintln(w, "      --import            Store the key from DRAFTWEAVER_NSEC")
	fmt.Fprintln(w, "      --show-secret       Print the nsec even when writing a key file")
	printCommonFlags(w)
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: draftweaver doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that the config, signer and relays are ready for publishing.")
	fmt.Fprintln(w, "Relays are not contacted.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json              Print results as JSON")
	printCommonFlags(w)
}

func printEnvHelp(w io.Writer) {
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  DRAFTWEAVER_CONFIG      Config file name or path")
	fmt.Fprintln(w, "  DRAFTWEAVER_TIMEOUT     Publish timeout")
	fmt.Fprintln(w, "  DRAFTWEAVER_NSEC        Signing key (nsec or hex)")
	fmt.Fprintln(w, "  DRAFTWEAVER_PASSPHRASE  Key file passphrase")
	fmt.Fprintln(w, "  DRAFTWEAVER_RELAYS      Comma separated relay URLs, replaces the config list")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		fmt.Fprintln(env.Stdout)
		printEnvHelp(env.Stdout)
		return nil
	}

	w := env.Stdout
	switch args[0] {
	case "import":
		printImportUsage(w)
	case "convert":
		printConvertUsage(w)
	case "render":
		printRenderUsage(w)
	case "preview":
		printPreviewUsage(w)
	case "publish":
		printPublishUsage(w)
	case "relays":
		printRelaysUsage(w)
	case "keygen":
		printKeygenUsage(w)
	case "doctor":
		printDoctorUsage(w)
	case "completion":
		printCompletionUsage(w)
	case "slug":
		fmt.Fprintln(w, "Usage: draftweaver slug <text...>")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Print the event identifier derived from the text.")
	case "version":
		fmt.Fprintln(w, "Usage: draftweaver version")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show version information.")
	case "help":
		fmt.Fprintln(w, "Usage: draftweaver help [command]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return nil
}
