// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForRelayFailure returns hints for a publish no relay accepted.
// relaysFromEnv reports whether DRAFTWEAVER_RELAYS replaced the config list.
func ForRelayFailure(relaysFromEnv bool) string {
	hints := []string{"check network access or try another relay with --relay"}
	if relaysFromEnv {
		hints = append(hints, "DRAFTWEAVER_RELAYS replaces the configured relays")
	}
	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow relays.
func ForTimeout() string {
	return format("slow relays may need a longer --timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/draftweaver") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForNoSigner returns hints for a publish without a signing key.
func ForNoSigner() string {
	return formatHints([]string{
		"run 'draftweaver keygen -o <file>' and set signer.keyFile",
		"or export DRAFTWEAVER_NSEC",
	})
}

// ForKeyFileDecrypt returns hints for a key file that would not unlock.
func ForKeyFileDecrypt() string {
	return format("check DRAFTWEAVER_PASSPHRASE or retype the passphrase")
}

// ForImport returns hints for WordPress API failures.
func ForImport() string {
	return format("the post must be public and the site must expose /wp-json/")
}

// ForPostURL explains what import expects as its argument.
func ForPostURL() string {
	return format("pass the full post URL, e.g. https://blog.example.com/2024/05/my-post/")
}

// ForStyleNotFound lists the available styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
