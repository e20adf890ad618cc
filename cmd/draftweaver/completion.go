package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-draftweaver/internal/assets"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagEnum // has predefined values
	flagFile // file, optionally matching a glob
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags, comma separated (empty = any file)
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed first-argument values (subcommands, shells)
	FilePattern string   // glob for file arguments (e.g., "*.md,*.markdown")
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsFile   bool     // any file
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"format": {Values: []string{formatJSON, formatHTML, formatTerminal}},
	"engine": {Values: []string{"builtin", "goldmark"}},
	"style":  {Values: assets.Styles()},

	"config": {FileGlob: "*.yaml,*.yml"},
	"output": {IsFile: true},
	"key":    {IsFile: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}
		if f.Value.Type() == "bool" {
			fd.Type = flagBool
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "" || meta.IsFile:
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the same FlagSets the commands parse with.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:  "import",
			Desc:  "Import a WordPress post as a draft",
			Flags: extractFlagsFromFlagSet(newImportFlagSet(&importFlags{})),
		},
		{
			Name:        "convert",
			Desc:        "Convert HTML to Markdown",
			Flags:       extractFlagsFromFlagSet(newConvertFlagSet("convert", &convertFlags{})),
			FilePattern: "*.html,*.htm",
		},
		{
			Name:        "render",
			Desc:        "Render Markdown to HTML",
			Flags:       extractFlagsFromFlagSet(newConvertFlagSet("render", &convertFlags{})),
			FilePattern: "*.md,*.markdown",
		},
		{
			Name:        "preview",
			Desc:        "Preview a draft as JSON, HTML or terminal text",
			Flags:       extractFlagsFromFlagSet(newPreviewFlagSet(&previewFlags{})),
			FilePattern: "*.md,*.markdown",
		},
		{
			Name:        "publish",
			Desc:        "Sign and publish a draft to relays",
			Flags:       extractFlagsFromFlagSet(newPublishFlagSet(&publishFlags{})),
			FilePattern: "*.md,*.markdown",
		},
		{
			Name:  "relays",
			Desc:  "List or edit relays",
			Flags: extractFlagsFromFlagSet(newRelaysFlagSet(&commonFlags{})),
			Args:  relaysSubcommands,
		},
		{
			Name:  "keygen",
			Desc:  "Generate or import a signing key",
			Flags: extractFlagsFromFlagSet(newKeygenFlagSet(&keygenFlags{})),
		},
		{
			Name: "slug",
			Desc: "Print the identifier for a text",
		},
		{
			Name:  "doctor",
			Desc:  "Check configuration, signer and relays",
			Flags: extractFlagsFromFlagSet(newDoctorFlagSet(&doctorFlags{})),
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish)},
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "help",
			Desc: "Show help for a command",
			Args: commandNames(),
		},
	}
}

// commandNames lists the commands help knows about.
func commandNames() []string {
	return []string{
		"import", "convert", "render", "preview", "publish", "relays",
		"keygen", "slug", "doctor", "completion", "version",
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = generateBash(getCommands())
	case ShellZsh:
		script = generateZsh(getCommands())
	case ShellFish:
		script = generateFish(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// generateBash builds a bash completion function.
func generateBash(cmds []commandDef) string {
	var b strings.Builder

	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}

	b.WriteString("# bash completion for draftweaver\n")
	b.WriteString("_draftweaver() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    COMPREPLY=()\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(names, " "))
	b.WriteString("        return 0\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)

		var valued []flagDef
		for _, f := range c.Flags {
			if f.Type != flagBool {
				valued = append(valued, f)
			}
		}
		if len(valued) > 0 {
			b.WriteString("        case \"$prev\" in\n")
			for _, f := range valued {
				fmt.Fprintf(&b, "        %s)\n", strings.Join(flagSpellings(f), "|"))
				switch f.Type {
				case flagEnum:
					fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(f.Values, " "))
				case flagFile:
					fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -f %s-- \"$cur\") )\n", bashGlobFilter(f.FileGlob))
				}
				b.WriteString("            return 0 ;;\n")
			}
			b.WriteString("        esac\n")
		}

		if len(c.Flags) > 0 {
			var spellings []string
			for _, f := range c.Flags {
				spellings = append(spellings, flagSpellings(f)...)
			}
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(spellings, " "))
			b.WriteString("            return 0\n")
			b.WriteString("        fi\n")
		}

		switch {
		case len(c.Args) > 0:
			b.WriteString("        if [[ ${COMP_CWORD} -eq 2 ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(c.Args, " "))
			b.WriteString("        fi\n")
		case c.FilePattern != "":
			fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -f %s-- \"$cur\") )\n", bashGlobFilter(c.FilePattern))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -o filenames -F _draftweaver draftweaver\n")
	return b.String()
}

// generateZsh builds a zsh completion function.
func generateZsh(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("#compdef draftweaver\n\n")
	b.WriteString("_draftweaver() {\n")
	b.WriteString("  local -a commands\n")
	b.WriteString("  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshQuote(c.Desc))
	}
	b.WriteString("  )\n\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n")
	b.WriteString("    _describe 'command' commands\n")
	b.WriteString("    return\n")
	b.WriteString("  fi\n\n")
	b.WriteString("  local cmd=\"$words[2]\"\n")
	b.WriteString("  shift words\n")
	b.WriteString("  (( CURRENT-- ))\n\n")
	b.WriteString("  case \"$cmd\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("      _arguments -s")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, " \\\n        %s", zshFlagSpec(f))
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, " \\\n        '1:argument:(%s)'", strings.Join(c.Args, " "))
		case c.FilePattern != "":
			fmt.Fprintf(&b, " \\\n        '*:file:_files -g \"%s\"'", zshGlob(c.FilePattern))
		}
		b.WriteString("\n      ;;\n")
	}

	b.WriteString("  esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _draftweaver draftweaver\n")
	return b.String()
}

// generateFish builds fish completion commands.
func generateFish(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# fish completion for draftweaver\n")
	b.WriteString("complete -c draftweaver -f\n\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c draftweaver -n __fish_use_subcommand -a %s -d '%s'\n", c.Name, fishQuote(c.Desc))
	}
	b.WriteString("\n")

	for _, c := range cmds {
		cond := fmt.Sprintf("-n '__fish_seen_subcommand_from %s'", c.Name)
		for _, f := range c.Flags {
			line := "complete -c draftweaver " + cond
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long
			switch f.Type {
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagString:
				line += " -r"
			}
			line += fmt.Sprintf(" -d '%s'", fishQuote(f.Desc))
			b.WriteString(line + "\n")
		}

		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "complete -c draftweaver %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		case c.FilePattern != "":
			for _, ext := range globExtensions(c.FilePattern) {
				fmt.Fprintf(&b, "complete -c draftweaver %s -k -a '(__fish_complete_suffix .%s)'\n", cond, ext)
			}
		}
	}
	return b.String()
}

// flagSpellings returns "--long" and "-s" when a shorthand exists.
func flagSpellings(f flagDef) []string {
	if f.Short == "" {
		return []string{"--" + f.Long}
	}
	return []string{"--" + f.Long, "-" + f.Short}
}

// globExtensions turns "*.md,*.markdown" into ["md", "markdown"].
func globExtensions(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		if ext := strings.TrimPrefix(strings.TrimSpace(g), "*."); ext != "" {
			exts = append(exts, ext)
		}
	}
	return exts
}

// bashGlobFilter returns the compgen -X option keeping only matching files.
func bashGlobFilter(glob string) string {
	exts := globExtensions(glob)
	if len(exts) == 0 {
		return ""
	}
	return fmt.Sprintf("-X '!*.@(%s)' ", strings.Join(exts, "|"))
}

// zshGlob turns "*.md,*.markdown" into "*.(md|markdown)".
func zshGlob(glob string) string {
	return "*.(" + strings.Join(globExtensions(glob), "|") + ")"
}

// zshFlagSpec builds one _arguments spec.
func zshFlagSpec(f flagDef) string {
	names := "--" + f.Long
	exclusion := ""
	if f.Short != "" {
		names = "{-" + f.Short + ",--" + f.Long + "}"
		exclusion = "'(-" + f.Short + " --" + f.Long + ")'"
	}

	action := ""
	switch f.Type {
	case flagEnum:
		action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		if f.FileGlob != "" {
			action = ":file:_files -g \"" + zshGlob(f.FileGlob) + "\""
		} else {
			action = ":file:_files"
		}
	case flagString:
		action = ":" + f.Long + ":"
	}

	return exclusion + names + "'[" + zshQuote(f.Desc) + "]" + action + "'"
}

// zshQuote escapes text for a single-quoted _arguments spec.
func zshQuote(s string) string {
	return strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`).Replace(s)
}

// fishQuote escapes text for a single-quoted fish string.
func fishQuote(s string) string {
	return strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s)
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: draftweaver completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(draftweaver completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(draftweaver completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    draftweaver completion fish > ~/.config/fish/completions/draftweaver.fish")
}
