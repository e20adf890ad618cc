package main

import (
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared by commands that load configuration.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// importFlags holds flags for the import command.
type importFlags struct {
	common commonFlags
	output string
	force  bool
}

// convertFlags holds flags for the convert and render commands.
type convertFlags struct {
	output string
	base   string
	force  bool
}

// previewFlags holds flags for the preview command.
type previewFlags struct {
	common commonFlags
	format string
	engine string
	style  string
	output string
	width  int
}

// publishFlags holds flags for the publish command.
type publishFlags struct {
	common  commonFlags
	keyFile string
	relays  []string
	timeout time.Duration
}

// keygenFlags holds flags for the keygen command.
type keygenFlags struct {
	common  commonFlags
	output  string
	force   bool
	imprt   bool
	showKey bool
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// Preview output formats.
const (
	formatJSON     = "json"
	formatHTML     = "html"
	formatTerminal = "terminal"
)

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

func newImportFlagSet(f *importFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "write the draft to this file")
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite an existing output file")
	addCommonFlags(fs, &f.common)
	return fs
}

func newConvertFlagSet(name string, f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "write the result to this file")
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite an existing output file")
	if name == "convert" {
		fs.StringVarP(&f.base, "base", "b", "", "base URL for relative links and images")
	}
	return fs
}

func newPreviewFlagSet(f *previewFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.StringVar(&f.format, "format", formatTerminal, "output format: json, html, terminal")
	fs.StringVarP(&f.engine, "engine", "e", "", "HTML engine: builtin, goldmark")
	fs.StringVarP(&f.style, "style", "s", "", "HTML stylesheet name")
	fs.StringVarP(&f.output, "output", "o", "", "write the preview to this file")
	fs.IntVarP(&f.width, "width", "w", 0, "terminal width (0 = detect)")
	addCommonFlags(fs, &f.common)
	return fs
}

func newPublishFlagSet(f *publishFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	fs.StringVarP(&f.keyFile, "key", "k", "", "encrypted key file")
	fs.StringSliceVarP(&f.relays, "relay", "r", nil, "publish to this relay instead of the configured ones (repeatable)")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "publish timeout (e.g., 8s, 1m)")
	addCommonFlags(fs, &f.common)
	return fs
}

func newRelaysFlagSet(f *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("relays", flag.ContinueOnError)
	addCommonFlags(fs, f)
	return fs
}

func newKeygenFlagSet(f *keygenFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "write an encrypted key file")
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite an existing key file")
	fs.BoolVar(&f.imprt, "import", false, "store the key from DRAFTWEAVER_NSEC instead of generating one")
	fs.BoolVar(&f.showKey, "show-secret", false, "print the nsec even when writing a key file")
	addCommonFlags(fs, &f.common)
	return fs
}

func newDoctorFlagSet(f *doctorFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	addCommonFlags(fs, &f.common)
	return fs
}

// parseFlagSet parses args and returns the positional arguments.
// flag.ErrHelp is returned as is so callers can print usage.
func parseFlagSet(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUsage, fs.Name(), err)
	}
	return fs.Args(), nil
}

// expectArgs checks the positional argument count.
func expectArgs(cmd string, args []string, minArgs, maxArgs int) error {
	if len(args) < minArgs || (maxArgs >= 0 && len(args) > maxArgs) {
		switch {
		case minArgs == maxArgs:
			return fmt.Errorf("%w: %s expects %d argument(s), got %d", ErrUsage, cmd, minArgs, len(args))
		case maxArgs < 0:
			return fmt.Errorf("%w: %s expects at least %d argument(s), got %d", ErrUsage, cmd, minArgs, len(args))
		default:
			return fmt.Errorf("%w: %s expects %d to %d arguments, got %d", ErrUsage, cmd, minArgs, maxArgs, len(args))
		}
	}
	return nil
}

func newSlugFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("slug", flag.ContinueOnError)
}
