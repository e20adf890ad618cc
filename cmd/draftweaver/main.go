package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("usage error")

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if wantsVerbose(os.Args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain runs the CLI and returns the process exit code.
func runMain(args []string, env *Environment) int {
	warnUnknownEnvVars(env.Stderr, env.Environ())

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := run(ctx, args, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// run dispatches args[1] to its command.
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: no command given", ErrUsage)
	}

	cmd, rest := args[1], args[2:]

	var err error
	switch cmd {
	case "import":
		err = runImport(ctx, rest, env)
	case "convert":
		err = runConvert(rest, env)
	case "render":
		err = runRender(rest, env)
	case "preview":
		err = runPreview(ctx, rest, env)
	case "publish":
		err = runPublish(ctx, rest, env)
	case "relays":
		err = runRelays(rest, env)
	case "keygen":
		err = runKeygen(rest, env)
	case "slug":
		err = runSlug(rest, env)
	case "doctor":
		err = runDoctor(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "draftweaver %s\n", Version)
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}

	if errors.Is(err, flag.ErrHelp) {
		return runHelp([]string{cmd}, env)
	}
	return err
}

// wantsVerbose reports whether a verbose flag appears before "--".
func wantsVerbose(args []string) bool {
	if i := slices.Index(args, "--"); i >= 0 {
		args = args[:i]
	}
	return slices.Contains(args, "-v") || slices.Contains(args, "--verbose")
}
