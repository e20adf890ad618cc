package main

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	draftweaver "github.com/alnah/go-draftweaver"
	"github.com/alnah/go-draftweaver/internal/assets"
	"github.com/alnah/go-draftweaver/internal/config"
	"github.com/alnah/go-draftweaver/internal/fileutil"
	"github.com/alnah/go-draftweaver/internal/nostr"
)

// errDoctorFailed is returned when at least one check failed.
var errDoctorFailed = errors.New("doctor found problems")

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Config   configInfo `json:"config"`
	Signer   signerInfo `json:"signer"`
	Relays   relayInfo  `json:"relays"`
	Preview  styleInfo  `json:"preview"`
	Env      envInfo    `json:"environment"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// configInfo describes the config file in use.
type configInfo struct {
	Path  string `json:"path,omitempty"`
	Found bool   `json:"found"`
}

// signerInfo describes where the signing key comes from.
type signerInfo struct {
	Source  string `json:"source,omitempty"` // "env", "keyFile" or empty
	KeyFile string `json:"key_file,omitempty"`
	Npub    string `json:"npub,omitempty"`
}

// relayInfo summarizes the relays a publish would use.
type relayInfo struct {
	Total int      `json:"total"`
	Read  int      `json:"read"`
	Write []string `json:"write"`
}

// styleInfo describes the HTML preview stylesheet.
type styleInfo struct {
	Style     string `json:"style"`
	AssetsDir string `json:"assets_dir,omitempty"`
	Custom    bool   `json:"custom"` // a custom style directory is active
}

// envInfo holds environment detection results.
type envInfo struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
	CI   bool   `json:"ci"`
}

// runDoctor checks that the config, signer and relays are ready for
// publishing. It never contacts relays.
func runDoctor(args []string, env *Environment) error {
	f := &doctorFlags{}
	pos, err := parseFlagSet(newDoctorFlagSet(f), args)
	if err != nil {
		return err
	}
	if err := expectArgs("doctor", pos, 0, 0); err != nil {
		return err
	}

	result := diagnose(env, f.common)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return errDoctorFailed
	}
	return nil
}

// diagnose performs all checks.
func diagnose(env *Environment, common commonFlags) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env:    envInfo{OS: runtime.GOOS, Arch: runtime.GOARCH},
	}

	a, err := newApp(env, common, true)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		a = &app{env: env, envCfg: loadEnvConfig(env.Getenv), cfg: config.DefaultConfig()}
	} else {
		result.Config = configInfo{Path: a.cfgPath, Found: a.cfgFound}
	}

	checkSigner(result, a)
	checkRelays(result, a)
	checkPreviewStyle(result, a)
	checkEnvironment(result, env, a)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkSigner locates the signing key without unlocking key files.
func checkSigner(result *doctorResult, a *app) {
	if a.envCfg.Nsec != "" {
		k, err := nostr.ParseSecret(a.envCfg.Nsec)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", envNsec, err))
			return
		}
		result.Signer.Source = "env"
		result.Signer.Npub, _ = k.EncodePublic()
		return
	}

	keyFile := a.cfg.Signer.KeyFile
	if keyFile == "" {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("No signer configured. Set %s or signer.keyFile to publish", envNsec))
		return
	}

	result.Signer.KeyFile = keyFile
	if !fileutil.FileExists(keyFile) {
		result.Errors = append(result.Errors, fmt.Sprintf("Key file not found: %s", keyFile))
		return
	}
	result.Signer.Source = "keyFile"
}

// checkRelays counts read and write relays.
func checkRelays(result *doctorResult, a *app) {
	list := a.cfg.RelayList()
	result.Relays.Total = list.Len()
	result.Relays.Write = list.WriteURLs()
	for _, r := range list.Relays() {
		if r.Read {
			result.Relays.Read++
		}
	}

	if len(result.Relays.Write) == 0 {
		result.Errors = append(result.Errors, draftweaver.ErrNoWriteRelays.Error())
	}
	if result.Relays.Read == 0 {
		result.Warnings = append(result.Warnings, "No read-enabled relays")
	}
}

// checkPreviewStyle resolves the configured stylesheet the way preview does.
func checkPreviewStyle(result *doctorResult, a *app) {
	result.Preview.Style = cmp.Or(a.cfg.Preview.Style, assets.DefaultStyleName)
	result.Preview.AssetsDir = a.cfg.Preview.AssetsDir

	resolver, err := assets.NewResolver(a.cfg.Preview.AssetsDir)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("preview.assetsDir: %v", err))
		return
	}
	result.Preview.Custom = resolver.HasCustomLoader()
	if _, err := resolver.LoadStyle(result.Preview.Style); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Preview style: %v", err))
	}
}

// checkEnvironment detects CI and leftover variables.
func checkEnvironment(result *doctorResult, env *Environment, a *app) {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if env.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Env.CI && result.Signer.Source == "keyFile" && a.envCfg.Passphrase == "" {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("CI detected but %s not set. Publishing cannot prompt for the key file passphrase", envPassphrase))
	}

	var unknown strings.Builder
	warnUnknownEnvVars(&unknown, env.Environ())
	for line := range strings.Lines(unknown.String()) {
		result.Warnings = append(result.Warnings, strings.TrimPrefix(strings.TrimSpace(line), "warning: "))
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "draftweaver doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config")
	switch {
	case r.Config.Found:
		fmt.Fprintf(w, "  [OK] Loaded from %s\n", r.Config.Path)
	case r.Config.Path != "":
		fmt.Fprintf(w, "  [OK] Defaults (would be saved to %s)\n", r.Config.Path)
	default:
		fmt.Fprintln(w, "  [OK] Defaults")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Signer")
	switch r.Signer.Source {
	case "env":
		fmt.Fprintf(w, "  [OK] %s (%s)\n", envNsec, r.Signer.Npub)
	case "keyFile":
		fmt.Fprintf(w, "  [OK] Key file %s\n", r.Signer.KeyFile)
	default:
		fmt.Fprintln(w, "  [WARN] None")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Relays")
	fmt.Fprintf(w, "  [OK] %d configured, %d read, %d write\n", r.Relays.Total, r.Relays.Read, len(r.Relays.Write))
	for _, u := range r.Relays.Write {
		fmt.Fprintf(w, "       %s\n", u)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Preview")
	if r.Preview.Custom {
		fmt.Fprintf(w, "  [OK] Style %s (custom directory %s)\n", r.Preview.Style, r.Preview.AssetsDir)
	} else {
		fmt.Fprintf(w, "  [OK] Style %s (built-in)\n", r.Preview.Style)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to publish")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
