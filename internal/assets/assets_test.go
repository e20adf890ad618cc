package assets

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

// writeStyle creates {dir}/styles/{name}.css.
func writeStyle(t *testing.T, dir, name, css string) {
	t.Helper()
	stylesDir := filepath.Join(dir, "styles")
	if err := os.MkdirAll(stylesDir, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(stylesDir, name+".css"), []byte(css), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "default", false},
		{"hyphenated", "my-style", false},
		{"empty", "", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"traversal", "..", true},
		{"extension", "dark.css", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr != (err != nil) {
				t.Fatalf("ValidateAssetName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("error = %v, want ErrInvalidAssetName", err)
			}
		})
	}
}

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	for _, name := range Styles() {
		css, err := LoadStyle(name)
		if err != nil {
			t.Errorf("LoadStyle(%q) error = %v", name, err)
			continue
		}
		if !strings.Contains(css, ".dw-summary") {
			t.Errorf("style %q does not style the summary", name)
		}
	}

	if _, err := LoadStyle("nonexistent"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(nonexistent) error = %v, want ErrStyleNotFound", err)
	}
	if _, err := LoadStyle("../styles/default"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadStyle(traversal) error = %v, want ErrInvalidAssetName", err)
	}
}

func TestStyles(t *testing.T) {
	t.Parallel()

	got := Styles()
	want := []string{"dark", DefaultStyleName, "sepia"}
	if !slices.Equal(got, want) {
		t.Errorf("Styles() = %v, want %v", got, want)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"valid directory", t.TempDir(), nil},
		{"empty path", "", ErrInvalidBasePath},
		{"missing directory", "/nonexistent/draftweaver/assets", ErrInvalidBasePath},
		{"file instead of directory", file, ErrInvalidBasePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewFilesystemLoader(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewFilesystemLoader(%q) error = %v, want %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestFilesystemLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeStyle(t, dir, "brand", "body{color:teal}")

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	css, err := loader.LoadStyle("brand")
	if err != nil || css != "body{color:teal}" {
		t.Errorf("LoadStyle(brand) = %q, %v", css, err)
	}
	if _, err := loader.LoadStyle("missing"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(missing) error = %v, want ErrStyleNotFound", err)
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.css")
	if err := os.WriteFile(secret, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "styles"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(secret, filepath.Join(dir, "styles", "evil.css")); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}
	if _, err := loader.LoadStyle("evil"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadStyle(evil) error = %v, want ErrPathTraversal", err)
	}
}

func TestResolver(t *testing.T) {
	t.Parallel()

	t.Run("embedded only", func(t *testing.T) {
		t.Parallel()

		r, err := NewResolver("")
		if err != nil {
			t.Fatalf("NewResolver() error = %v", err)
		}
		if r.HasCustomLoader() {
			t.Error("HasCustomLoader() = true without a directory")
		}
		want, _ := LoadStyle(DefaultStyleName)
		if got, err := r.LoadStyle(DefaultStyleName); err != nil || got != want {
			t.Errorf("LoadStyle(default) = %q, %v", got, err)
		}
	})

	t.Run("custom overrides and falls back", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeStyle(t, dir, "dark", "body{background:black}")

		r, err := NewResolver(dir)
		if err != nil {
			t.Fatalf("NewResolver() error = %v", err)
		}
		if got, _ := r.LoadStyle("dark"); got != "body{background:black}" {
			t.Errorf("LoadStyle(dark) = %q, want the custom style", got)
		}
		want, _ := LoadStyle("sepia")
		if got, _ := r.LoadStyle("sepia"); got != want {
			t.Error("LoadStyle(sepia) did not fall back to the built-in style")
		}
		if _, err := r.LoadStyle("missing"); !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("LoadStyle(missing) error = %v, want ErrStyleNotFound", err)
		}
	})

	t.Run("invalid names do not fall back", func(t *testing.T) {
		t.Parallel()

		r, err := NewResolver(t.TempDir())
		if err != nil {
			t.Fatalf("NewResolver() error = %v", err)
		}
		if _, err := r.LoadStyle("a/b"); !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadStyle(a/b) error = %v, want ErrInvalidAssetName", err)
		}
	})

	t.Run("invalid directory", func(t *testing.T) {
		t.Parallel()

		if _, err := NewResolver("/nonexistent/draftweaver"); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewResolver() error = %v, want ErrInvalidBasePath", err)
		}
	})
}
