// Package templates renders notification bodies. Templates are plain text
// files keyed by channel kind and event kind ("<channel>_<kind>.tmpl"),
// loaded from the embedded assets or from an override directory on disk.
package templates

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	texttemplate "text/template"

	root "github.com/pagerline/incident-backend"
	"github.com/pagerline/incident-backend/db"
)

// ErrNotFound is returned by Render when no template exists for the
// requested channel and kind. The dispatch resolver relies on it to walk
// its fallback chain; any other error is terminal.
var ErrNotFound = fmt.Errorf("template not found")

const (
	templateExt = ".tmpl"
	// DefaultKind is the fallback template kind every channel may provide.
	DefaultKind = "default"
)

// Renderer is the capability the dispatch engine consumes.
type Renderer interface {
	Render(channel db.ProviderKind, kind string, data any) (string, error)
}

// Store holds the parsed notification templates.
type Store struct {
	templates map[string]*texttemplate.Template
}

// Load reads and parses every template from the given filesystem. It is
// called once at startup.
func Load(fsys fs.FS) (*Store, error) {
	store := &Store{templates: make(map[string]*texttemplate.Template)}
	if err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), templateExt) {
			return nil
		}
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		key := strings.TrimSuffix(entry.Name(), templateExt)
		tmpl, err := texttemplate.New(key).Parse(string(raw))
		if err != nil {
			return fmt.Errorf("cannot parse template %s: %w", path, err)
		}
		store.templates[key] = tmpl
		return nil
	}); err != nil {
		return nil, err
	}
	return store, nil
}

// LoadDefault loads the templates embedded in the binary.
func LoadDefault() (*Store, error) {
	sub, err := fs.Sub(root.Assets, "assets/notifications")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// LoadDir loads templates from a directory on disk, used to override the
// embedded defaults per deployment.
func LoadDir(path string) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return Load(os.DirFS(abs))
}

// Render executes the template for the channel and kind with the given data.
// It returns ErrNotFound when no such template is loaded.
func (s *Store) Render(channel db.ProviderKind, kind string, data any) (string, error) {
	tmpl, ok := s.templates[fmt.Sprintf("%s_%s", channel, kind)]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, channel, kind)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, data); err != nil {
		return "", fmt.Errorf("cannot render template %s/%s: %w", channel, kind, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
