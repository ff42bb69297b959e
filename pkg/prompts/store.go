package prompts

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"
	"text/template"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Store is a thread-safe holder for the derived-operation prompt templates.
// It starts from the built-in defaults and can layer overrides from a YAML
// file on top. Updates are atomic: an invalid override file never replaces
// the current template set.
type Store struct {
	mu           sync.RWMutex
	templates    map[string]*template.Template
	texts        map[string]string
	version      string
	loadTime     time.Time
	overridePath string
}

// NewStore creates a store populated with the built-in templates.
func NewStore() *Store {
	texts := defaultTexts()
	templates := make(map[string]*template.Template, len(texts))
	for name, text := range texts {
		templates[name] = template.Must(template.New(name).Parse(text))
	}

	s := &Store{
		templates: templates,
		texts:     texts,
		loadTime:  time.Now(),
	}
	s.version = hashTexts(texts)
	return s
}

// LoadFile applies template overrides from a YAML file. The file is a flat
// mapping of template name to template text; names without an entry keep
// their defaults. If the file cannot be read, parsed, or rendered, the
// current template set is kept and the error returned.
func (s *Store) LoadFile(path string) error {
	overrides, err := readOverrideFile(path)
	if err != nil {
		return err
	}

	texts := defaultTexts()
	samples := samplePayloads()
	templates := make(map[string]*template.Template, len(texts))

	for name, text := range overrides {
		if _, ok := texts[name]; !ok {
			return fmt.Errorf("unknown prompt template %q in %s", name, path)
		}
		if text == "" {
			return fmt.Errorf("prompt template %q in %s is empty", name, path)
		}
		texts[name] = text
	}

	// Parse and dry-run every template before swapping anything in, so a bad
	// override cannot leave the store half-updated.
	for name, text := range texts {
		tmpl, err := template.New(name).Parse(text)
		if err != nil {
			return fmt.Errorf("parsing prompt template %q: %w", name, err)
		}
		if err := tmpl.Execute(io.Discard, samples[name]); err != nil {
			return fmt.Errorf("validating prompt template %q: %w", name, err)
		}
		templates[name] = tmpl
	}

	s.mu.Lock()
	s.templates = templates
	s.texts = texts
	s.version = hashTexts(texts)
	s.loadTime = time.Now()
	s.overridePath = path
	s.mu.Unlock()

	slog.Info("prompt templates loaded",
		"path", path,
		"overridden", len(overrides),
		"version", s.Version(),
	)
	return nil
}

// Reload re-applies overrides from the file given to the last successful
// LoadFile. On failure the previous template set stays active.
func (s *Store) Reload() error {
	s.mu.RLock()
	path := s.overridePath
	s.mu.RUnlock()

	if path == "" {
		return fmt.Errorf("no prompt override file configured")
	}
	return s.LoadFile(path)
}

// Render executes the named template with the given payload.
func (s *Store) Render(name string, data any) (string, error) {
	s.mu.RLock()
	tmpl, ok := s.templates[name]
	s.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("unknown prompt template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt template %q: %w", name, err)
	}
	return buf.String(), nil
}

// Text returns the current raw text of the named template.
func (s *Store) Text(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.texts[name]
	return text, ok
}

// Names returns the template names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.texts))
	for name := range s.texts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Version returns a short hash identifying the active template set.
func (s *Store) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// LoadTime returns when the active template set was installed.
func (s *Store) LoadTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadTime
}

// Watch blocks watching the override file for changes, reloading on each
// change with keep-last-good semantics. It returns when ctx is cancelled.
// LoadFile must have succeeded at least once before calling Watch.
func (s *Store) Watch(ctx context.Context) error {
	s.mu.RLock()
	path := s.overridePath
	s.mu.RUnlock()

	if path == "" {
		return fmt.Errorf("no prompt override file configured")
	}

	config := DefaultWatcherConfig()
	config.Path = path

	watcher, err := NewFileWatcher(config)
	if err != nil {
		return fmt.Errorf("creating prompt watcher: %w", err)
	}
	defer func() { _ = watcher.Stop() }()

	return watcher.Watch(ctx, func() error {
		if err := s.Reload(); err != nil {
			slog.Error("prompt reload failed, keeping previous templates", "error", err)
			return err
		}
		slog.Info("prompt templates reloaded", "version", s.Version())
		return nil
	})
}

// readOverrideFile reads and decodes a YAML override file into a flat
// name-to-text mapping.
func readOverrideFile(path string) (map[string]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("accessing prompt file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("prompt file %s is not a regular file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prompt file: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("prompt file %s contains invalid UTF-8", path)
	}

	overrides := make(map[string]string)
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing prompt file %s: %w", path, err)
	}
	return overrides, nil
}

// hashTexts derives a short deterministic version hash from a template set.
func hashTexts(texts map[string]string) string {
	names := make([]string, 0, len(texts))
	for name := range texts {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write([]byte(texts[name]))
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
