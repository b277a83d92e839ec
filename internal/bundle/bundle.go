// Package bundle loads localized message catalogs for view titles and
// item text.
//
// Catalogs are YAML documents, one per locale. Lookups walk a fallback
// chain: the requested locale, its language prefix, then the bundle's
// default locale. A missing key resolves to the key itself so broken
// catalogs degrade visibly instead of panicking mid-render.
package bundle

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
)

// DefaultLocale is used when a bundle is created without one.
const DefaultLocale = "en"

// catalog is the on-disk document shape.
type catalog struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle is a thread-safe collection of per-locale message catalogs.
type Bundle struct {
	mu       sync.RWMutex
	locales  map[string]map[string]string
	fallback string
}

// New creates an empty bundle with the given default locale. An empty
// locale falls back to DefaultLocale.
func New(fallback string) *Bundle {
	if fallback == "" {
		fallback = DefaultLocale
	}
	return &Bundle{
		locales:  make(map[string]map[string]string),
		fallback: strings.ToLower(fallback),
	}
}

// Load parses one catalog document and merges it into the bundle. Keys
// already present for the locale are overwritten; loading is additive
// across documents.
func (b *Bundle) Load(content []byte) error {
	var c catalog
	if err := yaml.Unmarshal(content, &c); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	if c.Locale == "" {
		return fmt.Errorf("catalog missing locale")
	}

	locale := strings.ToLower(c.Locale)
	b.mu.Lock()
	defer b.mu.Unlock()
	dst, ok := b.locales[locale]
	if !ok {
		dst = make(map[string]string, len(c.Messages))
		b.locales[locale] = dst
	}
	for k, v := range c.Messages {
		dst[k] = v
	}
	return nil
}

// LoadFS loads every .yaml and .yml file under dir in the given
// filesystem.
func (b *Bundle) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read catalog dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		if err := b.Load(content); err != nil {
			return fmt.Errorf("%s: %w", entry.Name(), err)
		}
	}
	return nil
}

// Locales returns the set of loaded locales.
func (b *Bundle) Locales() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	return out
}

// Message resolves key for locale through the fallback chain. The
// second return reports whether any catalog supplied the message.
func (b *Bundle) Message(locale, key string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, candidate := range chain(strings.ToLower(locale), b.fallback) {
		if msgs, ok := b.locales[candidate]; ok {
			if msg, ok := msgs[key]; ok {
				return msg, true
			}
		}
	}
	return key, false
}

// Format resolves key and substitutes {name} placeholders from args.
// Unknown placeholders are left as written.
func (b *Bundle) Format(locale, key string, args map[string]string) string {
	msg, _ := b.Message(locale, key)
	if len(args) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(args)*2)
	for name, value := range args {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// chain builds the lookup order for a locale: exact match, language
// prefix, then the bundle default. Duplicates are dropped.
func chain(locale, fallback string) []string {
	out := make([]string, 0, 3)
	add := func(l string) {
		if l == "" {
			return
		}
		for _, seen := range out {
			if seen == l {
				return
			}
		}
		out = append(out, l)
	}
	add(locale)
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		add(locale[:idx])
	}
	add(fallback)
	return out
}
