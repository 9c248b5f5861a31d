// Package store aggregates independently-typed settings sections into one
// persisted document. Each section stores only its delta against a default;
// loading merges deltas back onto fresh defaults and runs version migrations
// on stale payloads first. Failures are scoped per section: a corrupt or
// unmigratable section falls back to its default without blocking the rest.
//
// A Store is built once at startup and then driven from a single goroutine;
// LoadAll and SaveAll are not safe for concurrent use.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/driftfile/driftfile"
	"github.com/driftfile/driftfile/codec"
	"github.com/driftfile/driftfile/ir"
	"github.com/driftfile/driftfile/migrate"
	"github.com/driftfile/driftfile/storage"
)

// Reserved top-level document keys.
const (
	versionKey  = "version"
	versionsKey = "_versions"
)

// Section describes one registered settings object: its unique name, a
// provider for its default value, and optional version tracking, migration,
// and path-derived fields.
type Section struct {
	Name       string
	Default    func() *ir.Node
	Version    *migrate.Version
	Migrate    migrate.Func
	PathParams []string
}

// Store owns the registry of sections and assembles the unified document.
type Store struct {
	log      *slog.Logger
	version  *migrate.Version
	sections map[string]Section
	order    []string
	dirty    map[string]bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for per-section warnings.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithVersion switches the document to a single top-level "version" field
// that applies to every tracked section, instead of the default per-section
// "_versions" mapping.
func WithVersion(v migrate.Version) Option {
	return func(s *Store) { s.version = &v }
}

func New(opts ...Option) *Store {
	s := &Store{
		log:      slog.Default(),
		sections: map[string]Section{},
		dirty:    map[string]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a section. Names are case-normalized to lower case; two
// registrations normalizing to the same name collide.
func (s *Store) Register(sec Section) error {
	name := strings.ToLower(strings.TrimSpace(sec.Name))
	if name == "" {
		return fmt.Errorf("section name must not be empty")
	}
	if name == versionKey || name == versionsKey {
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	if sec.Default == nil {
		return fmt.Errorf("section %q: no default provider", name)
	}
	if _, ok := s.sections[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateSection, name)
	}
	sec.Name = name
	s.sections[name] = sec
	s.order = append(s.order, name)
	return nil
}

// Sections returns the registered section names in registration order.
func (s *Store) Sections() []string {
	return append([]string(nil), s.order...)
}

// NeedsSave reports whether a migration left a section needing re-save even
// though nothing else has changed since.
func (s *Store) NeedsSave() bool {
	return len(s.dirty) > 0
}

// LoadAll produces the merged value for every registered section. doc is the
// parsed document, or nil when no file existed; live maps section names to
// their current in-memory values (used only to restore path-derived fields).
//
// The returned map always has one entry per registered section. Per-section
// failures degrade that section to its default and are collected into the
// returned error, which is informational.
func (s *Store) LoadAll(doc *ir.Node, live map[string]*ir.Node) (map[string]*ir.Node, error) {
	result := make(map[string]*ir.Node, len(s.order))
	var errs []error
	for _, name := range s.order {
		sec := s.sections[name]
		def := sec.Default()
		payload := docPayload(doc, name)
		if payload == nil {
			result[name] = def.Clone()
			continue
		}
		fileVersion := s.fileVersion(doc, name)
		if stale(sec, fileVersion) {
			migrated, changed, err := sec.Migrate(fileVersion, *sec.Version, payload)
			if err != nil {
				merr := &MigrationError{Section: name, Err: err}
				s.log.Warn("section migration failed, using defaults",
					"section", name, "err", err)
				errs = append(errs, merr)
				result[name] = def.Clone()
				continue
			}
			payload = migrated
			if changed {
				s.dirty[name] = true
			}
		}
		payload = restoreParams(payload, live[name], sec.PathParams)
		result[name] = driftfile.Merge(def, payload)
	}
	return result, errors.Join(errs...)
}

// SaveAll assembles the document from the current values. It returns nil
// when every section's delta is empty, signaling that the backing storage
// should be deleted instead of written. Sections failing path-param
// validation are skipped and reported in the returned error; the rest of the
// document is still assembled.
func (s *Store) SaveAll(current map[string]*ir.Node) (*ir.Node, error) {
	sections := ir.NewObject()
	versions := ir.NewObject()
	var errs []error
	for _, name := range s.order {
		sec := s.sections[name]
		cur := current[name]
		if cur == nil {
			continue
		}
		if err := validateParams(name, cur, sec.PathParams); err != nil {
			s.log.Warn("section not saved", "section", name, "err", err)
			errs = append(errs, err)
			continue
		}
		def := stripParams(sec.Default(), sec.PathParams)
		delta := driftfile.Diff(def, stripParams(cur, sec.PathParams))
		if delta == nil {
			delete(s.dirty, name)
			continue
		}
		sections.Set(name, delta)
		if sec.Version != nil {
			versions.Set(name, ir.FromString(sec.Version.String()))
		}
		delete(s.dirty, name)
	}
	if sections.Len() == 0 {
		return nil, errors.Join(errs...)
	}
	doc := ir.NewObject()
	if s.version != nil {
		doc.Set(versionKey, ir.FromString(s.version.String()))
	}
	for i, name := range sections.Keys {
		doc.Set(name, sections.Values[i])
	}
	if s.version == nil && versions.Len() > 0 {
		doc.Set(versionsKey, versions)
	}
	return doc, errors.Join(errs...)
}

// LoadDocument reads, parses, and loads a document from storage in one step.
// A malformed file degrades to all-defaults; the decode failure is included
// in the returned error alongside any per-section failures.
func (s *Store) LoadDocument(st storage.Storage, name string, live map[string]*ir.Node) (map[string]*ir.Node, error) {
	var doc *ir.Node
	var errs []error
	data, ok, err := st.Read(name)
	if err != nil {
		errs = append(errs, err)
	} else if ok {
		doc, err = codec.ForPath(name).Parse(data)
		if err != nil {
			s.log.Warn("document unreadable, using defaults", "file", name, "err", err)
			errs = append(errs, err)
			doc = nil
		}
	}
	values, lerr := s.LoadAll(doc, live)
	errs = append(errs, lerr)
	return values, errors.Join(errs...)
}

// SaveDocument assembles, renders, and writes the document, removing the
// file when nothing deviates from defaults.
func (s *Store) SaveDocument(st storage.Storage, name string, current map[string]*ir.Node) error {
	doc, serr := s.SaveAll(current)
	if doc == nil {
		return errors.Join(serr, st.Remove(name))
	}
	data, err := codec.ForPath(name).Render(doc)
	if err != nil {
		return errors.Join(serr, err)
	}
	return errors.Join(serr, st.Write(name, data))
}

// docPayload extracts one section's raw payload from the document, skipping
// reserved keys.
func docPayload(doc *ir.Node, name string) *ir.Node {
	if doc == nil || doc.Type != ir.ObjectType {
		return nil
	}
	return doc.Get(name)
}

// fileVersion reads the stored version for a section under either document
// shape. nil means the file carries no version for it.
func (s *Store) fileVersion(doc *ir.Node, name string) *migrate.Version {
	var raw *ir.Node
	if s.version != nil {
		raw = doc.Get(versionKey)
	} else if vs := doc.Get(versionsKey); vs != nil {
		raw = vs.Get(name)
	}
	if raw == nil || raw.Type != ir.StringType {
		return nil
	}
	v, err := migrate.Parse(raw.String)
	if err != nil {
		s.log.Warn("unparseable stored version", "section", name, "version", raw.String)
		return nil
	}
	return &v
}

// stale reports whether a section's stored payload needs migration. Sections
// without both a target version and a migration function are never stale; a
// recorded mismatch is then silently overwritten on the next save.
func stale(sec Section, fileVersion *migrate.Version) bool {
	if sec.Version == nil || sec.Migrate == nil {
		return false
	}
	return fileVersion == nil || fileVersion.Less(*sec.Version)
}
