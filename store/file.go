package store

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/driftfile/driftfile"
	"github.com/driftfile/driftfile/codec"
	"github.com/driftfile/driftfile/ir"
	"github.com/driftfile/driftfile/storage"
)

// FileSection is a section persisted in its own file. Path is a template
// whose "{param}" placeholders are resolved from the live value's fields,
// e.g. "saves/{slot}.json" for a section whose slot field picks the file.
type FileSection struct {
	Name       string
	Path       string
	Default    func() *ir.Node
	PathParams []string
}

// FileStore persists sections one file each, resolving each section's path
// from its own live value. Placeholder fields are path-derived: stripped
// from the payload on save and restored from the live value on load. The
// codec is chosen per file from the template's extension.
type FileStore struct {
	st    storage.Storage
	log   *slog.Logger
	files map[string]FileSection
	order []string
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithFileLogger sets the logger used for warnings.
func WithFileLogger(log *slog.Logger) FileOption {
	return func(s *FileStore) { s.log = log }
}

func NewFileStore(st storage.Storage, opts ...FileOption) *FileStore {
	s := &FileStore{
		st:    st,
		log:   slog.Default(),
		files: map[string]FileSection{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var placeholderRe = regexp.MustCompile(`\{([^{}]+)\}`)

// Register adds a per-file section. Every placeholder in the path template
// becomes a path-derived field, merged with any explicitly declared ones.
func (s *FileStore) Register(sec FileSection) error {
	name := strings.ToLower(strings.TrimSpace(sec.Name))
	if name == "" {
		return fmt.Errorf("section name must not be empty")
	}
	if sec.Default == nil {
		return fmt.Errorf("section %q: no default provider", name)
	}
	if sec.Path == "" {
		return fmt.Errorf("section %q: no path template", name)
	}
	if _, ok := s.files[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateSection, name)
	}
	params := sec.PathParams
	for _, m := range placeholderRe.FindAllStringSubmatch(sec.Path, -1) {
		if !slices.Contains(params, m[1]) {
			params = append(params, m[1])
		}
	}
	sec.Name = name
	sec.PathParams = params
	s.files[name] = sec
	s.order = append(s.order, name)
	return nil
}

// Sections returns the registered section names in registration order.
func (s *FileStore) Sections() []string {
	return append([]string(nil), s.order...)
}

// Load reads one section's file and merges its payload onto the default.
// A missing file, an unreadable file, or unresolvable path parameters all
// degrade to the default value; the latter two also return the error.
func (s *FileStore) Load(name string, live *ir.Node) (*ir.Node, error) {
	sec, ok := s.files[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown section %q", name)
	}
	def := sec.Default()
	path, err := s.resolvePath(sec, live)
	if err != nil {
		return def.Clone(), err
	}
	data, found, err := s.st.Read(path)
	if err != nil {
		return def.Clone(), err
	}
	payload := ir.NewObject()
	if found {
		payload, err = codec.ForPath(path).Parse(data)
		if err != nil {
			s.log.Warn("section file unreadable, using defaults",
				"section", sec.Name, "file", path, "err", err)
			return def.Clone(), err
		}
	}
	payload = restoreParams(payload, live, sec.PathParams)
	return driftfile.Merge(def, payload), nil
}

// Save writes one section's delta to its resolved file, or removes the file
// when the value matches the default.
func (s *FileStore) Save(name string, current *ir.Node) error {
	sec, ok := s.files[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown section %q", name)
	}
	path, err := s.resolvePath(sec, current)
	if err != nil {
		return err
	}
	def := stripParams(sec.Default(), sec.PathParams)
	delta := driftfile.Diff(def, stripParams(current, sec.PathParams))
	if delta == nil {
		return s.st.Remove(path)
	}
	data, err := codec.ForPath(path).Render(delta)
	if err != nil {
		return err
	}
	return s.st.Write(path, data)
}

// resolvePath validates the section's path-derived fields on the live value
// and substitutes them into the path template.
func (s *FileStore) resolvePath(sec FileSection, live *ir.Node) (string, error) {
	if err := validateParams(sec.Name, live, sec.PathParams); err != nil {
		return "", err
	}
	var resolveErr error
	path := placeholderRe.ReplaceAllStringFunc(sec.Path, func(m string) string {
		param := m[1 : len(m)-1]
		val, err := paramString(live.Get(param))
		if err != nil {
			resolveErr = errors.Join(resolveErr, fmt.Errorf("section %q: %w", sec.Name, err))
		}
		return val
	})
	return path, resolveErr
}

// paramString renders a scalar path-param value as a path segment.
func paramString(n *ir.Node) (string, error) {
	switch n.Type {
	case ir.StringType:
		return n.String, nil
	case ir.NumberType:
		if n.Int64 != nil {
			return strconv.FormatInt(*n.Int64, 10), nil
		}
		return strconv.FormatFloat(*n.Float64, 'g', -1, 64), nil
	case ir.BoolType:
		return strconv.FormatBool(n.Bool), nil
	}
	return "", fmt.Errorf("path parameter has non-scalar type %s", n.Type)
}
