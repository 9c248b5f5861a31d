package store

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/driftfile/driftfile/codec"
	"github.com/driftfile/driftfile/ir"
	"github.com/driftfile/driftfile/migrate"
	"github.com/driftfile/driftfile/storage"
)

func tree(v any) *ir.Node {
	n, err := codec.FromGo(v)
	if err != nil {
		panic(err)
	}
	return n
}

func quiet() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func audioSection() Section {
	return Section{
		Name: "audio",
		Default: func() *ir.Node {
			return tree(map[string]any{"volume": 1.0, "muted": false})
		},
	}
}

func videoSection() Section {
	return Section{
		Name: "video",
		Default: func() *ir.Node {
			return tree(map[string]any{"fullscreen": true, "scale": 2})
		},
	}
}

func TestRegisterCollisions(t *testing.T) {
	s := New(WithLogger(quiet()))
	require.NoError(t, s.Register(audioSection()))

	dup := audioSection()
	dup.Name = " AUDIO "
	err := s.Register(dup)
	require.ErrorIs(t, err, ErrDuplicateSection)

	reserved := audioSection()
	reserved.Name = "_versions"
	require.ErrorIs(t, s.Register(reserved), ErrReservedName)

	noDefault := Section{Name: "x"}
	require.Error(t, s.Register(noDefault))
}

func TestLoadAllMissingDocument(t *testing.T) {
	s := New(WithLogger(quiet()))
	require.NoError(t, s.Register(audioSection()))
	require.NoError(t, s.Register(videoSection()))

	values, err := s.LoadAll(nil, nil)
	require.NoError(t, err)
	require.Len(t, values, 2)
	require.True(t, ir.Equal(values["audio"], audioSection().Default()))
	require.True(t, ir.Equal(values["video"], videoSection().Default()))
}

func TestSaveAllEmptyDelta(t *testing.T) {
	s := New(WithLogger(quiet()))
	require.NoError(t, s.Register(audioSection()))
	require.NoError(t, s.Register(videoSection()))

	doc, err := s.SaveAll(map[string]*ir.Node{
		"audio": audioSection().Default(),
		"video": videoSection().Default(),
	})
	require.NoError(t, err)
	require.Nil(t, doc, "all-default state must produce no document")
}

func TestSaveDocumentDeletesWhenAllDefault(t *testing.T) {
	s := New(WithLogger(quiet()))
	require.NoError(t, s.Register(audioSection()))
	st := storage.NewMemDir()
	require.NoError(t, st.Write("settings.json", []byte(`{"audio":{"volume":0.5}}`)))

	err := s.SaveDocument(st, "settings.json", map[string]*ir.Node{
		"audio": audioSection().Default(),
	})
	require.NoError(t, err)
	_, ok, err := st.Read("settings.json")
	require.NoError(t, err)
	require.False(t, ok, "file must be removed, not rewritten")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(WithLogger(quiet()))
	require.NoError(t, s.Register(audioSection()))
	require.NoError(t, s.Register(videoSection()))

	current := map[string]*ir.Node{
		"audio": tree(map[string]any{"volume": 0.25, "muted": false}),
		"video": videoSection().Default(),
	}
	doc, err := s.SaveAll(current)
	require.NoError(t, err)
	require.NotNil(t, doc)

	// only the deviating key of the deviating section is persisted
	audio := doc.Get("audio")
	require.NotNil(t, audio)
	require.Nil(t, audio.Get("muted"))
	require.Nil(t, doc.Get("video"))

	values, err := s.LoadAll(doc, nil)
	require.NoError(t, err)
	require.True(t, ir.Equal(values["audio"], current["audio"]))
	require.True(t, ir.Equal(values["video"], current["video"]))
}

func migratingSection(target migrate.Version, fn migrate.Func) Section {
	sec := audioSection()
	sec.Version = &target
	sec.Migrate = fn
	return sec
}

func TestMigrationRunsOnceWhenStale(t *testing.T) {
	calls := 0
	fn := migrate.Func(func(fileVersion *migrate.Version, target migrate.Version, payload *ir.Node) (*ir.Node, bool, error) {
		calls++
		require.NotNil(t, fileVersion)
		require.Equal(t, "1.0.0", fileVersion.String())
		require.Equal(t, "2.0.0", target.String())
		return migrate.RenameKey("master", "volume")(fileVersion, target, payload)
	})
	s := New(WithLogger(quiet()))
	require.NoError(t, s.Register(migratingSection(migrate.V(2, 0, 0), fn)))

	doc := tree(map[string]any{
		"audio":     map[string]any{"master": 0.25},
		"_versions": map[string]any{"audio": "1.0.0"},
	})
	values, err := s.LoadAll(doc, nil)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	got := values["audio"]
	require.Equal(t, 0.25, *got.Get("volume").Float64)
	require.True(t, s.NeedsSave(), "changed migration must mark the section for re-save")

	// next save persists the target version
	out, err := s.SaveAll(map[string]*ir.Node{"audio": got})
	require.NoError(t, err)
	require.Equal(t, "2.0.0", out.Get("_versions").Get("audio").String)
	require.False(t, s.NeedsSave())
}

func TestMigrationSkippedWhenCurrent(t *testing.T) {
	fn := migrate.Func(func(*migrate.Version, migrate.Version, *ir.Node) (*ir.Node, bool, error) {
		t.Fatal("migration must not run for a current section")
		return nil, false, nil
	})
	s := New(WithLogger(quiet()))
	require.NoError(t, s.Register(migratingSection(migrate.V(2, 0, 0), fn)))

	doc := tree(map[string]any{
		"audio":     map[string]any{"volume": 0.25},
		"_versions": map[string]any{"audio": "2.0.0"},
	})
	values, err := s.LoadAll(doc, nil)
	require.NoError(t, err)
	require.Equal(t, 0.25, *values["audio"].Get("volume").Float64)
}

func TestMigrationWithoutFuncIgnoresMismatch(t *testing.T) {
	sec := audioSection()
	v := migrate.V(2, 0, 0)
	sec.Version = &v
	s := New(WithLogger(quiet()))
	require.NoError(t, s.Register(sec))

	doc := tree(map[string]any{
		"audio":     map[string]any{"volume": 0.25},
		"_versions": map[string]any{"audio": "1.0.0"},
	})
	values, err := s.LoadAll(doc, nil)
	require.NoError(t, err)
	require.Equal(t, 0.25, *values["audio"].Get("volume").Float64)

	// the stale recorded version is overwritten on the next save
	out, err := s.SaveAll(values)
	require.NoError(t, err)
	require.Equal(t, "2.0.0", out.Get("_versions").Get("audio").String)
}

func TestSectionIsolationOnMigrationFailure(t *testing.T) {
	fail := migrate.Func(func(*migrate.Version, migrate.Version, *ir.Node) (*ir.Node, bool, error) {
		return nil, false, errors.New("unintelligible payload")
	})
	s := New(WithLogger(quiet()))
	require.NoError(t, s.Register(migratingSection(migrate.V(2, 0, 0), fail)))
	require.NoError(t, s.Register(videoSection()))

	doc := tree(map[string]any{
		"audio": map[string]any{"master": 0.25},
		"video": map[string]any{"scale": 4},
	})
	values, err := s.LoadAll(doc, nil)

	var merr *MigrationError
	require.ErrorAs(t, err, &merr)
	require.Equal(t, "audio", merr.Section)

	require.True(t, ir.Equal(values["audio"], audioSection().Default()),
		"failed section falls back to defaults")
	require.Equal(t, int64(4), *values["video"].Get("scale").Int64,
		"healthy section still loads")
}

func slotSection() Section {
	return Section{
		Name: "profile",
		Default: func() *ir.Node {
			return tree(map[string]any{"slot_id": "", "gold": 0})
		},
		PathParams: []string{"slot_id"},
	}
}

func TestPathParamsNeverPersisted(t *testing.T) {
	s := New(WithLogger(quiet()))
	require.NoError(t, s.Register(slotSection()))

	current := map[string]*ir.Node{
		"profile": tree(map[string]any{"slot_id": "save1", "gold": 42}),
	}
	doc, err := s.SaveAll(current)
	require.NoError(t, err)
	require.Nil(t, doc.Get("profile").Get("slot_id"))
	require.Equal(t, int64(42), *doc.Get("profile").Get("gold").Int64)
}

func TestPathParamsRestoredFromLiveNotFile(t *testing.T) {
	s := New(WithLogger(quiet()))
	require.NoError(t, s.Register(slotSection()))

	// the file incorrectly carries a slot_id; the live value wins
	doc := tree(map[string]any{
		"profile": map[string]any{"slot_id": "stale", "gold": 42},
	})
	live := map[string]*ir.Node{
		"profile": tree(map[string]any{"slot_id": "save1"}),
	}
	values, err := s.LoadAll(doc, live)
	require.NoError(t, err)
	require.Equal(t, "save1", values["profile"].Get("slot_id").String)
}

func TestPathParamValidation(t *testing.T) {
	s := New(WithLogger(quiet()))
	require.NoError(t, s.Register(slotSection()))
	require.NoError(t, s.Register(audioSection()))

	doc, err := s.SaveAll(map[string]*ir.Node{
		"profile": tree(map[string]any{"slot_id": "  ", "gold": 42}),
		"audio":   tree(map[string]any{"volume": 0.5, "muted": false}),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "profile", verr.Section)
	require.Equal(t, "slot_id", verr.Param)

	// the offending section is skipped, the healthy one still saves
	require.NotNil(t, doc)
	require.Nil(t, doc.Get("profile"))
	require.NotNil(t, doc.Get("audio"))
}

func TestStoreLevelVersionMode(t *testing.T) {
	fn := migrate.RenameKey("master", "volume")
	s := New(WithLogger(quiet()), WithVersion(migrate.V(3, 0, 0)))
	require.NoError(t, s.Register(migratingSection(migrate.V(3, 0, 0), fn)))

	doc := tree(map[string]any{
		"version": "1.0.0",
		"audio":   map[string]any{"master": 0.25},
	})
	values, err := s.LoadAll(doc, nil)
	require.NoError(t, err)
	require.Equal(t, 0.25, *values["audio"].Get("volume").Float64)

	out, err := s.SaveAll(values)
	require.NoError(t, err)
	require.Equal(t, "3.0.0", out.Get("version").String)
	require.Nil(t, out.Get("_versions"))
}

func TestLoadDocumentDecodeFallback(t *testing.T) {
	s := New(WithLogger(quiet()))
	require.NoError(t, s.Register(audioSection()))
	st := storage.NewMemDir()
	require.NoError(t, st.Write("settings.json", []byte("{not json")))

	values, err := s.LoadDocument(st, "settings.json", nil)
	var derr *codec.DecodeError
	require.ErrorAs(t, err, &derr)
	require.True(t, ir.Equal(values["audio"], audioSection().Default()),
		"malformed document degrades to defaults")
}

func TestSaveLoadDocumentRoundTrip(t *testing.T) {
	s := New(WithLogger(quiet()))
	require.NoError(t, s.Register(audioSection()))
	st := storage.NewMemDir()

	current := map[string]*ir.Node{
		"audio": tree(map[string]any{"volume": 0.25, "muted": true}),
	}
	require.NoError(t, s.SaveDocument(st, "settings.json", current))

	values, err := s.LoadDocument(st, "settings.json", nil)
	require.NoError(t, err)
	require.True(t, ir.Equal(values["audio"], current["audio"]))
}
