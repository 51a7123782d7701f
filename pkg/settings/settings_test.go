package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/lodviz/pkg/coloration"
	"github.com/taigrr/lodviz/pkg/palette"
	"github.com/taigrr/lodviz/pkg/render"
)

func openTestPrefs(t *testing.T) *SQLitePrefs {
	t.Helper()
	p, err := OpenSQLite(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestLoadEmpty(t *testing.T) {
	s := Load(NewMemoryPrefs(), 8)
	assert.Equal(t, coloration.Performance, s.Mode)
	assert.Nil(t, s.Colors, "no stored colors")
}

func TestLoadLength(t *testing.T) {
	p := NewMemoryPrefs()
	p.SetInt(KeyMode, int(coloration.Quality))
	p.SetString(ColorKey(0), "FF0000FF")

	tests := []struct {
		name   string
		length int
		want   int
	}{
		{"negative", -1, 0},
		{"very negative", -1 << 20, 0},
		{"zero", 0, 0},
		{"one", 1, 1},
		{"longer than stored", 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Settings
			require.NotPanics(t, func() { s = Load(p, tt.length) })
			assert.Equal(t, coloration.Quality, s.Mode)
			assert.Len(t, s.Colors, tt.want)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	stores := map[string]func(t *testing.T) Prefs{
		"memory": func(*testing.T) Prefs { return NewMemoryPrefs() },
		"sqlite": func(t *testing.T) Prefs { return openTestPrefs(t) },
	}
	pal := palette.Palette{
		render.RGBA(1, 2, 3, 4),
		render.RGB(255, 0, 0),
		render.RGBA(0, 0, 0, 0),
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			p := open(t)
			require.NoError(t, Save(p, coloration.SafeMode, pal))

			got := Load(p, 3)
			assert.Equal(t, coloration.SafeMode, got.Mode)
			assert.Equal(t, pal, got.Colors)

			longer := Load(p, 5)
			assert.Len(t, longer.Colors, 5)
			assert.Equal(t, render.Color{}, longer.Colors[4], "missing entries are transparent")
		})
	}
}

func TestLoadMalformed(t *testing.T) {
	p := NewMemoryPrefs()
	p.SetInt(KeyMode, 42)
	p.SetString(ColorKey(0), "nothex!!")
	p.SetString(ColorKey(1), "00FF00FF")
	p.SetInt(ColorKey(2), 7)

	s := Load(p, 3)
	assert.Equal(t, coloration.Performance, s.Mode, "unknown mode")
	require.Len(t, s.Colors, 3)
	assert.Equal(t, render.Color{}, s.Colors[0])
	assert.Equal(t, render.RGB(0, 255, 0), s.Colors[1])
	assert.Equal(t, render.Color{}, s.Colors[2], "wrong kind")
}

func TestSaveRejectsInvalidMode(t *testing.T) {
	p := NewMemoryPrefs()
	assert.ErrorIs(t, Save(p, coloration.Mode(-1), palette.Default()), coloration.ErrInvalidMode)
	assert.False(t, p.HasKey(KeyMode))
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")

	p, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, Save(p, coloration.Quality, palette.Default()))
	p.SetString("unsaved", "x")
	require.NoError(t, p.Close())

	p, err = OpenSQLite(path)
	require.NoError(t, err)
	defer p.Close()

	s := Load(p, 8)
	assert.Equal(t, coloration.Quality, s.Mode)
	assert.Equal(t, palette.Default(), s.Colors)
	assert.False(t, p.HasKey("unsaved"), "writes need Save")
}

func TestSQLiteKinds(t *testing.T) {
	p := openTestPrefs(t)
	p.SetInt("n", 12)
	p.SetString("s", "hello")

	assert.Equal(t, 12, p.Int("n", 0))
	assert.Equal(t, "fallback", p.String("n", "fallback"))
	assert.Equal(t, "hello", p.String("s", ""))
	assert.Equal(t, -1, p.Int("s", -1))

	require.NoError(t, p.Save())
	p.DeleteKey("n")
	require.NoError(t, p.Save())
	assert.False(t, p.HasKey("n"))

	var count int
	require.NoError(t, p.db.QueryRow(`SELECT COUNT(*) FROM prefs`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestReset(t *testing.T) {
	p := NewMemoryPrefs()
	long := append(palette.Default(), render.ColorWhite, render.ColorWhite)
	require.NoError(t, Save(p, coloration.SafeMode, long))

	s, err := Reset(p, len(long))
	require.NoError(t, err)
	assert.Equal(t, coloration.Performance, s.Mode)
	assert.Equal(t, palette.Default(), s.Colors)

	assert.False(t, p.HasKey(ColorKey(8)))
	assert.Equal(t, Load(p, 8), s)
}

func TestStoreFeedsEngine(t *testing.T) {
	p := NewMemoryPrefs()
	var store coloration.SettingsStore = Store{Prefs: p}
	require.NoError(t, store.Save(coloration.Quality, palette.Default()))
	assert.Equal(t, int(coloration.Quality), p.Int(KeyMode, -1))
}
