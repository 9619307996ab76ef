//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStore_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")

	s, err := NewOrExistingStore(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s.Data)

	// File is written immediately.
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(b, &raw))
	assert.Equal(t, 600, raw["reaction_time"])
	assert.Equal(t, true, raw["enabled"])
}

func TestStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	s, err := NewStore(path)
	require.NoError(t, err)
	s.Data.SetReactionTime(820)
	s.Data.SnapToNearest = true
	s.Data.SetSnapNoteType(3)
	require.NoError(t, s.Save())

	s2, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, 820, s2.Data.ReactionTime)
	assert.True(t, s2.Data.SnapToNearest)
	assert.Equal(t, 3, s2.Data.SnapNoteType)
	assert.Equal(t, s2.Data, s2.Settings())
}

func TestStore_MissingFieldsKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reaction_time: 700\n"), 0o600))

	s, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, 700, s.Data.ReactionTime)
	assert.True(t, s.Data.Enabled)
	assert.Equal(t, 1500, s.Data.MaxRTSlider)
	assert.Equal(t, 10, s.Data.RTSliderIncrement)
}

func TestStore_SelfHealsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "reaction_time: 120\nsnap_note_type: 12\nmin_rt_slider: 100\nmax_rt_slider: 50\nrt_slider_increment: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, 300, s.Data.ReactionTime)
	assert.Equal(t, 8, s.Data.SnapNoteType)
	assert.Equal(t, 300, s.Data.MinRTSlider)
	assert.Equal(t, 300, s.Data.MaxRTSlider)
	assert.Equal(t, 1, s.Data.RTSliderIncrement)

	// Healed values were written back.
	s2, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, s.Data, s2.Data)
}

func TestStore_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reaction_time: [oops"), 0o600))

	_, err := NewStore(path)
	require.Error(t, err)
}

func TestStore_Reset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	s, err := NewOrExistingStore(path)
	require.NoError(t, err)
	s.Data.Enabled = false
	require.NoError(t, s.Save())

	require.NoError(t, s.Reset())
	s2, err := NewStore(path)
	require.NoError(t, err)
	assert.True(t, s2.Data.Enabled)
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandTilde("~/x/settings.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "settings.yaml"), got)

	got, err = expandTilde("/abs/settings.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/abs/settings.yaml", got)
}
