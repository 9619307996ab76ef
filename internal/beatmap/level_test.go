//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package beatmap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const infoV2 = `{
  "_version": "2.1.0",
  "_songName": "Reaction",
  "_songAuthorName": "Someone",
  "_beatsPerMinute": 174,
  "_difficultyBeatmapSets": [
    {
      "_beatmapCharacteristicName": "Standard",
      "_difficultyBeatmaps": [
        {"_difficulty": "Expert", "_noteJumpMovementSpeed": 18, "_noteJumpStartBeatOffset": -0.5},
        {"_difficulty": "ExpertPlus", "_noteJumpMovementSpeed": 22, "_noteJumpStartBeatOffset": 0}
      ]
    },
    {
      "_beatmapCharacteristicName": "OneSaber",
      "_difficultyBeatmaps": [
        {"_difficulty": "Hard", "_noteJumpMovementSpeed": 0}
      ]
    }
  ]
}`

const infoV4 = `{
  "version": "4.0.1",
  "song": {"title": "Distance", "author": "Another"},
  "audio": {"bpm": 128},
  "difficultyBeatmaps": [
    {"characteristic": "Standard", "difficulty": "Normal", "noteJumpMovementSpeed": 10, "noteJumpStartBeatOffset": 0.25},
    {"characteristic": "Lawless", "difficulty": "Expert", "noteJumpMovementSpeed": 16},
    {"characteristic": "Standard", "difficulty": "Hard", "noteJumpMovementSpeed": 12}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func collect(l *Level) []Difficulty {
	var out []Difficulty
	l.Each(func(d Difficulty) { out = append(out, d) })
	return out
}

func TestLoadLevel_V2(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Info.dat", infoV2)

	l, err := LoadLevel(path)
	require.NoError(t, err)
	assert.Equal(t, "Reaction", l.Title)
	assert.Equal(t, "Someone", l.Author)
	assert.InDelta(t, 174, l.BPM, 0)
	assert.Equal(t, path, l.Path)

	ds := collect(l)
	require.Len(t, ds, 3)
	assert.Equal(t, "Expert", ds[0].Name)
	assert.InDelta(t, -0.5, ds[0].StartBeatOffset, 0)
	assert.Equal(t, "ExpertPlus", ds[1].Name)
	assert.Equal(t, "OneSaber", ds[2].Characteristic)

	d, ok := l.Find("", "expertplus")
	require.True(t, ok)
	assert.InDelta(t, 22, d.NoteSpeed, 0)

	snap := l.Snapshot(d)
	assert.Equal(t, Snapshot{BPM: 174, NoteSpeed: 22, Characteristic: "Standard", Difficulty: "ExpertPlus"}, snap)
}

func TestLoadLevel_V4GroupsByCharacteristic(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Info.dat", infoV4)

	l, err := LoadLevel(path)
	require.NoError(t, err)
	assert.Equal(t, "Distance", l.Title)
	assert.InDelta(t, 128, l.BPM, 0)

	// Standard keeps its first-seen position even though Hard comes after Lawless.
	ds := collect(l)
	require.Len(t, ds, 3)
	assert.Equal(t, []string{"Normal", "Hard", "Expert"}, []string{ds[0].Name, ds[1].Name, ds[2].Name})

	_, ok := l.Find("lawless", "expert")
	assert.True(t, ok)
	_, ok = l.Find("Standard", "Expert")
	assert.False(t, ok)
}

func TestLoadLevel_YAML(t *testing.T) {
	content := "title: Practice\nbpm: 150\ndifficulties:\n  - difficulty: Expert\n    njs: 17\n"
	path := writeFile(t, t.TempDir(), "practice.yaml", content)

	l, err := LoadLevel(path)
	require.NoError(t, err)
	d, ok := l.Find("Standard", "Expert")
	require.True(t, ok)
	assert.InDelta(t, 17, d.NoteSpeed, 0)
}

func TestLoadLevel_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
		errMsg  string
	}{
		{name: "unknown layout", file: "Info.dat", content: `{"hello": "world"}`, wantErr: ErrUnknownFormat},
		{name: "no difficulties", file: "Info.dat", content: `{"_version":"2.0.0","_beatsPerMinute":100}`, wantErr: ErrNoDifficulties},
		{name: "no tempo", file: "Info.dat", content: `{"_version":"2.0.0","_beatsPerMinute":0}`, wantErr: errMissingBPM},
		{name: "bad json", file: "Info.dat", content: `{`, errMsg: "unexpected end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			_, err := LoadLevel(path)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}

	_, err := LoadLevel(filepath.Join(t.TempDir(), "missing", "Info.dat"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadFile_TooLarge(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Info.dat", strings.Repeat("a", maxInfoSize+1))
	_, err := readFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestResolvePaths(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, filepath.Join("b-level", "Info.dat"), infoV2)
	b := writeFile(t, root, filepath.Join("a-level", "info.dat"), infoV4)
	writeFile(t, root, filepath.Join("a-level", "ExpertPlus.dat"), "{}")
	writeFile(t, root, filepath.Join(".git", "Info.dat"), "{}")
	single := writeFile(t, t.TempDir(), "custom.yaml", "bpm: 100\n")

	got, err := ResolvePaths(context.Background(), []string{root, single})
	require.NoError(t, err)
	assert.Equal(t, []string{b, a, single}, got)

	_, err = ResolvePaths(context.Background(), []string{filepath.Join(root, "nope")})
	require.Error(t, err)
}
