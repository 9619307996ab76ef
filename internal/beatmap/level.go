package beatmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	maxInfoSize = 10 * 1024 * 1024 // 10MB limit to prevent memory exhaustion

	defaultCharacteristic = "Standard"
)

var (
	ErrUnknownFormat  = errors.New("unrecognised level info format")
	ErrNoDifficulties = errors.New("level has no difficulties")
	errMissingBPM     = errors.New("level has no tempo")
)

// Difficulty is one playable beatmap of a level.
type Difficulty struct {
	Characteristic string  `json:"characteristic"`
	Name           string  `json:"difficulty"`
	NoteSpeed      float32 `json:"njs"`
	// StartBeatOffset is the jump value the mapper chose.
	StartBeatOffset float32 `json:"start_beat_offset"`
}

// Level is a parsed Info.dat (or YAML equivalent).
type Level struct {
	Path   string
	Title  string
	Author string
	BPM    float32
	// Difficulties groups difficulties by characteristic, in file order.
	Difficulties *orderedmap.OrderedMap[string, []Difficulty]
}

// Snapshot returns the calculator inputs for d.
func (l *Level) Snapshot(d Difficulty) Snapshot {
	return Snapshot{BPM: l.BPM, NoteSpeed: d.NoteSpeed, Characteristic: d.Characteristic, Difficulty: d.Name}
}

// Each calls fn for every difficulty in file order.
func (l *Level) Each(fn func(Difficulty)) {
	for el := l.Difficulties.Front(); el != nil; el = el.Next() {
		for _, d := range el.Value {
			fn(d)
		}
	}
}

// Find looks up a difficulty by characteristic and name, case-insensitively.
// An empty characteristic matches Standard.
func (l *Level) Find(characteristic, name string) (Difficulty, bool) {
	if characteristic == "" {
		characteristic = defaultCharacteristic
	}
	for el := l.Difficulties.Front(); el != nil; el = el.Next() {
		if !strings.EqualFold(el.Key, characteristic) {
			continue
		}
		for _, d := range el.Value {
			if strings.EqualFold(d.Name, name) {
				return d, true
			}
		}
	}
	return Difficulty{}, false
}

func (l *Level) add(d Difficulty) {
	if d.Characteristic == "" {
		d.Characteristic = defaultCharacteristic
	}
	existing, _ := l.Difficulties.Get(d.Characteristic)
	l.Difficulties.Set(d.Characteristic, append(existing, d))
}

// infoFile covers both the v2 (underscore-prefixed) and v4 Info.dat layouts.
type infoFile struct {
	// v2
	V2Version   string  `json:"_version"`
	V2SongName  string  `json:"_songName"`
	V2Author    string  `json:"_songAuthorName"`
	V2BPM       float32 `json:"_beatsPerMinute"`
	V2Beatmaps  []struct {
		Characteristic string `json:"_beatmapCharacteristicName"`
		Beatmaps       []struct {
			Difficulty      string  `json:"_difficulty"`
			NoteSpeed       float32 `json:"_noteJumpMovementSpeed"`
			StartBeatOffset float32 `json:"_noteJumpStartBeatOffset"`
		} `json:"_difficultyBeatmaps"`
	} `json:"_difficultyBeatmapSets"`

	// v4
	Version string `json:"version"`
	Song    struct {
		Title  string `json:"title"`
		Author string `json:"author"`
	} `json:"song"`
	Audio struct {
		BPM float32 `json:"bpm"`
	} `json:"audio"`
	Beatmaps []struct {
		Characteristic  string  `json:"characteristic"`
		Difficulty      string  `json:"difficulty"`
		NoteSpeed       float32 `json:"noteJumpMovementSpeed"`
		StartBeatOffset float32 `json:"noteJumpStartBeatOffset"`
	} `json:"difficultyBeatmaps"`
}

// yamlLevel is the hand-written format for levels that only exist as numbers.
type yamlLevel struct {
	Title        string  `yaml:"title"`
	Author       string  `yaml:"author"`
	BPM          float32 `yaml:"bpm"`
	Difficulties []struct {
		Characteristic  string  `yaml:"characteristic"`
		Difficulty      string  `yaml:"difficulty"`
		NoteSpeed       float32 `yaml:"njs"`
		StartBeatOffset float32 `yaml:"offset"`
	} `yaml:"difficulties"`
}

// LoadLevel parses a level info file. JSON (.dat/.json) is read as
// Info.dat v2 or v4; .yaml/.yml as the hand-written format.
func LoadLevel(path string) (*Level, error) {
	logrus.Debugf("Loading level info from: %s", path)
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var level *Level
	if isYAMLFile(path) {
		level, err = parseYAMLLevel(data)
	} else {
		level, err = parseInfo(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	level.Path = path

	if level.BPM <= 0 {
		return nil, fmt.Errorf("%s: %w", path, errMissingBPM)
	}
	if level.Difficulties.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoDifficulties)
	}
	return level, nil
}

func newLevel() *Level {
	return &Level{Difficulties: orderedmap.NewOrderedMap[string, []Difficulty]()}
}

func parseInfo(data []byte) (*Level, error) {
	var info infoFile
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}

	level := newLevel()
	switch {
	case info.V2Version != "" || info.V2BPM > 0:
		level.Title = info.V2SongName
		level.Author = info.V2Author
		level.BPM = info.V2BPM
		for _, set := range info.V2Beatmaps {
			for _, b := range set.Beatmaps {
				level.add(Difficulty{
					Characteristic:  set.Characteristic,
					Name:            b.Difficulty,
					NoteSpeed:       b.NoteSpeed,
					StartBeatOffset: b.StartBeatOffset,
				})
			}
		}
	case strings.HasPrefix(info.Version, "4") || info.Audio.BPM > 0:
		level.Title = info.Song.Title
		level.Author = info.Song.Author
		level.BPM = info.Audio.BPM
		for _, b := range info.Beatmaps {
			level.add(Difficulty{
				Characteristic:  b.Characteristic,
				Name:            b.Difficulty,
				NoteSpeed:       b.NoteSpeed,
				StartBeatOffset: b.StartBeatOffset,
			})
		}
	default:
		return nil, ErrUnknownFormat
	}
	return level, nil
}

func parseYAMLLevel(data []byte) (*Level, error) {
	var y yamlLevel
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, err
	}
	level := newLevel()
	level.Title = y.Title
	level.Author = y.Author
	level.BPM = y.BPM
	for _, d := range y.Difficulties {
		level.add(Difficulty{
			Characteristic:  d.Characteristic,
			Name:            d.Difficulty,
			NoteSpeed:       d.NoteSpeed,
			StartBeatOffset: d.StartBeatOffset,
		})
	}
	return level, nil
}

// readFile reads a file with sane limits to prevent attacks.
func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Check file size to prevent memory exhaustion attacks
	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if info.Size() > maxInfoSize {
		return nil, fmt.Errorf("level info too large: %d bytes (max %d)", info.Size(), maxInfoSize)
	}

	return io.ReadAll(io.LimitReader(file, maxInfoSize))
}

func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
