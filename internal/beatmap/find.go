package beatmap

import (
	"context"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/charlievieth/fastwalk"
	"github.com/sirupsen/logrus"
)

// InfoFilename is the level metadata file inside every custom level folder.
const InfoFilename = "Info.dat"

const streamBufferSize = 64

//nolint:gochecknoglobals // immutable lookup table used across the package.
var skipDirs = []string{".git", "__MACOSX", "node_modules"}

func isSkippedDir(name string) bool {
	for _, s := range skipDirs {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}

// FindInfoFiles walks root and streams the path of every Info.dat (matched
// case-insensitively). The channel is closed when walking completes or ctx is canceled.
func FindInfoFiles(ctx context.Context, root string) <-chan string {
	out := make(chan string, streamBufferSize)
	go func() {
		defer close(out)
		conf := fastwalk.DefaultConfig
		err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // Skip unreadable entries.
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if d.IsDir() {
				if path != root && isSkippedDir(d.Name()) {
					return fs.SkipDir
				}
				return nil
			}
			if strings.EqualFold(d.Name(), InfoFilename) {
				select {
				case out <- path:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
		if err != nil {
			logrus.Debugf("walk %s: %v", root, err)
		}
	}()
	return out
}

// ResolvePaths expands directories into the level info files beneath them.
// Files are passed through as given. Results from each directory are sorted.
func ResolvePaths(ctx context.Context, paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			out = append(out, p)
			continue
		}
		var found []string
		for f := range FindInfoFiles(ctx, p) {
			found = append(found, f)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slices.Sort(found)
		out = append(out, found...)
	}
	return out, nil
}
