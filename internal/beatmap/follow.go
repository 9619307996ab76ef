package beatmap

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultFollowInterval is how often Follow checks a level file for changes.
const DefaultFollowInterval = time.Second

// Follow re-reads the level at path whenever its modification time changes and
// feeds the tracker. While the file still has the requested difficulty the
// tracker observes it in full; otherwise only the level's tempo is taken and the
// previous note speed kept. Follow returns when ctx is done.
func Follow(ctx context.Context, t *Tracker, path, characteristic, difficulty string, interval time.Duration) {
	var lastMod time.Time
	poll := func() {
		st, err := os.Stat(path)
		if err != nil {
			logrus.Debugf("follow %s: %v", path, err)
			return
		}
		if st.ModTime().Equal(lastMod) {
			return
		}
		lastMod = st.ModTime()

		l, err := LoadLevel(path)
		if err != nil {
			logrus.Debugf("follow %s: %v", path, err)
			return
		}
		if d, ok := l.Find(characteristic, difficulty); ok {
			err = t.Observe(l.Snapshot(d))
		} else {
			logrus.Debugf("%s no longer has %s %s, keeping note speed", path, characteristic, difficulty)
			err = t.ObserveTempo(l.BPM)
		}
		if err != nil {
			logrus.Debugf("follow %s: %v", path, err)
		}
	}

	poll()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}
