package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/EmundoT/rebase-helper/pkg/logger"
)

// LogFollower streams the *.log files a builder writes into its results
// directory to the verbose log while the build runs.
type LogFollower struct {
	watcher *fsnotify.Watcher
	log     *logger.Logger
	offsets map[string]int64
	partial map[string]string
	done    chan struct{}
	stop    sync.Once
}

// FollowLogs starts following dir, which is created if needed. Stop must be
// called to release the watcher.
func FollowLogs(ctx context.Context, dir string, log *logger.Logger) (*LogFollower, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	f := &LogFollower{
		watcher: watcher,
		log:     log.WithComponent("build-log"),
		offsets: make(map[string]int64),
		partial: make(map[string]string),
		done:    make(chan struct{}),
	}
	go f.run(ctx)
	return f, nil
}

func (f *LogFollower) run(ctx context.Context) {
	defer close(f.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".log") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				f.drain(ctx, event.Name)
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.log.Debug("watch error", "error", err)
		}
	}
}

// drain logs the complete lines appended to path since the last read.
func (f *LogFollower) drain(ctx context.Context, path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Seek(f.offsets[path], io.SeekStart); err != nil {
		return
	}
	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		return
	}
	f.offsets[path] += int64(len(data))

	text := f.partial[path] + string(data)
	cut := strings.LastIndexByte(text, '\n')
	if cut < 0 {
		f.partial[path] = text
		return
	}
	f.partial[path] = text[cut+1:]
	name := filepath.Base(path)
	for _, line := range strings.Split(text[:cut], "\n") {
		f.log.Log(ctx, logger.LevelVerbose, line, "log", name)
	}
}

// Stop ends following and flushes unterminated last lines.
func (f *LogFollower) Stop() {
	f.stop.Do(func() {
		_ = f.watcher.Close()
		<-f.done
		for path, rest := range f.partial {
			if rest != "" {
				f.log.Log(context.Background(), logger.LevelVerbose, rest, "log", filepath.Base(path))
			}
		}
	})
}
