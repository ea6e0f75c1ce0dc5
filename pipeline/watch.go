package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"draft-value/config"
	"draft-value/logging"
)

// DefaultDebounce is how long input changes must settle before a rerun.
const DefaultDebounce = 500 * time.Millisecond

// WatchOptions controls watch mode.
type WatchOptions struct {
	Debounce time.Duration
	// OnRun, if set, is called after every run.
	OnRun func(*Result, error)
}

// Watch runs once, then reruns every time a projection, ranking or team file
// changes, until ctx is cancelled. A failed run is logged and the previous
// outputs are left in place.
func Watch(ctx context.Context, cfg *config.Config, log logrus.FieldLogger, opts WatchOptions) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create file watcher")
	}
	defer watcher.Close()

	inputs := newInputFilter(cfg)
	for _, dir := range inputs.dirs() {
		if err := watcher.Add(dir); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.WithField(logging.FieldFile, dir).Warn("input directory missing, not watching it")
				continue
			}
			return errors.Wrapf(err, "watch %s", dir)
		}
		log.WithField(logging.FieldFile, dir).Debug("watching")
	}

	run := func() {
		res, err := Run(ctx, cfg, log)
		if err != nil && ctx.Err() == nil {
			log.WithError(err).Error("run failed, keeping previous outputs")
		}
		if opts.OnRun != nil {
			opts.OnRun(res, err)
		}
	}
	run()

	// Stopped until the first relevant event
	timer := time.NewTimer(opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !inputs.match(event) {
				continue
			}
			log.WithFields(logrus.Fields{
				logging.FieldFile: event.Name,
				"op":              event.Op.String(),
			}).Debug("input changed")
			timer.Reset(opts.Debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("file watcher error")
		case <-timer.C:
			log.Info("inputs changed, rerunning")
			run()
		}
	}
}

// inputFilter decides which file events should trigger a rerun.
type inputFilter struct {
	csvDirs  map[string]bool
	csvOrder []string
	teams    string
}

func newInputFilter(cfg *config.Config) inputFilter {
	f := inputFilter{csvDirs: make(map[string]bool)}
	for _, dir := range []string{cfg.Paths.Projections, cfg.Paths.Rankings} {
		if dir == "" {
			continue
		}
		dir = filepath.Clean(dir)
		if !f.csvDirs[dir] {
			f.csvDirs[dir] = true
			f.csvOrder = append(f.csvOrder, dir)
		}
	}
	if cfg.Paths.Teams != "" {
		f.teams = filepath.Clean(cfg.Paths.Teams)
	}
	return f
}

func (f inputFilter) dirs() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			out = append(out, dir)
		}
	}
	for _, dir := range f.csvOrder {
		add(dir)
	}
	if f.teams != "" {
		add(filepath.Dir(f.teams))
	}
	return out
}

func (f inputFilter) match(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == f.teams {
		return true
	}
	return f.csvDirs[filepath.Dir(name)] && strings.EqualFold(filepath.Ext(name), ".csv")
}
