package server

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ezoic/lifeexp/linear"
	"github.com/ezoic/lifeexp/pkg/errors"
	"github.com/ezoic/lifeexp/pkg/log"
)

// Watcher reloads a weights file into a Snapshot whenever it changes.
// A file that fails to load is logged and the previous parameters stay
// in place.
type Watcher struct {
	path     string
	snapshot *Snapshot
	logger   log.Logger
	fsw      *fsnotify.Watcher

	// OnReload, if set, is called after every reload attempt.
	OnReload func(p linear.Params, err error)
}

// NewWatcher watches path. The containing directory is watched so that
// files replaced by rename are picked up.
func NewWatcher(path string, snapshot *Snapshot, logger log.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}

	return &Watcher{
		path:     abs,
		snapshot: snapshot,
		logger:   logger.With(log.ComponentKey, "watcher", log.PathKey, abs),
		fsw:      fsw,
	}, nil
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				w.reload()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watch error", "error", err.Error())
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) reload() {
	p, err := linear.LoadParams(w.path)
	if err != nil {
		w.logger.Warn("Reload failed, keeping current weights",
			log.OperationKey, log.OperationReload,
			"error", err.Error(),
		)
	} else {
		w.snapshot.Store(p)
		w.logger.Info("Weights reloaded",
			log.OperationKey, log.OperationReload,
			log.WeightKey, p.Weight,
			log.BiasKey, p.Bias,
		)
	}
	if w.OnReload != nil {
		w.OnReload(p, err)
	}
}
