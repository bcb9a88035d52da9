package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"carestats/domain/stats"
	"carestats/internal"
)

// PlanHolder is the plan currently in force for requests that bring none.
// It is safe for concurrent use.
type PlanHolder struct {
	plan atomic.Pointer[stats.Plan]
}

// NewPlanHolder starts with plan
func NewPlanHolder(plan stats.Plan) *PlanHolder {
	h := &PlanHolder{}
	h.Set(plan)
	return h
}

// Current returns the active plan
func (h *PlanHolder) Current() stats.Plan {
	return *h.plan.Load()
}

// Set swaps in a new plan
func (h *PlanHolder) Set(plan stats.Plan) {
	h.plan.Store(&plan)
}

// WatchPlan reloads the plan file at path whenever it is written and calls
// onChange with the parsed plan. A plan that fails to parse or validate is
// logged and the previous one stays active; an empty file is skipped. It
// runs until ctx is cancelled.
func WatchPlan(ctx context.Context, path string, logger *internal.Logger, onChange func(stats.Plan)) error {
	path = filepath.Clean(path)
	if _, err := os.Stat(path); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// watch the directory: a save that renames a temp file over the plan
	// replaces the inode, and a watch on the file itself goes silent
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	logger.Info("watching analysis plan %s", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			data, err := os.ReadFile(path)
			if err != nil {
				// renamed away without a replacement yet
				if !os.IsNotExist(err) {
					logger.Error("plan reload failed, keeping previous plan: %v", err)
				}
				continue
			}
			// a truncate-then-write save fires once while the file is empty
			if len(bytes.TrimSpace(data)) == 0 {
				continue
			}
			plan, err := ParsePlan(data)
			if err != nil {
				logger.Error("plan reload failed, keeping previous plan: %v", err)
				continue
			}
			logger.Info("analysis plan reloaded from %s", path)
			onChange(plan)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("plan watcher error: %v", err)
		}
	}
}
