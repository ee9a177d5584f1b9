package config

import (
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/HackLinux/freelan-all/src/router"
)

const reloadDebounce = 250 * time.Millisecond

// Watch watches path for changes and, on each settled change, reloads it
// and pushes the routing-relevant fields into r via SetConfiguration. It
// blocks until stop is closed or the watcher fails irrecoverably, logging
// through logger. Writes are debounced because editors commonly emit
// several filesystem events for a single save.
func Watch(path string, r *router.Router, state *NodeState, logger router.Logger, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	timer := time.NewTimer(0)
	<-timer.C // start idle; the initial load already happened at startup

	for {
		select {
		case <-stop:
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Remove != 0 {
				// Editors that save via rename-and-replace remove the old
				// inode; re-arm the watch on the new one.
				if err := watcher.Add(path); err != nil && logger != nil {
					logger.Warnln("config watch: failed to re-add", path, ":", err)
				}
			}
			timer.Reset(reloadDebounce)

		case err := <-watcher.Errors:
			if logger != nil {
				logger.Errorln("config watch:", err)
			}

		case <-timer.C:
			cfg, err := ReadConfig(path)
			if err != nil {
				if logger != nil {
					logger.Warnln("config watch: reload failed, keeping previous configuration:", err)
				}
				continue
			}
			state.Replace(*cfg)
			r.SetConfiguration(cfg.RouterConfig())
			if logger != nil {
				logger.Infoln("config watch: reloaded", path)
			}
		}
	}
}
