package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchAndRender renders once immediately, then re-renders on every
// subsequent write to path until the process is interrupted.
func watchAndRender(path string, f renderFlags) error {
	if err := renderOnce(path, f); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", colorize("Error:", colorRed, shouldUseColor(f.noColor)), err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the containing directory, not the file itself: editors
	// commonly rewrite a file via rename-into-place, which drops the
	// original inode (and fsnotify's watch on it) rather than emitting
	// a Write event.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	fmt.Fprintf(os.Stderr, "watching %s for changes (ctrl-c to stop)\n", path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			eventAbs, err := filepath.Abs(event.Name)
			if err != nil || eventAbs != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := renderOnce(path, f); err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", colorize("Error:", colorRed, shouldUseColor(f.noColor)), err)
				continue
			}
			fmt.Fprintf(os.Stderr, "re-rendered %s\n", path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
