// Package importer ingests plain-text files dropped into an inbox directory
// as notes.
package importer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/laguz/internal/noteservice"
)

// ImportTag is attached to every note created by the importer.
const ImportTag = "imported"

// Callback is called after a file has been imported as a note.
type Callback func(noteID, path string)

// Watch starts an fsnotify watcher on the inbox directory and imports
// .md and .txt files as they appear, until ctx is cancelled. The source
// file is removed after a successful import. It calls cb (if non-nil)
// after each import.
func Watch(ctx context.Context, svc *noteservice.Service, dir string, logger *slog.Logger, cb Callback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	// Pick up files already sitting in the inbox.
	sweepInbox(ctx, svc, dir, logger, cb)

	logger.Info("importer: started", slog.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			logger.Info("importer: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !importable(ev.Name) {
				continue
			}
			importFile(ctx, svc, ev.Name, logger, cb)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("importer: error", slog.String("error", watchErr.Error()))
		}
	}
}

// sweepInbox imports every importable file already present in dir.
func sweepInbox(ctx context.Context, svc *noteservice.Service, dir string, logger *slog.Logger, cb Callback) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("importer: read dir failed", slog.String("error", err.Error()))
		return
	}
	for _, e := range entries {
		if e.IsDir() || !importable(e.Name()) {
			continue
		}
		importFile(ctx, svc, filepath.Join(dir, e.Name()), logger, cb)
	}
}

// importFile turns a dropped file into a note and removes it on success.
// A file that vanished between the event and the read has already been
// imported; that is not an error.
func importFile(ctx context.Context, svc *noteservice.Service, path string, logger *slog.Logger, cb Callback) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("importer: read failed", slog.String("path", path), slog.String("error", err.Error()))
		}
		return
	}

	note, err := svc.CreateNote(ctx, noteservice.CreateNoteInput{
		Content: string(data),
		Tags:    []string{ImportTag},
		Metadata: map[string]any{
			"source_file": filepath.Base(path),
		},
	})
	if err != nil {
		logger.Warn("importer: create note failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	if err := os.Remove(path); err != nil {
		logger.Warn("importer: remove failed", slog.String("path", path), slog.String("error", err.Error()))
	}

	logger.Debug("importer: imported", slog.String("path", path), slog.String("note_id", note.ID))
	if cb != nil {
		cb(note.ID, path)
	}
}

func importable(name string) bool {
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".txt")
}
