// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package uploader watches a directory and uploads new documents to the
// docket server as they appear.
package uploader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/jeranaias/docket-tui/internal/api"
	"github.com/jeranaias/docket-tui/internal/model"
)

// settleDelay is how long a file must sit unchanged before it is considered
// fully written and safe to upload.
const settleDelay = 2 * time.Second

// Uploader is the slice of the API client the watcher needs.
type Uploader interface {
	UploadFile(ctx context.Context, path, title, docType string) (*api.UploadResult, error)
}

// Result reports one attempted upload.
type Result struct {
	Path   string
	Result *api.UploadResult
	Err    error
}

// Watcher uploads files dropped into a directory. Uploads are rate limited
// and deduplicated per path; only extensions the backend indexes are sent.
type Watcher struct {
	dir      string
	client   Uploader
	limiter  *rate.Limiter
	watcher  *fsnotify.Watcher
	results  chan Result
	ctx      context.Context
	cancel   context.CancelFunc

	mu       sync.Mutex
	pending  map[string]time.Time
	uploaded map[string]struct{}
}

// New creates a watcher over dir; maxPerMinute caps the upload rate.
func New(dir string, client Uploader, maxPerMinute int) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if maxPerMinute <= 0 {
		maxPerMinute = 6
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		dir:      dir,
		client:   client,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxPerMinute)), 1),
		watcher:  fsw,
		results:  make(chan Result, 16),
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[string]time.Time),
		uploaded: make(map[string]struct{}),
	}, nil
}

// Results delivers one Result per attempted upload.
func (w *Watcher) Results() <-chan Result {
	return w.results
}

// Watch starts watching. It returns immediately; uploads happen on background
// goroutines until Close.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	go w.processEvents()
	go w.processPending()
	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.noteChange(event.Name)
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// noteChange records a changed file, restarting its settle timer.
func (w *Watcher) noteChange(path string) {
	if !ShouldUpload(path) {
		return
	}
	w.mu.Lock()
	if _, done := w.uploaded[path]; !done {
		w.pending[path] = time.Now()
	}
	w.mu.Unlock()
}

// processPending uploads files once they have settled.
func (w *Watcher) processPending() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()

			w.mu.Lock()
			var ready []string
			for path, changed := range w.pending {
				if now.Sub(changed) >= settleDelay {
					ready = append(ready, path)
					delete(w.pending, path)
					w.uploaded[path] = struct{}{}
				}
			}
			w.mu.Unlock()

			for _, path := range ready {
				w.upload(path)
			}
		}
	}
}

func (w *Watcher) upload(path string) {
	if err := w.limiter.Wait(w.ctx); err != nil {
		return
	}

	result, err := w.client.UploadFile(w.ctx, path, model.TitleForPath(path), model.DocTypeForPath(path))
	if err != nil {
		// Allow a user-triggered retry by forgetting the path.
		w.mu.Lock()
		delete(w.uploaded, path)
		w.mu.Unlock()
	}

	select {
	case w.results <- Result{Path: path, Result: result, Err: err}:
	case <-w.ctx.Done():
	}
}

// ShouldUpload reports whether a path looks like an uploadable document:
// a regular, non-hidden file with an extension the backend indexes natively.
func ShouldUpload(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return false
	}
	switch model.DocTypeForPath(path) {
	case model.DocTypePDF, model.DocTypeDocx, model.DocTypeText:
		return true
	default:
		return false
	}
}
