// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package scan

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/canonical/guest-access-service/internal/logging"
)

const defaultSettle = 250 * time.Millisecond

var _ FrameSource = (*DirSource)(nil)

// DirSource consumes still images that a camera daemon drops into a
// directory, oldest first. Each file is removed once read.
type DirSource struct {
	dir    string
	settle time.Duration
	now    func() time.Time

	mu     sync.Mutex
	closed bool

	logger logging.LoggerInterface
}

func (d *DirSource) NextFrame(ctx context.Context) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrStopped
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, ok, err := d.oldest()
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrNoFrame
	}

	img, err := readImage(path)

	if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
		d.logger.Warnf("failed to remove consumed frame %s: %v", path, rmErr)
	}

	if err != nil {
		d.logger.Warnf("discarding unreadable frame %s: %v", path, err)
		return nil, ErrNoFrame
	}

	return img, nil
}

func (d *DirSource) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	return nil
}

// oldest returns the oldest image that has not been written to for the
// settle period, so half-written files are left alone.
func (d *DirSource) oldest() (string, bool, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return "", false, fmt.Errorf("failed to read frame directory: %w", err)
	}

	type frame struct {
		path    string
		modTime time.Time
	}

	var frames []frame
	cutoff := d.now().Add(-d.settle)

	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}

		if info.ModTime().After(cutoff) {
			continue
		}

		frames = append(frames, frame{path: filepath.Join(d.dir, e.Name()), modTime: info.ModTime()})
	}

	if len(frames) == 0 {
		return "", false, nil
	}

	sort.Slice(frames, func(i, j int) bool {
		if frames[i].modTime.Equal(frames[j].modTime) {
			return frames[i].path < frames[j].path
		}
		return frames[i].modTime.Before(frames[j].modTime)
	})

	return frames[0].path, true, nil
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

func isImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}

func NewDirSource(dir string, settle time.Duration, logger logging.LoggerInterface) (*DirSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("frame directory: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("frame directory %s is not a directory", dir)
	}

	d := new(DirSource)

	d.dir = dir
	d.settle = settle
	if d.settle < 0 {
		d.settle = defaultSettle
	}
	d.now = time.Now

	d.logger = logger

	return d, nil
}
