// Package dataset loads directories of audio files into waveform sets.
package dataset

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/kyori/internal/audio"
	"github.com/hyperjump/kyori/internal/models"
)

// DefaultExtensions are the audio extensions loaded when none are
// configured.
var DefaultExtensions = []string{".wav"}

// ListFiles returns the audio files under dir (recursively) with one of
// the given extensions, sorted by path. Extension matching is
// case-insensitive. An empty or missing extension list falls back to
// DefaultExtensions.
func ListFiles(dir string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, want := range extensions {
			if ext == strings.ToLower(want) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Loader loads audio files resampled to a target rate.
type Loader struct {
	targetRate int
	logger     *zap.Logger
}

// NewLoader creates a loader producing waveforms at targetRate.
func NewLoader(targetRate int, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{targetRate: targetRate, logger: logger}
}

// LoadFile decodes and resamples a single audio file.
func (l *Loader) LoadFile(path string) (*models.Waveform, error) {
	w, err := audio.ReadWAVFile(path)
	if err != nil {
		return nil, err
	}
	return audio.Resample(w, l.targetRate)
}

// LoadDirectory loads every matching file under dir. An empty directory
// yields an empty set, not an error; any unreadable file aborts the
// whole load.
func (l *Loader) LoadDirectory(dir string, extensions []string) ([]*models.Waveform, error) {
	files, err := ListFiles(dir, extensions)
	if err != nil {
		return nil, err
	}
	waveforms := make([]*models.Waveform, 0, len(files))
	for _, path := range files {
		w, err := l.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		waveforms = append(waveforms, w)
	}
	l.logger.Debug("loaded audio directory",
		zap.String("dir", dir),
		zap.Int("files", len(waveforms)),
	)
	return waveforms, nil
}
