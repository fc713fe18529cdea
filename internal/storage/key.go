package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FileStamp identifies one background file's content without reading it.
type FileStamp struct {
	Path    string
	Size    int64
	ModTime int64 // unix nanoseconds
}

// KeyInput collects everything that must invalidate cached background
// statistics when it changes: the embedder configuration and the
// identity of the background file set. A stale cache written by an older
// model configuration therefore lands under a different key instead of
// being silently reused.
type KeyInput struct {
	ModelPath     string
	Dimensions    int
	SampleRate    int
	UsePCA        bool
	UseActivation bool
	Files         []FileStamp
}

// CacheKey returns a stable hex key for in. File order does not matter.
func (in KeyInput) CacheKey() string {
	files := append([]FileStamp(nil), in.Files...)
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	h := sha256.New()
	fmt.Fprintf(h, "model=%s dims=%d rate=%d pca=%t act=%t\n",
		in.ModelPath, in.Dimensions, in.SampleRate, in.UsePCA, in.UseActivation)
	for _, f := range files {
		fmt.Fprintf(h, "%s %d %d\n", filepath.Clean(f.Path), f.Size, f.ModTime)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// StampFiles stats each path into a FileStamp.
func StampFiles(paths []string) ([]FileStamp, error) {
	stamps := make([]FileStamp, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		stamps = append(stamps, FileStamp{
			Path:    p,
			Size:    info.Size(),
			ModTime: info.ModTime().UnixNano(),
		})
	}
	return stamps, nil
}
