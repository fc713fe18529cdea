package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func baseKeyInput() KeyInput {
	return KeyInput{
		ModelPath:  "/models/vggish.onnx",
		Dimensions: 128,
		SampleRate: 16000,
		Files: []FileStamp{
			{Path: "/bg/a.wav", Size: 100, ModTime: 1},
			{Path: "/bg/b.wav", Size: 200, ModTime: 2},
		},
	}
}

func TestCacheKey_stable(t *testing.T) {
	a := baseKeyInput().CacheKey()
	b := baseKeyInput().CacheKey()
	if a != b {
		t.Errorf("same input produced different keys: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("key length: got %d, want 64 hex chars", len(a))
	}
}

func TestCacheKey_fileOrderIndependent(t *testing.T) {
	in := baseKeyInput()
	reversed := baseKeyInput()
	reversed.Files[0], reversed.Files[1] = reversed.Files[1], reversed.Files[0]
	if in.CacheKey() != reversed.CacheKey() {
		t.Error("file order should not change the key")
	}
}

func TestCacheKey_configChangesKey(t *testing.T) {
	base := baseKeyInput().CacheKey()

	pca := baseKeyInput()
	pca.UsePCA = true
	if pca.CacheKey() == base {
		t.Error("use_pca change should change the key")
	}

	model := baseKeyInput()
	model.ModelPath = "/models/other.onnx"
	if model.CacheKey() == base {
		t.Error("model path change should change the key")
	}

	touched := baseKeyInput()
	touched.Files[0].ModTime = 99
	if touched.CacheKey() == base {
		t.Error("background file change should change the key")
	}
}

func TestStampFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wav")
	if err := os.WriteFile(path, []byte("xxxx"), 0644); err != nil {
		t.Fatal(err)
	}
	stamps, err := StampFiles([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	if len(stamps) != 1 || stamps[0].Size != 4 {
		t.Errorf("got %+v, want one stamp of size 4", stamps)
	}
	if _, err := StampFiles([]string{filepath.Join(dir, "missing.wav")}); err == nil {
		t.Error("missing file should error")
	}
}
