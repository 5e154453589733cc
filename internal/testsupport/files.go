package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"shotexport/internal/framepath"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteFrames creates one small file per frame in [first, last] for a frame
// pattern such as "plate.####.exr" or "plate.%04d.exr". Each file holds its
// own frame number so copies can be traced back to their source.
func WriteFrames(t testing.TB, pattern string, first, last int) {
	t.Helper()

	printf := framepath.HashesToPrintf(pattern)
	for frame := first; frame <= last; frame++ {
		WriteFile(t, framepath.Format(printf, frame), []byte(fmt.Sprintf("frame %d", frame)))
	}
}

// ReadFrame returns the content of one frame file, failing the test if it is
// missing.
func ReadFrame(t testing.TB, pattern string, frame int) string {
	t.Helper()

	path := framepath.Format(framepath.HashesToPrintf(pattern), frame)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read frame %s: %v", path, err)
	}
	return string(data)
}
