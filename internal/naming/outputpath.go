package naming

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// MaxOutputVariant is the highest numeric suffix probed by AllocateOutputPath.
const MaxOutputVariant = 99

// AllocateOutputPath returns a path in dir for the aggregate file name that
// does not clobber an earlier run: name itself if free, otherwise the first
// free of stem_1.ext … stem_99.ext. When every candidate exists the last one
// is returned and will be overwritten. Only existence is checked; nothing is
// created.
func AllocateOutputPath(dir, name string) string {
	candidate := filepath.Join(dir, name)
	if !exists(candidate) {
		return candidate
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; i <= MaxOutputVariant; i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if !exists(candidate) {
			return candidate
		}
	}
	return candidate
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// GroupID returns the participant identifier of a group directory: its base
// name.
func GroupID(dir string) string {
	return filepath.Base(dir)
}

// RecordingID returns the trial identifier of a recording file: its base
// name without the final extension. A dot-less name is returned unchanged.
func RecordingID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
