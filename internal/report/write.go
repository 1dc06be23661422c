package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// Write renders the report and writes it to path. Existing files are never
// overwritten; a partially written file is removed on error so a failed run
// leaves nothing behind.
func Write(r Report, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil { // #nosec G301 -- user output dir
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644) // #nosec G302 G304 -- user output file
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrFileExists, path)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	if _, err := f.WriteString(r.Render()); err != nil {
		_ = f.Close()
		_ = os.Remove(path) // best-effort; write error takes precedence
		return fmt.Errorf("cannot write report: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("cannot finalize report: %w", err)
	}
	return nil
}
