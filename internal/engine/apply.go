package engine

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeFileAtomic writes a rendered file under root via a temporary
// file and rename, so an interrupted run never leaves a half-written
// file behind.
func writeFileAtomic(root string, f RenderedFile) error {
	target := joinUnderRoot(root, f.Path)

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".wren-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(f.Content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.Path, err)
	}

	mode := f.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	return nil
}

// joinUnderRoot joins a reconciled relative path under root. Paths have
// already been validated by the materializer.
func joinUnderRoot(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
