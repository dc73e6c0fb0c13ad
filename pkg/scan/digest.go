package scan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Digest fingerprints the files a scan of root would read: their relative
// paths and contents, plus go.mod for Go. Two roots with equal digests
// produce equal models, which makes the digest usable as a cache key.
func (s *Scanner) Digest(root string) (string, error) {
	fe := s.frontend()
	files, err := collectFiles(root, fe)
	if err != nil {
		return "", err
	}
	if s.lang == LangGo {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			files = append([]string{"go.mod"}, files...)
		}
	}

	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%t\x00%t\x00", s.lang, s.opts.IncludeTests, s.opts.IncludeExternal)
	for _, rel := range files {
		if err := digestFile(h, root, rel); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func digestFile(w io.Writer, root, rel string) error {
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return fmt.Errorf("digest %s: %w", rel, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("digest %s: %w", rel, err)
	}
	fmt.Fprintf(w, "%s\x00%d\x00", rel, info.Size())
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("digest %s: %w", rel, err)
	}
	return nil
}
