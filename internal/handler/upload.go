package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

const maxUploadSize = 10 << 20 // 10MB

// spoolUploadedFile copies the named multipart file to a local temporary
// file and returns its path. An absent field returns "" without error; the
// caller decides whether the field was mandatory. The media store removes
// the file after upload, and handlers defer a best-effort remove for paths
// that never reach it.
func spoolUploadedFile(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", fmt.Errorf("read form file %s: %w", field, err)
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("spool upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return tmp.Name(), nil
}

// removeIfPresent cleans up a spooled file that may already be gone.
func removeIfPresent(path string) {
	if path != "" {
		os.Remove(path)
	}
}
