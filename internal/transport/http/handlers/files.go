package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// saveUploadedFile spools a multipart file field to a temp file and returns
// its path. Returns "" without error when the field is absent; the caller
// owns removal of the temp file.
func saveUploadedFile(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

func removeIfSet(path string) {
	if path != "" {
		os.Remove(path)
	}
}
