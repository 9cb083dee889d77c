package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"campus_electives/backend/internal/shared"
)

// uploadedFile is a fully-read multipart file part.
type uploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// readMultipartFile parses the multipart form and reads the named file part
// into memory. maxSize bounds both the form parse and the read; one extra
// byte is read so oversized files are detected rather than silently
// truncated.
func readMultipartFile(r *http.Request, field string, maxSize int64) (*uploadedFile, error) {
	if err := r.ParseMultipartForm(maxSize + 1024); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing file field %q: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return &uploadedFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// toCertificateFile converts an upload into the stored representation.
func (f *uploadedFile) toCertificateFile() *shared.CertificateFile {
	return &shared.CertificateFile{
		Filename:    f.Filename,
		ContentType: f.ContentType,
		Size:        int64(len(f.Data)),
		UploadedAt:  time.Now(),
		Data:        f.Data,
	}
}
