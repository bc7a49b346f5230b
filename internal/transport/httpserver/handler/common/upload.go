package common

import (
	"errors"
	"mime/multipart"
	"net/http"

	"hospital-admin-go/internal/domain/shared"
	"hospital-admin-go/internal/spreadsheet"
)

var ErrNoFiles = errors.New("no files in form")

// Uploads holds the parsed multipart files of one request. Close must be
// called once the files have been consumed.
type Uploads struct {
	Files   []shared.File
	handles []multipart.File
}

func (u *Uploads) Close() {
	for _, handle := range u.handles {
		_ = handle.Close()
	}
}

// ReadUploads parses a multipart body capped at maxBytes and opens every file
// sent under field.
func ReadUploads(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (*Uploads, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, err
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, ErrNoFiles
	}

	uploads := &Uploads{}
	for _, header := range r.MultipartForm.File[field] {
		handle, err := header.Open()
		if err != nil {
			uploads.Close()
			return nil, err
		}
		uploads.handles = append(uploads.handles, handle)
		uploads.Files = append(uploads.Files, shared.File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        handle,
		})
	}
	return uploads, nil
}

// ReadSheet reads the first sheet of the xlsx sent under field.
func ReadSheet(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) ([]spreadsheet.Row, error) {
	uploads, err := ReadUploads(w, r, field, maxBytes)
	if err != nil {
		return nil, err
	}
	defer uploads.Close()
	return spreadsheet.Read(uploads.Files[0].Body)
}

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
