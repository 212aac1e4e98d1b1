// Package formutil reads multipart uploads with a size cap and maps
// failures onto the error taxonomy.
//
// Example usage:
//
//	if err := formutil.ParseMultipart(w, r, h.MaxUploadBytes); err != nil {
//		h.ErrLog.Write(w, r, err)
//		return
//	}
//	f, hdr, err := formutil.File(r, "resume")
//	if err != nil { ... }
//	defer f.Close()
package formutil

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/dalemusser/internportal/internal/app/system/limits"
)

// ParseMultipart caps the body at maxBytes and parses it as
// multipart/form-data. An oversized or malformed body is InvalidInput.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = limits.DefaultUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(limits.MultipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return apperr.Wrap(apperr.InvalidInput, err, "Upload exceeds the size limit.")
		}
		return apperr.Wrap(apperr.InvalidInput, err, "Malformed multipart form.")
	}
	return nil
}

// File returns the uploaded file in field. A missing file is InvalidInput.
func File(r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.InvalidInput, err, "A file is required in field \""+field+"\".")
	}
	return f, hdr, nil
}

// ContentType returns the media type the client declared for the part,
// without parameters.
func ContentType(hdr *multipart.FileHeader) string {
	ct := hdr.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(strings.ToLower(ct))
}

// BaseName strips any client-supplied directory from the upload name.
func BaseName(hdr *multipart.FileHeader) string {
	return path.Base(strings.ReplaceAll(hdr.Filename, "\\", "/"))
}
