// Package artifact names uploaded files and checks their declared type.
package artifact

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/dalemusser/internportal/internal/app/system/apperr"
)

// PDFMediaType is the only media type accepted for resumes.
const PDFMediaType = "application/pdf"

var pdfMagic = []byte("%PDF-")

// SanitizeName reduces a client-supplied filename to a safe base name.
// Characters outside [A-Za-z0-9._-] become '_', and long names are
// truncated keeping a short extension.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		name = ""
	}

	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	res := strings.TrimLeft(string(out), ".")
	if res == "" {
		return "file"
	}
	if len(res) > 100 {
		ext := path.Ext(res)
		if len(ext) > 0 && len(ext) < 10 {
			res = res[:100-len(ext)] + ext
		} else {
			res = res[:100]
		}
	}
	return res
}

// Key returns the storage key "{ownerID}/{subjectID}_{name}" where subjectID
// is the task (submissions) or internship (resumes) the file belongs to.
func Key(ownerID, subjectID, name string) string {
	return ownerID + "/" + subjectID + "_" + SanitizeName(name)
}

// OwnerOf returns the owner segment of a key produced by Key.
func OwnerOf(key string) string {
	owner, _, _ := strings.Cut(key, "/")
	return owner
}

// RequirePDF checks that the declared media type is application/pdf and that
// the content starts with the PDF signature. r is rewound before returning.
// Any mismatch is apperr.InvalidArtifactType.
func RequirePDF(declared string, r io.ReadSeeker) error {
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil || mt != PDFMediaType {
		return apperr.New(apperr.InvalidArtifactType, "Resume must be a PDF file.")
	}

	head := make([]byte, len(pdfMagic))
	n, err := io.ReadFull(r, head)
	if _, serr := r.Seek(0, io.SeekStart); serr != nil {
		return apperr.Internalf(serr, "rewind upload")
	}
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return apperr.Internalf(err, "read upload")
	}
	if !bytes.Equal(head[:n], pdfMagic) {
		return apperr.New(apperr.InvalidArtifactType, "Resume must be a PDF file.")
	}
	return nil
}
