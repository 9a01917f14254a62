package client

import (
	"fmt"

	"convertly-go/internal/validation"
)

// MaxFileSize is the largest file the client submits
const MaxFileSize = 10 << 20

// File is a candidate for upload
type File struct {
	Name     string
	Data     []byte
	MIMEType string `validate:"imagemime"`
	Size     int64  `validate:"lte=10485760"`
}

// NewFile builds a File whose size is taken from data
func NewFile(name string, data []byte, mimeType string) File {
	return File{
		Name:     name,
		Data:     data,
		MIMEType: mimeType,
		Size:     int64(len(data)),
	}
}

// Rejection is a file refused by the upload policy
type Rejection struct {
	Name    string
	Message string
}

func (r Rejection) Error() string {
	return r.Message
}

// ValidateFiles splits files into the ones that pass the upload policy and
// the ones that don't. Accepted files keep their order.
func ValidateFiles(files []File) ([]File, []Rejection) {
	var accepted []File
	var rejected []Rejection

	for _, f := range files {
		if msg, ok := checkFile(f); !ok {
			rejected = append(rejected, Rejection{Name: f.Name, Message: msg})
			continue
		}
		accepted = append(accepted, f)
	}

	return accepted, rejected
}

// checkFile reports the first broken rule. The type is checked before the size.
func checkFile(f File) (string, bool) {
	errs := validation.FormatError(validation.Validate(&f))
	if len(errs) == 0 {
		return "", true
	}

	switch errs[0].Tag {
	case "imagemime":
		return fmt.Sprintf("%s is not an image file", f.Name), false
	case "lte":
		return fmt.Sprintf("%s is too large (max 10MB)", f.Name), false
	default:
		return fmt.Sprintf("%s: %s", f.Name, errs[0].Error), false
	}
}
