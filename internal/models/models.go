package models

// Error codes carried in the "code" field of API error bodies and failed file
// entries. Clients match on these, never on the message text.
const (
	CodeNoFiles           = "NO_FILES"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeTooManyFiles      = "TOO_MANY_FILES"
	CodeInvalidForm       = "INVALID_FORM"
	CodeRequestTooLarge   = "REQUEST_TOO_LARGE"
	CodeFileTooLarge      = "FILE_TOO_LARGE"
	CodeImageTooLarge     = "IMAGE_TOO_LARGE"
	CodeNotAnImage        = "NOT_AN_IMAGE"
	CodeConversionFailed  = "CONVERSION_FAILED"
	CodeTimeout           = "TIMEOUT"
	CodeNotFound          = "NOT_FOUND"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
)

// SizeInfo holds a byte count
type SizeInfo struct {
	Size int64 `json:"size"`
}

// FileMetadata compares the uploaded and converted sizes of one file.
type FileMetadata struct {
	Original  SizeInfo `json:"original"`
	Converted SizeInfo `json:"converted"`
}

// ConvertedFile is a single converted image as sent over the wire.
type ConvertedFile struct {
	Name     string        `json:"name"`               // Original basename plus target extension
	Buffer   string        `json:"buffer"`             // Converted bytes, standard base64
	Type     string        `json:"type,omitempty"`     // Output MIME type
	Metadata *FileMetadata `json:"metadata,omitempty"` // Byte counts before and after conversion
}

// FailedFile names an input that could not be converted.
type FailedFile struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// ConvertResponse is the body of a successful POST /api/upload.
type ConvertResponse struct {
	Message string          `json:"message"`
	Files   []ConvertedFile `json:"files"`
	Failed  []FailedFile    `json:"failed,omitempty"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Code   string       `json:"code,omitempty"`
	Failed []FailedFile `json:"failed,omitempty"`
}

// FormatsResponse is the body of GET /api/formats.
type FormatsResponse struct {
	Formats     []Format `json:"formats"`
	MaxFileSize int64    `json:"maxFileSize"`
	MaxFiles    int      `json:"maxFiles"`
}
