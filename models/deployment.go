package models

import "time"

// FileEncoding how a file payload is carried to the provider
type FileEncoding string

const (
	EncodingUTF8   FileEncoding = "utf8"
	EncodingBase64 FileEncoding = "base64"
)

// ArchiveEntry one file or directory record inside an uploaded zip
type ArchiveEntry struct {
	Path        string // Stored name, forward-slash separated
	IsDirectory bool   // Directory records carry no bytes
	RawBytes    []byte // File content, nil for directories
}

// DeploymentFile one file submitted to the provider, the submitter owns the wire shape
type DeploymentFile struct {
	Path     string       // Remote file name
	Encoding FileEncoding // utf8 or base64
	Payload  string       // Decoded text or base64 string
}

// DeploymentRequest the packaged upload
type DeploymentRequest struct {
	ProjectName string
	Files       []DeploymentFile
}

// DeploymentResult outcome of one upload-deploy cycle, exactly one field is set
type DeploymentResult struct {
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// Deployment record statuses
const (
	DeploymentStatusSucceeded = "succeeded"
	DeploymentStatusFailed    = "failed"
)

// DeploymentRecord deployment history entry
type DeploymentRecord struct {
	ID          string    `json:"id"`           // UUID
	ProjectName string    `json:"project_name"` // Generated project name, empty if packaging failed
	Filename    string    `json:"filename"`     // Uploaded file name
	URL         string    `json:"url"`          // Live URL on success
	Error       string    `json:"error"`        // Error message on failure
	Stage       string    `json:"stage"`        // Stage that failed, empty on success
	Status      string    `json:"status"`       // succeeded/failed
	FileCount   int       `json:"file_count"`   // Files submitted
	TotalBytes  int64     `json:"total_bytes"`  // Uploaded archive size
	CreatedAt   time.Time `json:"created_at"`
}
