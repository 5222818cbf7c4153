// Package upload implements the bulk direct-to-storage upload pipeline:
// manifest generation (folder taxonomy, key derivation, credential
// issuance) and post-upload completion reconciliation.
package upload

import "time"

// FileMeta is the client-declared metadata for one file of a batch.
type FileMeta struct {
	Name         string
	Size         int64
	Type         string
	RelativePath string
}

// ProjectMeta identifies the project an upload batch belongs to.
type ProjectMeta struct {
	Name    string
	Contact string
	Package string
}

// FileDescriptor is the per-file entry of a successful manifest: everything
// the client needs to POST the bytes straight to storage.
type FileDescriptor struct {
	OriginalName  string            `json:"originalName"`
	SanitizedName string            `json:"sanitizedName"`
	Key           string            `json:"key"`
	UploadURL     string            `json:"uploadUrl"`
	Fields        map[string]string `json:"fields"`
	FinalURL      string            `json:"finalUrl"`
	OriginalPath  string            `json:"originalPath"`
	FolderPath    string            `json:"folderPath"`
	SessionID     string            `json:"uploadSessionId"`
	Size          int64             `json:"size"`
	Type          string            `json:"type"`
	CategoryID    string            `json:"categoryId,omitempty"`
	ProjectID     string            `json:"projectId"`
}

// FileFailure reports why one file of a batch was not processed. Sibling
// files are unaffected.
type FileFailure struct {
	OriginalName string `json:"originalName"`
	Error        string `json:"error"`
}

// BatchStats are the machine-readable counts every batch response carries.
type BatchStats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// ManifestData carries the two per-file partitions of a manifest response,
// nested under "data" in the wire shape.
type ManifestData struct {
	Successful []*FileDescriptor `json:"successful"`
	Failed     []*FileFailure    `json:"failed"`
}

// Manifest is the client-facing result of one batch-upload generation call.
type Manifest struct {
	SessionID string       `json:"sessionId"`
	ProjectID string       `json:"projectId"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Stats     BatchStats   `json:"stats"`
	Data      ManifestData `json:"data"`
	// Categories maps leaf folder name to category id for the batch.
	Categories map[string]string `json:"categories"`
}

// CompletedFile is one entry of a client's completion report: a claim that
// the file was uploaded. Claims are verified against storage before any
// record is persisted.
type CompletedFile struct {
	Key          string `json:"key"`
	OriginalName string `json:"originalName"`
	FinalURL     string `json:"finalUrl"`
	Size         int64  `json:"size"`
	ETag         string `json:"etag"`
	FolderPath   string `json:"folderPath"`
	CategoryID   string `json:"categoryId"`
	ProjectID    string `json:"projectId"`
}

// VerifiedFile is a completion entry whose object existence was confirmed,
// enriched with the authoritative metadata from storage.
type VerifiedFile struct {
	CompletedFile
	ImageID      string    `json:"imageId"`
	ActualSize   int64     `json:"actualSize"`
	LastModified time.Time `json:"lastModified"`
}

// CompletionData carries the verified/failed partitions of a completion
// response, nested under "data" in the wire shape.
type CompletionData struct {
	Successful []*VerifiedFile `json:"successful"`
	Failed     []*FileFailure  `json:"failed"`
}

// CompletionResult summarizes one reconciled completion report.
type CompletionResult struct {
	SessionID   string         `json:"sessionId"`
	Stats       BatchStats     `json:"stats"`
	TotalSize   int64          `json:"totalSize"`
	Data        CompletionData `json:"data"`
	CompletedAt time.Time      `json:"completedAt"`
}
