package model

import "time"

// Image records an uploaded file. URL is the public path the frontend embeds;
// StoredName is the generated on-disk file name.
type Image struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Filename   string    `json:"filename"`
	StoredName string    `json:"-"`
	SizeBytes  int64     `json:"size_bytes"`
	UploaderID string    `json:"-"`
	UploadedAt time.Time `json:"uploaded_at"`
}
