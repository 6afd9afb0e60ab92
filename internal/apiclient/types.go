package apiclient

import "io"

// UploadResult is the body returned by PUT /upload.
type UploadResult struct {
	ID string `json:"id" validate:"required"`
}

// RecentList is the body returned by GET /recent. IDs keep the server's recency order.
type RecentList struct {
	StorageURL string   `json:"storageURL"`
	IDs        []string `json:"ids"`
}

type Caption struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// ImageDetail is the body returned by GET /detail/{id}.
type ImageDetail struct {
	Captions []Caption `json:"captions"`
	Tags     []string  `json:"tags"`
}

// File is a single file selected for upload.
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}
