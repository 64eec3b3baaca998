package ocr

import "time"

// ExtractTextRequest carries text recognised on the client
type ExtractTextRequest struct {
	RawText string `json:"raw_text" validate:"max=100000"`
}

// ListPhotosRequest pages the archive listing
type ListPhotosRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// PhotoResponse is an archived photo with a short-lived download link
type PhotoResponse struct {
	ID          string    `json:"id"`
	ObjectKey   string    `json:"object_key"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Filename    string    `json:"filename,omitempty"`
	UploadedBy  string    `json:"uploaded_by"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}
