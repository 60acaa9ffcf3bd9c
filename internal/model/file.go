package model

type UploadMessageFileRequest struct{}

type UploadMessageFileResponse struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
}

type UploadServerImageRequest struct{}

type UploadServerImageResponse struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
}
