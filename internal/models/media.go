package models

// UploadedMedia is what the media bridge reports for a stored asset
type UploadedMedia struct {
	URL      string  `json:"url"`
	Key      string  `json:"key"`
	Duration float64 `json:"duration"`
}
