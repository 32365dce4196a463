package backend

// MediaItemDTO is one entry of the media endpoints. Kind-specific fields are
// zero or null for the other kinds.
type MediaItemDTO struct {
	ID                int64   `json:"id"`
	MediaType         string  `json:"mediaType"`
	FileName          string  `json:"fileName"`
	FileSize          int64   `json:"fileSize"`
	FilePath          string  `json:"filePath"`
	CreatedAt         string  `json:"createdAt"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	IsScannedDocument bool    `json:"isScannedDocument"`
	DurationSeconds   float64 `json:"durationSeconds"`
	Bitrate           int     `json:"bitrate"`
	PageCount         int     `json:"pageCount"`
	MimeType          string  `json:"mimeType"`
}

// PageResponse is the /api/media response. Page is 0-based even though the
// request parameter is 1-based.
type PageResponse struct {
	Items      []MediaItemDTO `json:"items"`
	Page       int            `json:"page"`
	TotalCount int            `json:"totalCount"`
	TotalPages int            `json:"totalPages"`
}

// PositionResponse is the /api/media/{id}/position response
type PositionResponse struct {
	Page   int `json:"page"`
	Offset int `json:"offset"`
}
