package backend

import (
	"strings"
	"time"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
)

// timestamp layouts seen from the API, with and without a zone
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// MapPage converts a page response to a domain page
func MapPage(resp *PageResponse) *domain.Page {
	return &domain.Page{
		Index:      resp.Page,
		Items:      MapItems(resp.Items),
		TotalCount: resp.TotalCount,
		TotalPages: resp.TotalPages,
	}
}

// MapItems converts wire items one for one. Offsets within the page are
// positions on the server, so no entry is ever dropped.
func MapItems(dtos []MediaItemDTO) []domain.Item {
	items := make([]domain.Item, len(dtos))
	for i, d := range dtos {
		items[i] = MapItem(d)
	}
	return items
}

// MapItem converts a single wire item, discriminating on mediaType.
// Unrecognised types map to *domain.UnknownItem.
func MapItem(d MediaItemDTO) domain.Item {
	base := domain.Base{
		ID:       d.ID,
		FileName: d.FileName,
		FilePath: d.FilePath,
		FileSize: d.FileSize,
		AddedAt:  parseCreatedAt(d.CreatedAt),
	}
	duration := time.Duration(d.DurationSeconds * float64(time.Second))

	switch domain.Kind(strings.ToLower(d.MediaType)) {
	case domain.KindImage:
		return &domain.ImageItem{
			Base:    base,
			Width:   d.Width,
			Height:  d.Height,
			Scanned: d.IsScannedDocument,
		}
	case domain.KindVideo:
		return &domain.VideoItem{
			Base:     base,
			Width:    d.Width,
			Height:   d.Height,
			Duration: duration,
		}
	case domain.KindAudio:
		return &domain.AudioItem{
			Base:     base,
			Duration: duration,
			Bitrate:  d.Bitrate,
		}
	case domain.KindDocument:
		return &domain.DocumentItem{
			Base:      base,
			PageCount: d.PageCount,
			MimeType:  d.MimeType,
		}
	default:
		return &domain.UnknownItem{Base: base, MediaType: d.MediaType}
	}
}

func parseCreatedAt(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
