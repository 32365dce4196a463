package domain

import (
	"fmt"
	"time"
)

// Kind discriminates the item variants served by the corpus API
type Kind string

const (
	KindAll      Kind = ""
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindDocument Kind = "document"
)

// Kinds lists the selectable kinds in tab order
var Kinds = []Kind{KindAll, KindImage, KindVideo, KindAudio, KindDocument}

// ParseKind converts user or config input into a Kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAll, KindImage, KindVideo, KindAudio, KindDocument:
		return Kind(s), nil
	case "all":
		return KindAll, nil
	default:
		return "", fmt.Errorf("unknown media kind %q", s)
	}
}

// Label returns the tab label for the kind
func (k Kind) Label() string {
	switch k {
	case KindAll:
		return "All"
	case KindImage:
		return "Images"
	case KindVideo:
		return "Videos"
	case KindAudio:
		return "Audio"
	case KindDocument:
		return "Documents"
	default:
		return string(k)
	}
}

// Item is the tagged union over media kinds. Switch on the concrete type
// (*ImageItem, *VideoItem, *AudioItem, *DocumentItem, *UnknownItem) to reach
// kind fields.
type Item interface {
	// ItemID returns the stable backend identifier
	ItemID() int64

	// ItemKind returns the discriminator
	ItemKind() Kind

	// Common returns the fields shared by every kind
	Common() *Base

	// Description returns secondary info for list rows (e.g. "1920×1080", "3m 12s")
	Description() string
}

// Base holds the fields every item carries
type Base struct {
	ID       int64     // Backend identifier
	FileName string    // Display name
	FilePath string    // Path inside the extracted corpus
	FileSize int64     // Size in bytes
	AddedAt  time.Time // When the item was extracted
}

// FormattedFileSize returns the file size in a human-readable format
func (b Base) FormattedFileSize() string {
	if b.FileSize <= 0 {
		return ""
	}
	const (
		gb = 1024 * 1024 * 1024
		mb = 1024 * 1024
		kb = 1024
	)
	switch {
	case b.FileSize >= gb:
		return fmt.Sprintf("%.1f GB", float64(b.FileSize)/float64(gb))
	case b.FileSize >= mb:
		return fmt.Sprintf("%.1f MB", float64(b.FileSize)/float64(mb))
	case b.FileSize >= kb:
		return fmt.Sprintf("%d KB", b.FileSize/kb)
	default:
		return fmt.Sprintf("%d B", b.FileSize)
	}
}

// ImageItem is a still image
type ImageItem struct {
	Base
	Width   int
	Height  int
	Scanned bool // Page scan of a paper document rather than a photo
}

func (i *ImageItem) ItemID() int64  { return i.ID }
func (i *ImageItem) ItemKind() Kind { return KindImage }
func (i *ImageItem) Common() *Base  { return &i.Base }

func (i *ImageItem) Description() string {
	if i.Width > 0 && i.Height > 0 {
		return fmt.Sprintf("%d×%d", i.Width, i.Height)
	}
	return i.FormattedFileSize()
}

// VideoItem is a video clip
type VideoItem struct {
	Base
	Width    int
	Height   int
	Duration time.Duration
}

func (v *VideoItem) ItemID() int64       { return v.ID }
func (v *VideoItem) ItemKind() Kind      { return KindVideo }
func (v *VideoItem) Common() *Base       { return &v.Base }
func (v *VideoItem) Description() string { return FormatDuration(v.Duration) }

// Resolution returns a human-readable resolution string based on video height
func (v *VideoItem) Resolution() string {
	switch {
	case v.Height >= 2160:
		return "4K"
	case v.Height >= 1080:
		return "1080p"
	case v.Height >= 720:
		return "720p"
	case v.Height >= 480:
		return "480p"
	case v.Height > 0:
		return fmt.Sprintf("%dp", v.Height)
	default:
		return ""
	}
}

// AudioItem is an audio recording
type AudioItem struct {
	Base
	Duration time.Duration
	Bitrate  int // kbps
}

func (a *AudioItem) ItemID() int64       { return a.ID }
func (a *AudioItem) ItemKind() Kind      { return KindAudio }
func (a *AudioItem) Common() *Base       { return &a.Base }
func (a *AudioItem) Description() string { return FormatDuration(a.Duration) }

// DocumentItem is a text or office document
type DocumentItem struct {
	Base
	PageCount int
	MimeType  string
}

func (d *DocumentItem) ItemID() int64  { return d.ID }
func (d *DocumentItem) ItemKind() Kind { return KindDocument }
func (d *DocumentItem) Common() *Base  { return &d.Base }

func (d *DocumentItem) Description() string {
	switch d.PageCount {
	case 0:
		return d.FormattedFileSize()
	case 1:
		return "1 page"
	default:
		return fmt.Sprintf("%d pages", d.PageCount)
	}
}

// UnknownItem is an item whose media type this client does not know. It
// keeps its slot in the page so offsets and global indices stay aligned
// with the server.
type UnknownItem struct {
	Base
	MediaType string // As sent by the server
}

func (u *UnknownItem) ItemID() int64       { return u.ID }
func (u *UnknownItem) ItemKind() Kind      { return Kind(u.MediaType) }
func (u *UnknownItem) Common() *Base       { return &u.Base }
func (u *UnknownItem) Description() string { return u.FormattedFileSize() }

// FormatDuration returns a duration like "1h 4m" or "3m 12s"
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm %ds", mins, secs)
}
