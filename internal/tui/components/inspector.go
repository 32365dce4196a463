package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/pager"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/tui/styles"
)

// Inspector displays detailed metadata for the selected item
type Inspector struct {
	entry      pager.Entry
	hasEntry   bool
	bookmarked bool
	pageSize   int
	width      int
	height     int
}

// NewInspector creates a new inspector component
func NewInspector(pageSize int) Inspector {
	return Inspector{pageSize: pageSize}
}

// SetEntry sets the entry to display
func (i *Inspector) SetEntry(entry pager.Entry, bookmarked bool) {
	i.entry = entry
	i.hasEntry = true
	i.bookmarked = bookmarked
}

// Clear shows the empty state
func (i *Inspector) Clear() {
	i.entry = pager.Entry{}
	i.hasEntry = false
	i.bookmarked = false
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
}

// HasItem returns true if there is an item to display
func (i Inspector) HasItem() bool {
	return i.hasEntry
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder

	// Border takes 2 chars (1 each side), leave 1 char safety margin
	contentWidth := max(i.width-3, 10)

	titleLine := styles.AccentStyle.Render(styles.Truncate("Info", contentWidth))

	var body string
	if i.hasEntry {
		body = i.renderEntry(contentWidth)
	} else {
		body = styles.DimStyle.Render("No item selected")
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(i.width - frameW).
		Height(i.height - frameH).
		MaxHeight(i.height).
		Render(titleLine + "\n\n" + body)
}

func (i Inspector) renderEntry(width int) string {
	item := i.entry.Item
	base := item.Common()

	var b strings.Builder

	name := base.FileName
	if name == "" {
		name = fmt.Sprintf("Item %d", base.ID)
	}
	b.WriteString(styles.TitleStyle.Render(styles.Truncate(name, width)))
	b.WriteString("\n")

	kindStyle := lipgloss.NewStyle().Foreground(styles.KindColor(string(item.ItemKind())))
	meta := []string{kindStyle.Render(item.ItemKind().Label())}
	if i.bookmarked {
		meta = append(meta, styles.BookmarkMark+" bookmarked")
	}
	b.WriteString(strings.Join(meta, styles.DimStyle.Render(" · ")))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"ID", fmt.Sprintf("%d", base.ID)},
		{"Position", fmt.Sprintf("#%d", i.entry.GlobalIndex)},
		{"Page", fmt.Sprintf("%d, offset %d", i.entry.PageIndex+1, i.entry.Offset)},
	}
	rows = append(rows, kindRows(item)...)
	if size := base.FormattedFileSize(); size != "" {
		rows = append(rows, [2]string{"Size", size})
	}
	if !base.AddedAt.IsZero() {
		rows = append(rows, [2]string{"Added", base.AddedAt.Format("2006-01-02 15:04")})
	}

	for _, row := range rows {
		b.WriteString(renderField(row[0], row[1], width))
		b.WriteString("\n")
	}

	if base.FilePath != "" {
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(strings.Repeat("─", width)))
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(wordWrap(base.FilePath, width)))
	}

	return strings.TrimRight(b.String(), "\n")
}

// kindRows returns the fields specific to the item's kind
func kindRows(item domain.Item) [][2]string {
	var rows [][2]string
	switch v := item.(type) {
	case *domain.ImageItem:
		if v.Width > 0 && v.Height > 0 {
			rows = append(rows, [2]string{"Dimensions", fmt.Sprintf("%d×%d", v.Width, v.Height)})
		}
		if v.Scanned {
			rows = append(rows, [2]string{"Source", "scanned document"})
		}
	case *domain.VideoItem:
		if d := domain.FormatDuration(v.Duration); d != "" {
			rows = append(rows, [2]string{"Duration", d})
		}
		if r := v.Resolution(); r != "" {
			rows = append(rows, [2]string{"Resolution", r})
		}
	case *domain.AudioItem:
		if d := domain.FormatDuration(v.Duration); d != "" {
			rows = append(rows, [2]string{"Duration", d})
		}
		if v.Bitrate > 0 {
			rows = append(rows, [2]string{"Bitrate", fmt.Sprintf("%d kbps", v.Bitrate)})
		}
	case *domain.DocumentItem:
		if v.PageCount > 0 {
			rows = append(rows, [2]string{"Pages", fmt.Sprintf("%d", v.PageCount)})
		}
		if v.MimeType != "" {
			rows = append(rows, [2]string{"Type", v.MimeType})
		}
	case *domain.UnknownItem:
		if v.MediaType != "" {
			rows = append(rows, [2]string{"Type", v.MediaType})
		}
	}
	return rows
}

func renderField(label, value string, width int) string {
	const labelWidth = 11
	return styles.DimStyle.Render(styles.Pad(label, labelWidth)) +
		styles.SubtitleStyle.Render(styles.Truncate(value, width-labelWidth))
}

// wordWrap breaks s into lines of at most width, splitting on path
// separators and spaces where possible
func wordWrap(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}

	var lines []string
	for len(s) > width {
		cut := strings.LastIndexAny(s[:width], "/ ")
		if cut <= 0 {
			cut = width
		} else {
			cut++
		}
		lines = append(lines, s[:cut])
		s = s[cut:]
	}
	if s != "" {
		lines = append(lines, s)
	}
	return strings.Join(lines, "\n")
}
