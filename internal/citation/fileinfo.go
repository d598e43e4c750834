package citation

import (
	"strconv"
	"strings"

	"github.com/amital-ui/aichat/internal/model"
)

// FileKind classifies a cited document for viewer selection.
type FileKind int

const (
	KindUnknown FileKind = iota
	KindPDF
	KindWord
	KindExcel
	KindImage
)

func (k FileKind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindWord:
		return "word"
	case KindExcel:
		return "excel"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// KindOf maps a citation's file type to a viewer family. The extension
// comparison is case-insensitive.
func KindOf(c model.Citation) FileKind {
	switch strings.ToLower(c.FileType) {
	case "pdf":
		return KindPDF
	case "doc", "docx":
		return KindWord
	case "xls", "xlsx":
		return KindExcel
	case "png", "jpg", "jpeg", "gif", "bmp", "webp", "svg":
		return KindImage
	default:
		return KindUnknown
	}
}

// StartPage returns the page a viewer should open at, parsed from the
// citation's first location entry. Absent or unparseable locations fall
// back to page 1.
func StartPage(c model.Citation) int {
	if len(c.CitationLocation) == 0 {
		return 1
	}
	page, err := strconv.Atoi(strings.TrimSpace(c.CitationLocation[0]))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
