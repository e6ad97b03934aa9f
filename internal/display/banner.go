package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

const tagline = "compare Sainsbury's, Tesco, Asda and Waitrose, then order"

// RenderBanner returns the banner and tagline centred for the current
// terminal width.
func RenderBanner() string {
	return renderBanner(termWidth())
}

func renderBanner(width int) string {
	lines := strings.Split(strings.TrimRight(bannerRaw, "\n"), "\n")

	artW := 0
	for _, l := range lines {
		artW = max(artW, len(l))
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(centre(width, artW))
		b.WriteString(BannerStyle.Render(l))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(centre(width, len(tagline)))
	b.WriteString(secondaryStyle.Render(tagline))
	b.WriteByte('\n')
	return b.String()
}

// centre returns the left padding that centres w columns in width.
func centre(width, w int) string {
	if width <= w {
		return ""
	}
	return strings.Repeat(" ", (width-w)/2)
}

// termWidth returns the terminal column count, or 80.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
