// Package shortcode turns photos into Hugo photo shortcodes.
package shortcode

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Photo is everything a photo shortcode needs.
type Photo struct {
	Src         string
	Caption     string
	Width       int
	Height      int
	ThumbWidth  int
	ThumbHeight int
}

// String renders the shortcode.
func (p Photo) String() string {
	return fmt.Sprintf(`{{<photo src="%s" caption="%s" width="%d" height="%d" src-width="%d" src-height="%d" >}}`,
		p.Src, escape(p.Caption), p.ThumbWidth, p.ThumbHeight, p.Width, p.Height)
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, "&quot;")
}

// Render writes shortcodes separated by blank lines.
func Render(w io.Writer, ps []Photo) error {
	ss := make([]string, 0, len(ps))
	for _, p := range ps {
		ss = append(ss, p.String())
	}
	_, err := fmt.Fprintln(w, strings.Join(ss, "\n\n"))
	return err
}

// ScaleToWidth returns the height that keeps the aspect ratio at width.
func ScaleToWidth(width int, srcW int, srcH int) int {
	if srcW == 0 {
		return 0
	}
	return width * srcH / srcW
}

// ScaleToHeight returns the width that keeps the aspect ratio at height.
func ScaleToHeight(height int, srcW int, srcH int) int {
	if srcH == 0 {
		return 0
	}
	return height * srcW / srcH
}

// Thumb returns thumbnail dimensions: width priority if width is set, height
// priority if height is set, otherwise the source size.
func Thumb(srcW int, srcH int, width int, height int) (int, int) {
	switch {
	case width > 0:
		return width, ScaleToWidth(width, srcW, srcH)
	case height > 0:
		return ScaleToHeight(height, srcW, srcH), height
	}
	return srcW, srcH
}

// SourcePath returns path relative to the parent of root, with forward slashes.
// For root "assets/photo" the Hugo asset "assets/photo/x/y.jpg" becomes "photo/x/y.jpg".
// Relative paths are resolved first, so root "." names the working directory.
func SourcePath(root string, path string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("abs: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("abs: %w", err)
	}

	rel, err := filepath.Rel(filepath.Dir(absRoot), absPath)
	if err != nil {
		return "", fmt.Errorf("rel: %w", err)
	}
	return filepath.ToSlash(rel), nil
}
