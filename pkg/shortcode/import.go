package shortcode

import (
	"context"
	"errors"
	"fmt"

	"github.com/tstromberg/albumcodes/pkg/sharedalbum"
	"k8s.io/klog/v2"
)

// DefaultDir is where imported albums go in a Hugo site.
const DefaultDir = "assets/photo"

// Fetcher stores the contents of a URL at a path.
type Fetcher interface {
	Download(ctx context.Context, url string, path string) (bool, error)
}

// ImportOptions control how an album is imported.
type ImportOptions struct {
	// Dir is the target directory; photos are saved to Dir/{token}/.
	Dir string
	// Width forces the thumbnail width; the height follows the aspect ratio.
	Width int
}

// Import downloads the original of every usable photo in an album and
// returns their shortcodes in album order. Photos without a usable original
// are skipped with a warning. Any download failure aborts the import.
func Import(ctx context.Context, a *sharedalbum.Album, o ImportOptions, f Fetcher, cp Captioner) ([]Photo, error) {
	dir := o.Dir
	if dir == "" {
		dir = DefaultDir
	}

	ps := []Photo{}
	for _, img := range a.Images {
		sp, err := sharedalbum.Select(img)
		if errors.Is(err, sharedalbum.ErrSkipPhoto) {
			klog.Warningf("%v", err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("select: %w", err)
		}

		path := DownloadPath(dir, a.Token, sp.URL, sp.Checksum)
		if _, err := f.Download(ctx, sp.URL, path); err != nil {
			return nil, fmt.Errorf("download %s: %w", img.PhotoGUID, err)
		}

		src, err := SourcePath(dir, path)
		if err != nil {
			return nil, err
		}

		caption := sp.Caption
		if caption == "" && cp != nil {
			caption = suggestCaption(ctx, cp, path)
		}

		tw, th := Thumb(sp.Width, sp.Height, o.Width, 0)
		ps = append(ps, Photo{
			Src:         src,
			Caption:     caption,
			Width:       sp.Width,
			Height:      sp.Height,
			ThumbWidth:  tw,
			ThumbHeight: th,
		})
	}

	klog.Infof("imported %d of %d photos from %q", len(ps), len(a.Images), a.Metadata.StreamName)
	return ps, nil
}
