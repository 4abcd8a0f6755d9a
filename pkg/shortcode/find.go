package shortcode

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/barasher/go-exiftool"
	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// imageExts are the extensions Find considers, compared case-insensitively.
var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// captionFields are the EXIF/IPTC/XMP fields a caption is taken from, in order.
var captionFields = []string{"Headline", "Title", "ImageDescription"}

// FindOptions control how local files become shortcodes.
type FindOptions struct {
	// Width selects width priority thumbnails (standalone photos).
	Width int
	// Height selects height priority thumbnails (gallery tiles).
	Height int
	// Exif, when set, is used to read captions from image metadata.
	Exif *exiftool.Exiftool
	// Captioner, when set, suggests captions for images without one.
	Captioner Captioner
}

// IsImage reports whether name looks like a JPEG or PNG file.
func IsImage(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// Find returns shortcodes for the images directly inside dir, sorted by name.
// A missing dir has no images.
func Find(ctx context.Context, dir string, o FindOptions) ([]Photo, error) {
	if o.Width > 0 && o.Height > 0 {
		return nil, fmt.Errorf("width and height are mutually exclusive")
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		klog.Warningf("%s does not exist", dir)
		return []Photo{}, nil
	}

	des, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	sort.Sort(des)

	ps := []Photo{}
	for _, de := range des {
		name := de.Name()
		if name[0] == '.' || de.IsDir() || !IsImage(name) {
			continue
		}

		path := filepath.Join(dir, name)
		klog.V(1).Infof("found %s", path)

		w, h, err := dimensions(path)
		if err != nil {
			return nil, fmt.Errorf("dimensions of %s: %w", path, err)
		}

		src, err := SourcePath(dir, path)
		if err != nil {
			return nil, err
		}

		caption := ""
		if o.Exif != nil {
			caption = exifCaption(o.Exif, path)
		}
		if caption == "" && o.Captioner != nil {
			caption = suggestCaption(ctx, o.Captioner, path)
		}

		tw, th := Thumb(w, h, o.Width, o.Height)
		ps = append(ps, Photo{
			Src:         src,
			Caption:     caption,
			Width:       w,
			Height:      h,
			ThumbWidth:  tw,
			ThumbHeight: th,
		})
	}

	klog.Infof("found %d images in %s", len(ps), dir)
	return ps, nil
}

func dimensions(path string) (int, int, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("imgio.Open: %w", err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return 0, 0, fmt.Errorf("empty image: %+v", b)
	}
	return b.Dx(), b.Dy(), nil
}

func exifCaption(et *exiftool.Exiftool, path string) string {
	fis := et.ExtractMetadata(path)
	if len(fis) == 0 {
		return ""
	}
	if fis[0].Err != nil {
		klog.Warningf("extract fail for %q: %v", path, fis[0].Err)
		return ""
	}
	return captionFromMetadata(fis[0])
}

func captionFromMetadata(fi exiftool.FileMetadata) string {
	for _, f := range captionFields {
		s, err := fi.GetString(f)
		if err != nil {
			klog.V(2).Infof("no %s in %s: %v", f, fi.File, err)
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
