package shortcode

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/barasher/go-exiftool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, path string, w int, h int, enc imgio.Encoder) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	require.NoError(t, imgio.Save(path, img, enc))
}

func TestFind(t *testing.T) {
	root := filepath.Join(t.TempDir(), "gallery")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))

	writeImage(t, filepath.Join(root, "b.PNG"), 40, 20, imgio.PNGEncoder())
	writeImage(t, filepath.Join(root, "a.jpg"), 30, 60, imgio.JPEGEncoder(80))
	writeImage(t, filepath.Join(root, "c.jpeg"), 100, 100, imgio.JPEGEncoder(80))
	writeImage(t, filepath.Join(root, ".hidden.jpg"), 10, 10, imgio.JPEGEncoder(80))
	writeImage(t, filepath.Join(root, "sub", "nested.jpg"), 10, 10, imgio.JPEGEncoder(80))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "jpg"), []byte("x"), 0o644))

	ps, err := Find(context.Background(), root, FindOptions{Height: 30})
	require.NoError(t, err)

	assert.Equal(t, []Photo{
		{Src: "gallery/a.jpg", Width: 30, Height: 60, ThumbWidth: 15, ThumbHeight: 30},
		{Src: "gallery/b.PNG", Width: 40, Height: 20, ThumbWidth: 60, ThumbHeight: 30},
		{Src: "gallery/c.jpeg", Width: 100, Height: 100, ThumbWidth: 30, ThumbHeight: 30},
	}, ps)

	ps, err = Find(context.Background(), root, FindOptions{Width: 20})
	require.NoError(t, err)
	require.Len(t, ps, 3)
	assert.Equal(t, 20, ps[1].ThumbWidth)
	assert.Equal(t, 10, ps[1].ThumbHeight)
}

func TestFindCaptioner(t *testing.T) {
	root := t.TempDir()
	writeImage(t, filepath.Join(root, "a.jpg"), 10, 10, imgio.JPEGEncoder(80))
	writeImage(t, filepath.Join(root, "b.jpg"), 10, 10, imgio.JPEGEncoder(80))

	ps, err := Find(context.Background(), root, FindOptions{Captioner: fakeCaptioner{"a.jpg": "Sunset"}})
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "Sunset", ps[0].Caption)
	assert.Equal(t, "", ps[1].Caption)
}

func TestFindMissingDir(t *testing.T) {
	ps, err := Find(context.Background(), filepath.Join(t.TempDir(), "nope"), FindOptions{})
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestFindExclusiveSizes(t *testing.T) {
	_, err := Find(context.Background(), t.TempDir(), FindOptions{Width: 1, Height: 1})
	assert.Error(t, err)
}

func TestFindCorruptImage(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.jpg"), []byte("not a jpeg"), 0o644))
	_, err := Find(context.Background(), root, FindOptions{})
	assert.ErrorContains(t, err, "bad.jpg")
}

func TestIsImage(t *testing.T) {
	for name, want := range map[string]bool{
		"a.jpg": true, "a.JPEG": true, "a.Png": true,
		"a.gif": false, "jpg": false, "a.jpg.txt": false,
	} {
		assert.Equal(t, want, IsImage(name), name)
	}
}

func TestCaptionFromMetadata(t *testing.T) {
	fi := exiftool.FileMetadata{File: "x.jpg", Fields: map[string]interface{}{
		"Title":            "  ",
		"ImageDescription": "Harbor at dawn",
	}}
	assert.Equal(t, "Harbor at dawn", captionFromMetadata(fi))

	fi.Fields["Headline"] = "Headline wins"
	assert.Equal(t, "Headline wins", captionFromMetadata(fi))

	assert.Equal(t, "", captionFromMetadata(exiftool.FileMetadata{Fields: map[string]interface{}{}}))
}
