package sharedalbum

import (
	"fmt"
	"strconv"

	"k8s.io/klog/v2"
)

// Enrich attaches download URLs to every derivative and re-keys derivatives
// by pixel height. Derivatives without a URL are dropped. Images are returned
// in the order the stream listed them.
func Enrich(s *Stream, urls map[string]string) []*Image {
	images := make([]*Image, 0, len(s.PhotoGUIDs))

	for _, guid := range s.PhotoGUIDs {
		img, ok := s.Photos[guid]
		if !ok {
			continue
		}
		img.Derivatives = rekey(img.Derivatives, urls)
		klog.V(1).Infof("%s: %d derivatives with URLs", guid, len(img.Derivatives))
		images = append(images, img)
	}

	return images
}

// rekey returns the derivatives that have a URL, keyed by height. The Nth
// repeat of a height gets the key "{height}-{N}".
func rekey(ds []Derivative, urls map[string]string) []Derivative {
	out := make([]Derivative, 0, len(ds))
	dupes := map[string]int{}

	for _, d := range ds {
		u, ok := urls[d.Checksum]
		if !ok {
			klog.V(1).Infof("no URL for derivative %s (%s), dropping", d.Key, d.Checksum)
			continue
		}

		key := strconv.Itoa(d.Height)
		if n, seen := dupes[key]; seen {
			dupes[key] = n + 1
			key = fmt.Sprintf("%s-%d", key, n+1)
		} else {
			dupes[key] = 0
		}

		d.Key = key
		d.URL = u
		out = append(out, d)
	}

	return out
}
