package sharedalbum

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"k8s.io/klog/v2"
)

// ParseStream parses a webstream response body.
func ParseStream(r io.Reader) (*Stream, error) {
	var raw rawStream
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &ParseError{What: "webstream", Err: err}
	}
	if raw.Photos == nil {
		return nil, &ParseError{What: "webstream", Err: fmt.Errorf("missing photos")}
	}
	photos := *raw.Photos

	s := &Stream{
		Photos:     make(map[string]*Image, len(photos)),
		PhotoGUIDs: make([]string, 0, len(photos)),
		Metadata: Metadata{
			StreamName:    raw.StreamName,
			UserFirstName: raw.UserFirstName,
			UserLastName:  raw.UserLastName,
			StreamCtag:    raw.StreamCtag,
			ItemsReturned: int(raw.ItemsReturned),
			Locations:     raw.Locations,
		},
	}

	for _, p := range photos {
		if p.PhotoGUID == "" {
			return nil, &ParseError{What: "webstream", Err: fmt.Errorf("photo without photoGuid")}
		}
		if _, ok := s.Photos[p.PhotoGUID]; !ok {
			s.PhotoGUIDs = append(s.PhotoGUIDs, p.PhotoGUID)
		}
		s.Photos[p.PhotoGUID] = &Image{
			BatchGUID:            p.BatchGUID,
			PhotoGUID:            p.PhotoGUID,
			Caption:              p.Caption,
			Width:                int(p.Width),
			Height:               int(p.Height),
			ContributorFirstName: p.ContributorFirstName,
			ContributorLastName:  p.ContributorLastName,
			ContributorFullName:  p.ContributorFullName,
			BatchDateCreated:     p.BatchDateCreated,
			DateCreated:          p.DateCreated,
			MediaAssetType:       p.MediaAssetType,
			Derivatives:          []Derivative(p.Derivatives),
		}
	}

	return s, nil
}

type assetURLs struct {
	Items map[string]struct {
		URLLocation string `json:"url_location"`
		URLPath     string `json:"url_path"`
	} `json:"items"`
}

// ParseAssetURLs parses a webasseturls response body into checksum -> URL.
func ParseAssetURLs(r io.Reader) (map[string]string, error) {
	var resp assetURLs
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, &ParseError{What: "webasseturls", Err: err}
	}
	if resp.Items == nil {
		return nil, &ParseError{What: "webasseturls", Err: fmt.Errorf("missing items")}
	}

	urls := make(map[string]string, len(resp.Items))
	for checksum, item := range resp.Items {
		if item.URLLocation == "" {
			klog.V(1).Infof("no url_location for %s, ignoring", checksum)
			continue
		}
		urls[checksum] = "https://" + item.URLLocation + item.URLPath
	}
	return urls, nil
}

// objectKeys returns the top-level keys of a JSON object in document order.
func objectKeys(b []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := t.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", t)
	}

	keys := []string{}
	for dec.More() {
		t, err := dec.Token()
		if err != nil {
			return nil, err
		}
		k, ok := t.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", t)
		}
		keys = append(keys, k)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
