package sharedalbum

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Derivative is one rendition of a photo, identified by its checksum.
type Derivative struct {
	// Key is the size key: opaque from the API, the pixel height after Enrich.
	Key      string
	Checksum string
	FileSize int64
	Width    int
	Height   int
	URL      string
}

// Image is a photo record as returned by the webstream endpoint.
type Image struct {
	BatchGUID            string
	PhotoGUID            string
	Caption              string
	Width                int
	Height               int
	ContributorFirstName string
	ContributorLastName  string
	ContributorFullName  string
	BatchDateCreated     string
	DateCreated          string
	MediaAssetType       string

	// Derivatives are kept in the order the service listed them.
	Derivatives []Derivative
}

// Metadata describes the album itself.
type Metadata struct {
	StreamName    string
	UserFirstName string
	UserLastName  string
	StreamCtag    string
	ItemsReturned int
	Locations     json.RawMessage
}

// Stream is the parsed webstream response.
type Stream struct {
	Photos     map[string]*Image
	PhotoGUIDs []string
	Metadata   Metadata
}

// Album is a fully resolved shared album.
type Album struct {
	Token    string
	Metadata Metadata
	Images   []*Image
}

// Photo is the original and thumbnail pick for a single image.
type Photo struct {
	Checksum    string
	URL         string
	Width       int
	Height      int
	ThumbURL    string
	ThumbWidth  int
	ThumbHeight int
	Author      string
	Caption     string
}

// number accepts both JSON numbers and decimal strings, which is how the
// service encodes most of its integers.
type number int64

func (n *number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = 0
		return nil
	}

	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s", b)
	}
	*n = number(v)
	return nil
}

type rawStream struct {
	Photos        *[]rawImage     `json:"photos"`
	StreamName    string          `json:"streamName"`
	UserFirstName string          `json:"userFirstName"`
	UserLastName  string          `json:"userLastName"`
	StreamCtag    string          `json:"streamCtag"`
	ItemsReturned number          `json:"itemsReturned"`
	Locations     json.RawMessage `json:"locations"`
}

type rawImage struct {
	BatchGUID            string         `json:"batchGuid"`
	Derivatives          rawDerivatives `json:"derivatives"`
	ContributorLastName  string         `json:"contributorLastName"`
	BatchDateCreated     string         `json:"batchDateCreated"`
	DateCreated          string         `json:"dateCreated"`
	ContributorFirstName string         `json:"contributorFirstName"`
	PhotoGUID            string         `json:"photoGuid"`
	ContributorFullName  string         `json:"contributorFullName"`
	Caption              string         `json:"caption"`
	Height               number         `json:"height"`
	Width                number         `json:"width"`
	MediaAssetType       string         `json:"mediaAssetType"`
}

type rawDerivative struct {
	Checksum string `json:"checksum"`
	FileSize number `json:"fileSize"`
	Width    number `json:"width"`
	Height   number `json:"height"`
	URL      string `json:"url"`
}

// rawDerivatives decodes the derivatives object while keeping key order.
type rawDerivatives []Derivative

func (ds *rawDerivatives) UnmarshalJSON(b []byte) error {
	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(b, &keyed); err != nil {
		return err
	}
	if keyed == nil {
		*ds = nil
		return nil
	}

	keys, err := objectKeys(b)
	if err != nil {
		return err
	}

	out := make(rawDerivatives, 0, len(keys))
	seen := map[string]bool{}
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true

		var rd rawDerivative
		if err := json.Unmarshal(keyed[k], &rd); err != nil {
			return fmt.Errorf("derivative %q: %w", k, err)
		}
		out = append(out, Derivative{
			Key:      k,
			Checksum: rd.Checksum,
			FileSize: int64(rd.FileSize),
			Width:    int(rd.Width),
			Height:   int(rd.Height),
			URL:      rd.URL,
		})
	}

	*ds = out
	return nil
}
