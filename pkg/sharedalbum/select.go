package sharedalbum

// Original returns the first derivative whose height matches the image.
func (i *Image) Original() (Derivative, bool) {
	for _, d := range i.Derivatives {
		if d.Height == i.Height {
			return d, true
		}
	}
	return Derivative{}, false
}

// Smallest returns the lowest derivative, preferring the first on ties.
func (i *Image) Smallest() (Derivative, bool) {
	if len(i.Derivatives) == 0 {
		return Derivative{}, false
	}

	s := i.Derivatives[0]
	for _, d := range i.Derivatives[1:] {
		if d.Height < s.Height {
			s = d
		}
	}
	return s, true
}

// Select picks the original and thumbnail derivatives of an enriched image.
func Select(i *Image) (*Photo, error) {
	if len(i.Derivatives) == 0 {
		return nil, &SkipError{PhotoGUID: i.PhotoGUID, Reason: "no derivatives with URLs"}
	}

	o, ok := i.Original()
	if !ok {
		return nil, &SkipError{PhotoGUID: i.PhotoGUID, Reason: "no derivative matches the declared height"}
	}
	t, _ := i.Smallest()

	return &Photo{
		Checksum:    o.Checksum,
		URL:         o.URL,
		Width:       o.Width,
		Height:      o.Height,
		ThumbURL:    t.URL,
		ThumbWidth:  t.Width,
		ThumbHeight: t.Height,
		Author:      i.ContributorFullName,
		Caption:     i.Caption,
	}, nil
}
