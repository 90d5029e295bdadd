package models

import "encoding/json"

// Photo is a manifest entry written by the folder scan. An entry decoded
// from an existing manifest remembers its JSON object, so keys added by
// hand are written back untouched as long as Src and Alt are unchanged.
type Photo struct {
	Src string `json:"src"`
	Alt string `json:"alt"`

	raw string
}

type photoFields struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// UnmarshalJSON decodes src and alt and keeps the whole object
func (p *Photo) UnmarshalJSON(data []byte) error {
	var fields photoFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	p.Src, p.Alt = fields.Src, fields.Alt
	p.raw = string(data)
	return nil
}

// MarshalJSON emits the remembered object when the entry was not modified
func (p Photo) MarshalJSON() ([]byte, error) {
	if p.raw != "" {
		var orig photoFields
		if err := json.Unmarshal([]byte(p.raw), &orig); err == nil && orig.Src == p.Src && orig.Alt == p.Alt {
			return []byte(p.raw), nil
		}
	}
	return json.Marshal(photoFields{Src: p.Src, Alt: p.Alt})
}

// Derivative is a manifest entry written by derivative generation. Src points
// at the optimized (lightbox) image.
type Derivative struct {
	Src   string `json:"src"`
	Thumb string `json:"thumb"`
}

// GalleryItem decodes an entry of either manifest variant
type GalleryItem struct {
	Src   string `json:"src"`
	Alt   string `json:"alt,omitempty"`
	Thumb string `json:"thumb,omitempty"`
}

// Index represents the preview page data
type Index struct {
	Title string
	Items []GalleryItem
}
