// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Section names one top-level group of a WeddingDocument. The string value
// is the JSON key used on the wire and in the overlay.
type Section string

const (
	SectionCouple         Section = "couple"
	SectionStory          Section = "story"
	SectionWeddingDetails Section = "weddingDetails"
	SectionSchedule       Section = "schedule"
	SectionGallery        Section = "gallery"
	SectionMoreInfo       Section = "moreInfo"
	SectionContact        Section = "contact"
	SectionJeweller       Section = "jeweller"
	SectionColorScheme    Section = "colorScheme"
	SectionFontFamily     Section = "fontFamily"
	SectionTemplateID     Section = "template_id"
)

// Couple holds the names and portrait shown at the top of the website.
type Couple struct {
	BrideName    string `json:"brideName"`
	GroomName    string `json:"groomName"`
	WeddingQuote string `json:"weddingQuote"`
	Image        string `json:"image"`
}

// Story is the couple's narrative. Content is Markdown.
type Story struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Image    string `json:"image"`
	Disabled bool   `json:"disabled"`
}

// Event is one ceremony or reception sub-record.
type Event struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Venue   string `json:"venue"`
	Address string `json:"address"`
	MapLink string `json:"mapLink"`
}

// WeddingDetails groups the two events and the "good to know" blurbs.
type WeddingDetails struct {
	Ceremony    Event  `json:"ceremony"`
	Reception   Event  `json:"reception"`
	GoodToKnow1 string `json:"goodToKnow1"`
	GoodToKnow2 string `json:"goodToKnow2"`
	GoodToKnow3 string `json:"goodToKnow3"`
	Disabled    bool   `json:"disabled"`
}

// ScheduleItem is one timed agenda entry.
type ScheduleItem struct {
	ID          string `json:"id"`
	Time        string `json:"time"`
	Event       string `json:"event"`
	Description string `json:"description"`
}

// GalleryImage is one image slot in the gallery.
type GalleryImage struct {
	ID           string  `json:"id"`
	URL          string  `json:"url"`
	Caption      *string `json:"caption,omitempty"`
	OriginalName *string `json:"originalName,omitempty"`
}

// MoreInfo is a free-form extra section.
type MoreInfo struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Disabled bool   `json:"disabled"`
}

// Contact holds how guests reach the couple or planner.
type Contact struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	MapLink  string `json:"mapLink"`
	Disabled bool   `json:"disabled"`
}

// Jeweller is the sponsor/vendor promo block.
type Jeweller struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Link        string `json:"link"`
	Disabled    bool   `json:"disabled"`
}

// WeddingDocument is the structured content of one couple's wedding
// website. Its JSON shape is the persisted wire format.
type WeddingDocument struct {
	Couple         Couple         `json:"couple"`
	Story          Story          `json:"story"`
	WeddingDetails WeddingDetails `json:"weddingDetails"`
	Schedule       []ScheduleItem `json:"schedule"`
	Gallery        []GalleryImage `json:"gallery"`
	MoreInfo       MoreInfo       `json:"moreInfo"`
	Contact        Contact        `json:"contact"`
	Jeweller       Jeweller       `json:"jeweller"`
	ColorScheme    string         `json:"colorScheme"`
	FontFamily     string         `json:"fontFamily"`
	TemplateID     string         `json:"template_id,omitempty"`
}

// NewDocument returns the starting document of a newly registered couple.
func NewDocument(bride, groom, email, phone string, template TemplateKey) WeddingDocument {
	return WeddingDocument{
		Couple:     Couple{BrideName: bride, GroomName: groom},
		Story:      Story{Title: "Our story"},
		Contact:    Contact{Email: email, Phone: phone},
		Schedule:   []ScheduleItem{},
		Gallery:    []GalleryImage{},
		TemplateID: string(template),
	}
}

// Template returns the document's template key, falling back to the
// default when none is set.
func (d *WeddingDocument) Template() TemplateKey {
	if d.TemplateID == "" {
		return DefaultTemplateKey
	}
	return TemplateKey(d.TemplateID)
}

// Validate checks the document invariants: item ids are present and unique
// within the schedule and within the gallery, and template_id names a
// registered template or is empty.
func (d *WeddingDocument) Validate() error {
	seen := make(map[string]bool, len(d.Schedule))
	for _, item := range d.Schedule {
		if item.ID == "" {
			return fmt.Errorf("schedule item without id")
		}
		if seen[item.ID] {
			return fmt.Errorf("duplicate schedule item id %q", item.ID)
		}
		seen[item.ID] = true
	}

	seen = make(map[string]bool, len(d.Gallery))
	for _, img := range d.Gallery {
		if img.ID == "" {
			return fmt.Errorf("gallery image without id")
		}
		if seen[img.ID] {
			return fmt.Errorf("duplicate gallery image id %q", img.ID)
		}
		seen[img.ID] = true
	}

	if d.TemplateID != "" {
		if _, err := ParseTemplateKey(d.TemplateID); err != nil {
			return err
		}
	}
	return nil
}

// Wedding is one persisted wedding record: the document plus the metadata
// that addresses and versions it.
type Wedding struct {
	ID        uuid.UUID       `json:"id"`
	PartnerID uuid.UUID       `json:"partner_id"`
	Slug      string          `json:"slug"`
	Version   int             `json:"version"`
	Document  WeddingDocument `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Clone returns a deep copy so callers can mutate the result freely.
func (w *Wedding) Clone() *Wedding {
	c := *w
	c.Document.Schedule = append([]ScheduleItem(nil), w.Document.Schedule...)
	c.Document.Gallery = make([]GalleryImage, len(w.Document.Gallery))
	for i, img := range w.Document.Gallery {
		c.Document.Gallery[i] = img
		if img.Caption != nil {
			caption := *img.Caption
			c.Document.Gallery[i].Caption = &caption
		}
		if img.OriginalName != nil {
			name := *img.OriginalName
			c.Document.Gallery[i].OriginalName = &name
		}
	}
	if w.Document.Gallery == nil {
		c.Document.Gallery = nil
	}
	return &c
}

// DisplayName returns "Bride & Groom" for listings and page titles.
func (w *Wedding) DisplayName() string {
	c := w.Document.Couple
	switch {
	case c.BrideName != "" && c.GroomName != "":
		return c.BrideName + " & " + c.GroomName
	case c.BrideName != "":
		return c.BrideName
	default:
		return c.GroomName
	}
}
