package content

import (
	"time"

	"github.com/google/uuid"
)

// Record is implemented by every raw, cleaned and embedded value. The set of
// implementations is closed to this package.
type Record interface {
	RecordID() uuid.UUID
	Category() Category
	record()
}

// Base carries the identifier shared by every record kind.
type Base struct {
	ID uuid.UUID `json:"id"`
}

// NewBase assigns a fresh identifier. Identifiers are never reassigned.
func NewBase() Base {
	return Base{ID: uuid.New()}
}

func (b Base) RecordID() uuid.UUID { return b.ID }

func (Base) record() {}

// Same reports whether two records share an identifier.
func Same(a, b Record) bool {
	if a == nil || b == nil {
		return false
	}
	return a.RecordID() == b.RecordID()
}

// Gallery is a venue hosting exhibitions.
type Gallery struct {
	Base
	Name            string  `json:"name"`
	NameJapanese    string  `json:"name_japanese"`
	NameEnglish     string  `json:"name_english"`
	Description     string  `json:"description"`
	AddressJapanese string  `json:"address_japanese"`
	AddressEnglish  string  `json:"address_english"`
	Area            string  `json:"area"`
	ImageURL        string  `json:"gallery_image_url"`
	Website         string  `json:"website"`
	Hours           string  `json:"hours"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	PhoneNumber     string  `json:"phone_number"`
}

func (Gallery) Category() Category { return CategoryGallery }

// Exhibition is a time-bounded show at a Gallery. GalleryID references the
// gallery without owning it.
type Exhibition struct {
	Base
	Name                string    `json:"name"`
	NameJapanese        string    `json:"name_japanese"`
	NameEnglish         string    `json:"name_english"`
	Area                string    `json:"area"`
	Description         string    `json:"description"`
	DescriptionJapanese string    `json:"description_japanese"`
	DescriptionEnglish  string    `json:"description_english"`
	Artist              string    `json:"artist"`
	ImageURL            string    `json:"exhibition_image_url"`
	StartDate           time.Time `json:"exhibition_start_date"`
	EndDate             time.Time `json:"exhibition_end_date"`
	StartDateTS         float64   `json:"exhibition_start_date_ts"`
	EndDateTS           float64   `json:"exhibition_end_date_ts"`
	GalleryID           uuid.UUID `json:"gallery_id"`
	Latitude            float64   `json:"latitude"`
	Longitude           float64   `json:"longitude"`
}

func (Exhibition) Category() Category { return CategoryExhibition }

// User is a registered visitor profile.
type User struct {
	Base
	Name    string `json:"name"`
	Content string `json:"content"`
}

func (User) Category() Category { return CategoryUser }

// Prompt is a stored prompt text.
type Prompt struct {
	Base
	Name    string `json:"name"`
	Content string `json:"content"`
}

func (Prompt) Category() Category { return CategoryPrompt }

// Reflection is a visitor's written reflection on a visit.
type Reflection struct {
	Base
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	ReflectionDate *time.Time `json:"reflection_date,omitempty"`
}

func (Reflection) Category() Category { return CategoryReflection }
