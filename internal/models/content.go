package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Post : article de blog éditorial (contenu géré en externe, lecture seule ici)
type Post struct {
	ID            gocql.UUID `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt,omitempty"`
	CoverImageURL string     `json:"cover_image_url,omitempty"`
	Content       []string   `json:"content"` // blocs de contenu riche, dans l'ordre
	PublishedAt   *time.Time `json:"published_at,omitempty"`
}

// Form : formulaire dynamique déclaré côté contenu
type Form struct {
	ID     gocql.UUID  `json:"id"`
	Title  string      `json:"title"`
	Slug   string      `json:"slug"`
	Fields []FormField `json:"fields"`
}

type FormField struct {
	Label    string   `json:"label"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}
