package db

import (
	"time"
)

type PageType string

const (
	PageTypeTodo     PageType = "todo"
	PageTypeCalendar PageType = "calendar"
	PageTypeKanban   PageType = "kanban"
	PageTypeNotes    PageType = "notes"
)

func (t PageType) IsValid() bool {
	switch t {
	case PageTypeTodo, PageTypeCalendar, PageTypeKanban, PageTypeNotes:
		return true
	default:
		return false
	}
}

type Page struct {
	ID      int         `db:"id" json:"id"`
	OwnerID int         `db:"owner_id" json:"owner_id"`
	Name    string      `db:"name" json:"name"`
	Type    PageType    `db:"type" json:"type"`
	Icon    string      `db:"icon" json:"icon,omitempty"`
	Color   string      `db:"color" json:"color,omitempty"`
	Content PageContent `db:"-" json:"content"`
	// ContentJSON carries the serialized content for the sql backend.
	ContentJSON string    `db:"content" json:"-"`
	Created     time.Time `db:"created" json:"created"`
}

func (p *Page) Validate() error {
	if p.Name == "" {
		return &ValidationError{"name can not be empty"}
	}
	if !p.Type.IsValid() {
		return &ValidationError{"invalid page type"}
	}
	return nil
}

// PageSummary is the projection of a page embedded into invite payloads.
type PageSummary struct {
	ID   int      `json:"id"`
	Name string   `json:"name"`
	Type PageType `json:"type"`
}

func (p *Page) Summary() PageSummary {
	return PageSummary{
		ID:   p.ID,
		Name: p.Name,
		Type: p.Type,
	}
}
