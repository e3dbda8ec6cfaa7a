package db

import (
	"time"
)

// PageContent holds the typed content of a page. Exactly one of the
// variant slices is used, selected by the page type. All content
// mutations go through the explicit per-variant functions below so
// that a todo page can never grow kanban columns.

type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	DueDate   string    `json:"dueDate,omitempty"`
	Priority  string    `json:"priority,omitempty"`
	Created   time.Time `json:"createdAt"`
}

type Event struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Date    string    `json:"date"`
	Start   string    `json:"start,omitempty"`
	End     string    `json:"end,omitempty"`
	Color   string    `json:"color,omitempty"`
	Created time.Time `json:"createdAt"`
}

type Card struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Created     time.Time `json:"createdAt"`
}

type Column struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
	Status string `json:"status,omitempty"`
	Cards  []Card `json:"cards"`
}

type Note struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Category string    `json:"category,omitempty"`
	Created  time.Time `json:"createdAt"`
	Updated  time.Time `json:"updatedAt"`
}

type PageContent struct {
	Tasks   []Task   `json:"tasks,omitempty"`
	Events  []Event  `json:"events,omitempty"`
	Columns []Column `json:"columns,omitempty"`
	Notes   []Note   `json:"notes,omitempty"`
}

func (c *PageContent) AddTask(task Task) {
	c.Tasks = append(c.Tasks, task)
}

func (c *PageContent) AddEvent(event Event) {
	c.Events = append(c.Events, event)
}

func (c *PageContent) AddColumn(column Column) {
	if column.Cards == nil {
		column.Cards = []Card{}
	}
	c.Columns = append(c.Columns, column)
}

func (c *PageContent) AddNote(note Note) {
	c.Notes = append(c.Notes, note)
}

// RemoveItem deletes the item with the given id from the variant used
// by the page type. It reports whether anything was removed.
func (c *PageContent) RemoveItem(pageType PageType, itemID string) bool {
	switch pageType {
	case PageTypeTodo:
		for i, t := range c.Tasks {
			if t.ID == itemID {
				c.Tasks = append(c.Tasks[:i], c.Tasks[i+1:]...)
				return true
			}
		}
	case PageTypeCalendar:
		for i, e := range c.Events {
			if e.ID == itemID {
				c.Events = append(c.Events[:i], c.Events[i+1:]...)
				return true
			}
		}
	case PageTypeKanban:
		for i, col := range c.Columns {
			if col.ID == itemID {
				c.Columns = append(c.Columns[:i], c.Columns[i+1:]...)
				return true
			}
		}
	case PageTypeNotes:
		for i, n := range c.Notes {
			if n.ID == itemID {
				c.Notes = append(c.Notes[:i], c.Notes[i+1:]...)
				return true
			}
		}
	}
	return false
}

type TaskPatch struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
	DueDate   *string `json:"dueDate"`
	Priority  *string `json:"priority"`
}

func (c *PageContent) PatchTask(itemID string, patch TaskPatch) bool {
	for i := range c.Tasks {
		if c.Tasks[i].ID != itemID {
			continue
		}
		if patch.Title != nil {
			c.Tasks[i].Title = *patch.Title
		}
		if patch.Completed != nil {
			c.Tasks[i].Completed = *patch.Completed
		}
		if patch.DueDate != nil {
			c.Tasks[i].DueDate = *patch.DueDate
		}
		if patch.Priority != nil {
			c.Tasks[i].Priority = *patch.Priority
		}
		return true
	}
	return false
}

type EventPatch struct {
	Title *string `json:"title"`
	Date  *string `json:"date"`
	Start *string `json:"start"`
	End   *string `json:"end"`
	Color *string `json:"color"`
}

func (c *PageContent) PatchEvent(itemID string, patch EventPatch) bool {
	for i := range c.Events {
		if c.Events[i].ID != itemID {
			continue
		}
		if patch.Title != nil {
			c.Events[i].Title = *patch.Title
		}
		if patch.Date != nil {
			c.Events[i].Date = *patch.Date
		}
		if patch.Start != nil {
			c.Events[i].Start = *patch.Start
		}
		if patch.End != nil {
			c.Events[i].End = *patch.End
		}
		if patch.Color != nil {
			c.Events[i].Color = *patch.Color
		}
		return true
	}
	return false
}

type CardPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// PatchCard updates a card anywhere on the board, searching every
// column for the matching id.
func (c *PageContent) PatchCard(cardID string, patch CardPatch) bool {
	for i := range c.Columns {
		for j := range c.Columns[i].Cards {
			if c.Columns[i].Cards[j].ID != cardID {
				continue
			}
			if patch.Title != nil {
				c.Columns[i].Cards[j].Title = *patch.Title
			}
			if patch.Description != nil {
				c.Columns[i].Cards[j].Description = *patch.Description
			}
			return true
		}
	}
	return false
}

type NotePatch struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

func (c *PageContent) PatchNote(itemID string, patch NotePatch) bool {
	for i := range c.Notes {
		if c.Notes[i].ID != itemID {
			continue
		}
		if patch.Title != nil {
			c.Notes[i].Title = *patch.Title
		}
		if patch.Content != nil {
			c.Notes[i].Content = *patch.Content
		}
		if patch.Category != nil {
			c.Notes[i].Category = *patch.Category
		}
		c.Notes[i].Updated = time.Now()
		return true
	}
	return false
}

type ColumnPatch struct {
	Name   *string `json:"name"`
	Color  *string `json:"color"`
	Status *string `json:"status"`
}

func (c *PageContent) PatchColumn(columnID string, patch ColumnPatch) *Column {
	for i := range c.Columns {
		if c.Columns[i].ID != columnID {
			continue
		}
		if patch.Name != nil {
			c.Columns[i].Name = *patch.Name
		}
		if patch.Color != nil {
			c.Columns[i].Color = *patch.Color
		}
		if patch.Status != nil {
			c.Columns[i].Status = *patch.Status
		}
		return &c.Columns[i]
	}
	return nil
}

func (c *PageContent) AddCard(columnID string, card Card) bool {
	for i := range c.Columns {
		if c.Columns[i].ID == columnID {
			c.Columns[i].Cards = append(c.Columns[i].Cards, card)
			return true
		}
	}
	return false
}

func (c *PageContent) RemoveCard(columnID string, cardID string) bool {
	for i := range c.Columns {
		if c.Columns[i].ID != columnID {
			continue
		}
		for j, card := range c.Columns[i].Cards {
			if card.ID == cardID {
				c.Columns[i].Cards = append(c.Columns[i].Cards[:j], c.Columns[i].Cards[j+1:]...)
				return true
			}
		}
	}
	return false
}
