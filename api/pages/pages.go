package pages

import (
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pagedeck/pagedeck/api/helpers"
	"github.com/pagedeck/pagedeck/db"
)

// Controller serves the page CRUD and content mutation endpoints. A
// page is only ever visible to its owner; requests for somebody
// else's page answer 404 so that page ids do not leak.
type Controller struct {
	store db.Store
}

func NewController(store db.Store) *Controller {
	return &Controller{store: store}
}

// ownedPage resolves the page_id route parameter to a page owned by
// the authenticated user, writing the error response itself.
func (c *Controller) ownedPage(w http.ResponseWriter, r *http.Request) (db.Page, bool) {
	user, _ := helpers.UserFromContext(r)

	pageID, err := helpers.GetIntParam("page_id", w, r)
	if err != nil {
		return db.Page{}, false
	}

	page, err := c.store.GetPage(pageID)
	if err == db.ErrNotFound {
		helpers.WriteErrorStatus(w, "Page not found", http.StatusNotFound)
		return db.Page{}, false
	} else if err != nil {
		helpers.WriteError(w, err)
		return db.Page{}, false
	}

	if page.OwnerID != user.ID {
		helpers.WriteErrorStatus(w, "Page not found", http.StatusNotFound)
		return db.Page{}, false
	}

	return page, true
}

func (c *Controller) saveContent(w http.ResponseWriter, page db.Page) {
	updated, err := c.store.UpdatePageContent(page.ID, page.Content)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error": false,
		"page":  updated,
	})
}

func (c *Controller) CreatePage(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromContext(r)

	var request struct {
		Name  string      `json:"name"`
		Type  db.PageType `json:"type"`
		Icon  string      `json:"icon"`
		Color string      `json:"color"`
	}

	if !helpers.Bind(w, r, &request) {
		return
	}

	if _, err := c.store.GetPageByName(user.ID, request.Name); err == nil {
		helpers.WriteErrorStatus(w, "Page with this name already exists", http.StatusBadRequest)
		return
	} else if err != db.ErrNotFound {
		helpers.WriteError(w, err)
		return
	}

	page, err := c.store.CreatePage(db.Page{
		OwnerID: user.ID,
		Name:    request.Name,
		Type:    request.Type,
		Icon:    request.Icon,
		Color:   request.Color,
	})
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, map[string]any{
		"error": false,
		"page":  page,
	})
}

func (c *Controller) GetPages(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromContext(r)

	pages, err := c.store.GetPages(user.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error": false,
		"pages": pages,
	})
}

func (c *Controller) GetSpecificPage(w http.ResponseWriter, r *http.Request) {
	page, ok := c.ownedPage(w, r)
	if !ok {
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error": false,
		"page":  page,
	})
}

func (c *Controller) DeletePage(w http.ResponseWriter, r *http.Request) {
	page, ok := c.ownedPage(w, r)
	if !ok {
		return
	}

	if err := c.store.DeletePage(page.ID); err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error":   false,
		"message": "Page deleted",
	})
}

// UpdatePage appends one item to the page, interpreted by the page
// type: a task, an event, a column or a note.
func (c *Controller) UpdatePage(w http.ResponseWriter, r *http.Request) {
	page, ok := c.ownedPage(w, r)
	if !ok {
		return
	}

	var request struct {
		Title    string `json:"title"`
		DueDate  string `json:"dueDate"`
		Priority string `json:"priority"`
		Date     string `json:"date"`
		Start    string `json:"start"`
		End      string `json:"end"`
		Color    string `json:"color"`
		Name     string `json:"name"`
		Status   string `json:"status"`
		Content  string `json:"content"`
		Category string `json:"category"`
	}

	if !helpers.Bind(w, r, &request) {
		return
	}

	now := time.Now()

	switch page.Type {
	case db.PageTypeTodo:
		if request.Title == "" {
			helpers.WriteErrorStatus(w, "Title is required", http.StatusBadRequest)
			return
		}
		page.Content.AddTask(db.Task{
			ID:       uuid.NewString(),
			Title:    request.Title,
			DueDate:  request.DueDate,
			Priority: request.Priority,
			Created:  now,
		})
	case db.PageTypeCalendar:
		if request.Title == "" || request.Date == "" {
			helpers.WriteErrorStatus(w, "Title and date are required", http.StatusBadRequest)
			return
		}
		page.Content.AddEvent(db.Event{
			ID:      uuid.NewString(),
			Title:   request.Title,
			Date:    request.Date,
			Start:   request.Start,
			End:     request.End,
			Color:   request.Color,
			Created: now,
		})
	case db.PageTypeKanban:
		if request.Name == "" {
			helpers.WriteErrorStatus(w, "Name is required", http.StatusBadRequest)
			return
		}
		page.Content.AddColumn(db.Column{
			ID:     uuid.NewString(),
			Name:   request.Name,
			Color:  request.Color,
			Status: request.Status,
		})
	case db.PageTypeNotes:
		if request.Title == "" {
			helpers.WriteErrorStatus(w, "Title is required", http.StatusBadRequest)
			return
		}
		page.Content.AddNote(db.Note{
			ID:       uuid.NewString(),
			Title:    request.Title,
			Content:  request.Content,
			Category: request.Category,
			Created:  now,
			Updated:  now,
		})
	}

	c.saveContent(w, page)
}

func (c *Controller) DeleteItem(w http.ResponseWriter, r *http.Request) {
	page, ok := c.ownedPage(w, r)
	if !ok {
		return
	}

	itemID, err := helpers.GetStrParam("item_id", w, r)
	if err != nil {
		return
	}

	if !page.Content.RemoveItem(page.Type, itemID) {
		helpers.WriteErrorStatus(w, "Item not found", http.StatusNotFound)
		return
	}

	c.saveContent(w, page)
}

// UpdateItem patches fields of one item, interpreted by the page
// type. Unknown fields in the body are ignored, absent fields keep
// their value.
func (c *Controller) UpdateItem(w http.ResponseWriter, r *http.Request) {
	page, ok := c.ownedPage(w, r)
	if !ok {
		return
	}

	itemID, err := helpers.GetStrParam("item_id", w, r)
	if err != nil {
		return
	}

	var found bool

	switch page.Type {
	case db.PageTypeTodo:
		var patch db.TaskPatch
		if !helpers.Bind(w, r, &patch) {
			return
		}
		found = page.Content.PatchTask(itemID, patch)
	case db.PageTypeCalendar:
		var patch db.EventPatch
		if !helpers.Bind(w, r, &patch) {
			return
		}
		found = page.Content.PatchEvent(itemID, patch)
	case db.PageTypeKanban:
		var patch db.CardPatch
		if !helpers.Bind(w, r, &patch) {
			return
		}
		found = page.Content.PatchCard(itemID, patch)
	case db.PageTypeNotes:
		var patch db.NotePatch
		if !helpers.Bind(w, r, &patch) {
			return
		}
		found = page.Content.PatchNote(itemID, patch)
	}

	if !found {
		helpers.WriteErrorStatus(w, "Item not found", http.StatusNotFound)
		return
	}

	c.saveContent(w, page)
}

func (c *Controller) AddCard(w http.ResponseWriter, r *http.Request) {
	page, ok := c.ownedPage(w, r)
	if !ok {
		return
	}

	columnID, err := helpers.GetStrParam("column_id", w, r)
	if err != nil {
		return
	}

	var request struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}

	if !helpers.Bind(w, r, &request) {
		return
	}

	if request.Title == "" {
		helpers.WriteErrorStatus(w, "Title is required", http.StatusBadRequest)
		return
	}

	card := db.Card{
		ID:          uuid.NewString(),
		Title:       request.Title,
		Description: request.Description,
		Created:     time.Now(),
	}

	if !page.Content.AddCard(columnID, card) {
		helpers.WriteErrorStatus(w, "Column not found", http.StatusNotFound)
		return
	}

	c.saveContent(w, page)
}

func (c *Controller) DeleteKanbanCard(w http.ResponseWriter, r *http.Request) {
	page, ok := c.ownedPage(w, r)
	if !ok {
		return
	}

	columnID, err := helpers.GetStrParam("column_id", w, r)
	if err != nil {
		return
	}

	cardID, err := helpers.GetStrParam("card_id", w, r)
	if err != nil {
		return
	}

	if !page.Content.RemoveCard(columnID, cardID) {
		helpers.WriteErrorStatus(w, "Card not found", http.StatusNotFound)
		return
	}

	c.saveContent(w, page)
}

func (c *Controller) UpdateColumnSettings(w http.ResponseWriter, r *http.Request) {
	page, ok := c.ownedPage(w, r)
	if !ok {
		return
	}

	columnID, err := helpers.GetStrParam("column_id", w, r)
	if err != nil {
		return
	}

	var patch db.ColumnPatch
	if !helpers.Bind(w, r, &patch) {
		return
	}

	if page.Content.PatchColumn(columnID, patch) == nil {
		helpers.WriteErrorStatus(w, "Column not found", http.StatusNotFound)
		return
	}

	c.saveContent(w, page)
}

// UpdateColumns replaces the whole board, used after drag and drop
// reordered cards across columns.
func (c *Controller) UpdateColumns(w http.ResponseWriter, r *http.Request) {
	page, ok := c.ownedPage(w, r)
	if !ok {
		return
	}

	var request struct {
		Columns []db.Column `json:"columns"`
	}

	if !helpers.Bind(w, r, &request) {
		return
	}

	page.Content.Columns = request.Columns
	c.saveContent(w, page)
}

func (c *Controller) UpdateColumnsOrders(w http.ResponseWriter, r *http.Request) {
	c.UpdateColumns(w, r)
}

// UpdateNotesOrders replaces the notes array after a reorder.
func (c *Controller) UpdateNotesOrders(w http.ResponseWriter, r *http.Request) {
	page, ok := c.ownedPage(w, r)
	if !ok {
		return
	}

	var request struct {
		Notes []db.Note `json:"notes"`
	}

	if !helpers.Bind(w, r, &request) {
		return
	}

	page.Content.Notes = request.Notes
	c.saveContent(w, page)
}

// pageItem tags an aggregated item with the page it came from.
type pageItem struct {
	PageID   int    `json:"pageId"`
	PageName string `json:"pageName"`
	Item     any    `json:"item"`
}

func (c *Controller) collect(w http.ResponseWriter, r *http.Request, pageType db.PageType, pick func(db.Page) []any) ([]pageItem, bool) {
	user, _ := helpers.UserFromContext(r)

	pages, err := c.store.GetPagesByType(user.ID, pageType)
	if err != nil {
		helpers.WriteError(w, err)
		return nil, false
	}

	items := []pageItem{}
	for _, page := range pages {
		for _, item := range pick(page) {
			items = append(items, pageItem{
				PageID:   page.ID,
				PageName: page.Name,
				Item:     item,
			})
		}
	}
	return items, true
}

// GetLastTodos returns the ten newest tasks across every todo page of
// the caller.
func (c *Controller) GetLastTodos(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromContext(r)

	pages, err := c.store.GetPagesByType(user.ID, db.PageTypeTodo)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	type taggedTask struct {
		PageID   int    `json:"pageId"`
		PageName string `json:"pageName"`
		db.Task
	}

	tasks := []taggedTask{}
	for _, page := range pages {
		for _, task := range page.Content.Tasks {
			tasks = append(tasks, taggedTask{page.ID, page.Name, task})
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].Created.After(tasks[j].Created)
	})

	if len(tasks) > 10 {
		tasks = tasks[:10]
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error": false,
		"todos": tasks,
	})
}

func (c *Controller) GetAllTodos(w http.ResponseWriter, r *http.Request) {
	items, ok := c.collect(w, r, db.PageTypeTodo, func(p db.Page) []any {
		out := make([]any, len(p.Content.Tasks))
		for i, t := range p.Content.Tasks {
			out[i] = t
		}
		return out
	})
	if !ok {
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error": false,
		"todos": items,
	})
}

func (c *Controller) GetAllEvents(w http.ResponseWriter, r *http.Request) {
	items, ok := c.collect(w, r, db.PageTypeCalendar, func(p db.Page) []any {
		out := make([]any, len(p.Content.Events))
		for i, e := range p.Content.Events {
			out[i] = e
		}
		return out
	})
	if !ok {
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error":  false,
		"events": items,
	})
}

func (c *Controller) GetAllColumns(w http.ResponseWriter, r *http.Request) {
	items, ok := c.collect(w, r, db.PageTypeKanban, func(p db.Page) []any {
		out := make([]any, len(p.Content.Columns))
		for i, col := range p.Content.Columns {
			out[i] = col
		}
		return out
	})
	if !ok {
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error":   false,
		"columns": items,
	})
}

func (c *Controller) GetAllNotes(w http.ResponseWriter, r *http.Request) {
	items, ok := c.collect(w, r, db.PageTypeNotes, func(p db.Page) []any {
		out := make([]any, len(p.Content.Notes))
		for i, n := range p.Content.Notes {
			out[i] = n
		}
		return out
	})
	if !ok {
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"error": false,
		"notes": items,
	})
}
