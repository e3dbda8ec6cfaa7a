package bolt

import (
	"sort"
	"strings"
	"time"

	"github.com/pagedeck/pagedeck/db"
	"go.etcd.io/bbolt"
)

func (d *BoltDb) GetPage(pageID int) (page db.Page, err error) {
	err = d.db.View(func(tx *bbolt.Tx) error {
		return getObject(tx.Bucket([]byte("pages")), intKey(pageID), &page)
	})
	return
}

func (d *BoltDb) GetPageByName(ownerID int, name string) (page db.Page, err error) {
	err = d.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte("pages")).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var p db.Page
			if e := unmarshalValue(v, &p); e != nil {
				return e
			}
			if p.OwnerID == ownerID && strings.EqualFold(p.Name, name) {
				page = p
				return nil
			}
		}
		return db.ErrNotFound
	})
	return
}

func (d *BoltDb) GetPages(ownerID int) ([]db.Page, error) {
	return d.filterPages(func(p db.Page) bool {
		return p.OwnerID == ownerID
	})
}

func (d *BoltDb) GetPagesByType(ownerID int, pageType db.PageType) ([]db.Page, error) {
	return d.filterPages(func(p db.Page) bool {
		return p.OwnerID == ownerID && p.Type == pageType
	})
}

func (d *BoltDb) CreatePage(page db.Page) (newPage db.Page, err error) {
	if err = page.Validate(); err != nil {
		return
	}

	if page.Created.IsZero() {
		page.Created = time.Now()
	}

	err = d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte("pages"))
		id, e := nextID(b)
		if e != nil {
			return e
		}
		page.ID = id
		return putObject(b, intKey(id), page)
	})
	if err != nil {
		return
	}

	newPage = page
	return
}

// UpdatePageContent replaces the whole content document of a page in
// one write transaction.
func (d *BoltDb) UpdatePageContent(pageID int, content db.PageContent) (page db.Page, err error) {
	err = d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte("pages"))
		if e := getObject(b, intKey(pageID), &page); e != nil {
			return e
		}
		page.Content = content
		return putObject(b, intKey(pageID), page)
	})
	return
}

func (d *BoltDb) DeletePage(pageID int) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte("pages"))
		var existing db.Page
		if err := getObject(b, intKey(pageID), &existing); err != nil {
			return err
		}
		return b.Delete(intKey(pageID))
	})
}

func (d *BoltDb) filterPages(match func(db.Page) bool) (pages []db.Page, err error) {
	pages = []db.Page{}
	err = d.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte("pages")).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var p db.Page
			if e := unmarshalValue(v, &p); e != nil {
				return e
			}
			if match(p) {
				pages = append(pages, p)
			}
		}
		return nil
	})
	if err != nil {
		return
	}

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Created.After(pages[j].Created)
	})
	return
}
