package sql

import (
	"database/sql"
	"time"

	"github.com/pagedeck/pagedeck/db"
)

func validateMutationResult(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (d *SqlDb) GetPage(pageID int) (page db.Page, err error) {
	err = d.selectOne(&page,
		"select * from `page` where id=?",
		pageID)
	if err != nil {
		return
	}
	err = db.FillPageContent(&page)
	return
}

func (d *SqlDb) GetPageByName(ownerID int, name string) (page db.Page, err error) {
	err = d.selectOne(&page,
		"select * from `page` where owner_id=? and lower(name)=lower(?)",
		ownerID,
		name)
	if err != nil {
		return
	}
	err = db.FillPageContent(&page)
	return
}

func (d *SqlDb) GetPages(ownerID int) (pages []db.Page, err error) {
	pages = []db.Page{}
	err = d.selectAll(&pages,
		"select * from `page` where owner_id=? order by created desc",
		ownerID)
	if err != nil {
		return
	}
	for i := range pages {
		if err = db.FillPageContent(&pages[i]); err != nil {
			return
		}
	}
	return
}

func (d *SqlDb) GetPagesByType(ownerID int, pageType db.PageType) (pages []db.Page, err error) {
	pages = []db.Page{}
	err = d.selectAll(&pages,
		"select * from `page` where owner_id=? and type=? order by created desc",
		ownerID,
		pageType)
	if err != nil {
		return
	}
	for i := range pages {
		if err = db.FillPageContent(&pages[i]); err != nil {
			return
		}
	}
	return
}

func (d *SqlDb) CreatePage(page db.Page) (newPage db.Page, err error) {
	if err = page.Validate(); err != nil {
		return
	}

	if page.Created.IsZero() {
		page.Created = time.Now()
	}
	page.ContentJSON = db.ObjectToJSON(page.Content)

	insertID, err := d.insert(
		"id",
		"insert into `page` (owner_id, name, type, icon, color, content, created) values (?, ?, ?, ?, ?, ?, ?)",
		page.OwnerID,
		page.Name,
		page.Type,
		page.Icon,
		page.Color,
		page.ContentJSON,
		page.Created)

	if err != nil {
		return
	}

	newPage = page
	newPage.ID = insertID
	return
}

func (d *SqlDb) UpdatePageContent(pageID int, content db.PageContent) (page db.Page, err error) {
	res, err := d.exec(
		"update `page` set content=? where id=?",
		db.ObjectToJSON(content),
		pageID)

	if err = validateMutationResult(res, err); err != nil {
		return
	}

	return d.GetPage(pageID)
}

func (d *SqlDb) DeletePage(pageID int) error {
	res, err := d.exec("delete from `page` where id=?", pageID)
	return validateMutationResult(res, err)
}
