package bolt

import (
	"sort"
	"strings"
	"time"

	"github.com/pagedeck/pagedeck/db"
	"go.etcd.io/bbolt"
)

func (d *BoltDb) GetUser(userID int) (user db.User, err error) {
	err = d.db.View(func(tx *bbolt.Tx) error {
		return getObject(tx.Bucket([]byte("users")), intKey(userID), &user)
	})
	return
}

func (d *BoltDb) GetUserByEmail(email string) (user db.User, err error) {
	err = d.db.View(func(tx *bbolt.Tx) error {
		found := false
		c := tx.Bucket([]byte("users")).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var u db.User
			if e := unmarshalValue(v, &u); e != nil {
				return e
			}
			if strings.EqualFold(u.Email, email) {
				user = u
				found = true
				break
			}
		}
		if !found {
			return db.ErrNotFound
		}
		return nil
	})
	return
}

func (d *BoltDb) GetUserByExternalID(provider string, externalID string) (user db.User, err error) {
	err = d.db.View(func(tx *bbolt.Tx) error {
		found := false
		c := tx.Bucket([]byte("users")).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var u db.User
			if e := unmarshalValue(v, &u); e != nil {
				return e
			}
			var id *string
			switch provider {
			case "google":
				id = u.GoogleID
			case "github":
				id = u.GithubID
			}
			if id != nil && *id == externalID {
				user = u
				found = true
				break
			}
		}
		if !found {
			return db.ErrNotFound
		}
		return nil
	})
	return
}

func (d *BoltDb) GetUsers(params db.RetrieveQueryParams) (users []db.User, err error) {
	users = []db.User{}
	err = d.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte("users")).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var u db.User
			if e := unmarshalValue(v, &u); e != nil {
				return e
			}
			users = append(users, u)
		}
		return nil
	})
	if err != nil {
		return
	}

	sort.Slice(users, func(i, j int) bool {
		if params.SortInverted {
			i, j = j, i
		}
		return users[i].Created.Before(users[j].Created)
	})

	if params.Count > 0 && len(users) > params.Count {
		users = users[:params.Count]
	}
	return
}

func (d *BoltDb) GetUsersByIDs(userIDs []int) (users []db.User, err error) {
	users = []db.User{}
	err = d.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte("users"))
		for _, id := range userIDs {
			var u db.User
			if e := getObject(b, intKey(id), &u); e != nil {
				if e == db.ErrNotFound {
					continue
				}
				return e
			}
			users = append(users, u)
		}
		return nil
	})
	return
}

func (d *BoltDb) SearchUsers(searchTerm string) (users []db.User, err error) {
	users = []db.User{}
	term := strings.ToLower(searchTerm)
	err = d.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte("users")).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var u db.User
			if e := unmarshalValue(v, &u); e != nil {
				return e
			}
			if strings.Contains(strings.ToLower(u.Username), term) ||
				strings.EqualFold(u.Email, searchTerm) {
				users = append(users, u)
			}
		}
		return nil
	})
	return
}

func (d *BoltDb) CreateUser(user db.User) (newUser db.User, err error) {
	if err = user.Validate(); err != nil {
		return
	}

	user.FillUsername()
	if user.Created.IsZero() {
		user.Created = time.Now()
	}

	err = d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte("users"))
		id, e := nextID(b)
		if e != nil {
			return e
		}
		user.ID = id
		return putObject(b, intKey(id), user)
	})
	if err != nil {
		return
	}

	newUser = user
	return
}

func (d *BoltDb) UpdateUser(user db.User) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte("users"))
		var existing db.User
		if err := getObject(b, intKey(user.ID), &existing); err != nil {
			return err
		}
		return putObject(b, intKey(user.ID), user)
	})
}

func (d *BoltDb) DeleteUser(userID int) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte("users"))
		var existing db.User
		if err := getObject(b, intKey(userID), &existing); err != nil {
			return err
		}
		return b.Delete(intKey(userID))
	})
}

