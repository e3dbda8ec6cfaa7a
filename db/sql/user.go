package sql

import (
	"time"

	"github.com/pagedeck/pagedeck/db"
)

func (d *SqlDb) GetUser(userID int) (user db.User, err error) {
	err = d.selectOne(&user,
		"select * from `user` where id=?",
		userID)
	return
}

func (d *SqlDb) GetUserByEmail(email string) (user db.User, err error) {
	err = d.selectOne(&user,
		"select * from `user` where lower(email)=lower(?)",
		email)
	return
}

func (d *SqlDb) GetUserByExternalID(provider string, externalID string) (user db.User, err error) {
	var column string
	switch provider {
	case "google":
		column = "google_id"
	case "github":
		column = "github_id"
	default:
		err = db.ErrNotFound
		return
	}

	err = d.selectOne(&user,
		"select * from `user` where `"+column+"`=?",
		externalID)
	return
}

func (d *SqlDb) GetUsers(params db.RetrieveQueryParams) (users []db.User, err error) {
	users = []db.User{}

	order := "ASC"
	if params.SortInverted {
		order = "DESC"
	}

	query := "select * from `user` order by created " + order
	err = d.selectAll(&users, query)
	if err != nil {
		return
	}

	if params.Count > 0 && len(users) > params.Count {
		users = users[:params.Count]
	}
	return
}

func (d *SqlDb) GetUsersByIDs(userIDs []int) (users []db.User, err error) {
	users = []db.User{}
	for _, id := range userIDs {
		var user db.User
		if err = d.selectOne(&user, "select * from `user` where id=?", id); err != nil {
			if err == db.ErrNotFound {
				err = nil
				continue
			}
			return
		}
		users = append(users, user)
	}
	return
}

func (d *SqlDb) SearchUsers(searchTerm string) (users []db.User, err error) {
	users = []db.User{}
	err = d.selectAll(&users,
		"select * from `user` where lower(username) like lower(?) or lower(email)=lower(?)",
		"%"+searchTerm+"%",
		searchTerm)
	return
}

func (d *SqlDb) CreateUser(user db.User) (newUser db.User, err error) {
	if err = user.Validate(); err != nil {
		return
	}

	user.FillUsername()
	if user.Created.IsZero() {
		user.Created = time.Now()
	}

	insertID, err := d.insert(
		"id",
		"insert into `user` (first_name, last_name, username, email, password, google_id, github_id, avatar, created) values (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		user.FirstName,
		user.LastName,
		user.Username,
		user.Email,
		user.Password,
		user.GoogleID,
		user.GithubID,
		user.Avatar,
		user.Created)

	if err != nil {
		return
	}

	newUser = user
	newUser.ID = insertID
	return
}

func (d *SqlDb) UpdateUser(user db.User) error {
	res, err := d.exec(
		"update `user` set first_name=?, last_name=?, username=?, email=?, password=?, avatar=? where id=?",
		user.FirstName,
		user.LastName,
		user.Username,
		user.Email,
		user.Password,
		user.Avatar,
		user.ID)
	return validateMutationResult(res, err)
}

func (d *SqlDb) DeleteUser(userID int) error {
	res, err := d.exec("delete from `user` where id=?", userID)
	return validateMutationResult(res, err)
}
