package db

import (
	"fmt"

	"github.com/EO-DataHub/eodhp-directory-services/internal/events"
	"github.com/EO-DataHub/eodhp-directory-services/models"
)

// AllUsers returns every user in insertion order.
func (d *DirectoryDB) AllUsers() []models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	records := d.users.Values()
	users := make([]models.User, 0, len(records))
	for _, u := range records {
		users = append(users, u.Clone())
	}
	return users
}

// UserExists reports whether a user with userid is in the directory.
func (d *DirectoryDB) UserExists(userid string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.users.Has(userid)
}

// GetUser returns the user with userid.
func (d *DirectoryDB) GetUser(userid string) (models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users.Get(userid)
	if !ok {
		return models.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, userid)
	}
	return u.Clone(), nil
}

// AddUser inserts a new user. It fails with ErrUserExists if the userid is
// taken and with ErrGroupNotFound if any of the user's groups is unknown.
func (d *DirectoryDB) AddUser(user models.User) error {
	d.mu.Lock()
	err := d.addUser(user)
	d.record("add_user", err, events.DirectoryEvent{Action: events.UserCreated, UserID: user.UserID})
	d.mu.Unlock()

	return err
}

func (d *DirectoryDB) addUser(user models.User) error {
	if d.users.Has(user.UserID) {
		return fmt.Errorf("%w: %s", ErrUserExists, user.UserID)
	}
	if err := d.checkGroups(user.Groups); err != nil {
		return err
	}

	d.users.Set(user.UserID, stored(user))
	d.Log.Debug().Str("userid", user.UserID).Msg("user added")
	return nil
}

// UpdateUser replaces the user sharing newUser's userid. The existing
// record is untouched unless the user exists and all new groups are known.
func (d *DirectoryDB) UpdateUser(newUser models.User) error {
	d.mu.Lock()
	err := d.updateUser(newUser)
	d.record("update_user", err, events.DirectoryEvent{Action: events.UserUpdated, UserID: newUser.UserID})
	d.mu.Unlock()

	return err
}

func (d *DirectoryDB) updateUser(newUser models.User) error {
	if !d.users.Has(newUser.UserID) {
		return fmt.Errorf("%w: %s", ErrUserNotFound, newUser.UserID)
	}
	if err := d.checkGroups(newUser.Groups); err != nil {
		return err
	}

	d.users.Set(newUser.UserID, stored(newUser))
	d.Log.Debug().Str("userid", newUser.UserID).Msg("user replaced")
	return nil
}

// DeleteUser removes the user with userid.
func (d *DirectoryDB) DeleteUser(userid string) error {
	d.mu.Lock()
	var err error
	if !d.users.Delete(userid) {
		err = fmt.Errorf("%w: %s", ErrUserNotFound, userid)
	}
	d.record("delete_user", err, events.DirectoryEvent{Action: events.UserDeleted, UserID: userid})
	d.mu.Unlock()

	return err
}
