package db

import (
	"fmt"
	"slices"

	"github.com/EO-DataHub/eodhp-directory-services/internal/events"
	"github.com/EO-DataHub/eodhp-directory-services/models"
)

// AllGroups returns every group in insertion order.
func (d *DirectoryDB) AllGroups() []models.Group {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.groups.Values()
}

// GroupExists reports whether a group with name is in the directory.
func (d *DirectoryDB) GroupExists(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.groups.Has(name)
}

// GetGroup returns the group called name.
func (d *DirectoryDB) GetGroup(name string) (models.Group, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	g, ok := d.groups.Get(name)
	if !ok {
		return models.Group{}, fmt.Errorf("%w: %s", ErrGroupNotFound, name)
	}
	return g, nil
}

// AddGroup inserts a new, empty group.
func (d *DirectoryDB) AddGroup(group models.Group) error {
	d.mu.Lock()
	err := d.addGroup(group)
	d.record("add_group", err, events.DirectoryEvent{Action: events.GroupCreated, Group: group.Name})
	d.mu.Unlock()

	return err
}

func (d *DirectoryDB) addGroup(group models.Group) error {
	if d.groups.Has(group.Name) {
		return fmt.Errorf("%w: %s", ErrGroupExists, group.Name)
	}

	d.groups.Set(group.Name, group)
	d.Log.Debug().Str("group", group.Name).Msg("group added")
	return nil
}

// DeleteGroup removes the group called name and strips it from every
// user that was a member.
func (d *DirectoryDB) DeleteGroup(name string) error {
	d.mu.Lock()
	err := d.deleteGroup(name)
	d.record("delete_group", err, events.DirectoryEvent{Action: events.GroupDeleted, Group: name})
	d.mu.Unlock()

	return err
}

func (d *DirectoryDB) deleteGroup(name string) error {
	group, ok := d.groups.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, name)
	}

	for _, u := range d.users.Values() {
		u.RemoveGroup(group)
	}
	d.groups.Delete(name)

	d.Log.Debug().Str("group", name).Msg("group deleted")
	return nil
}

// GroupMembers returns the userids of the members of the group called name,
// in user order.
func (d *DirectoryDB) GroupMembers(name string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	group, ok := d.groups.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, name)
	}

	userids := []string{}
	for _, u := range d.users.Values() {
		if u.HasGroup(group) {
			userids = append(userids, u.UserID)
		}
	}
	return userids, nil
}

// UpdateGroupMembership makes userids the complete membership of the group
// called name. Every userid must belong to an existing user; otherwise no
// user is touched.
func (d *DirectoryDB) UpdateGroupMembership(name string, userids []string) error {
	d.mu.Lock()
	err := d.updateGroupMembership(name, userids)
	d.record("update_group_membership", err, events.DirectoryEvent{
		Action:  events.MembershipUpdated,
		Group:   name,
		UserIDs: slices.Clone(userids),
	})
	d.mu.Unlock()

	return err
}

func (d *DirectoryDB) updateGroupMembership(name string, userids []string) error {
	group, ok := d.groups.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, name)
	}

	members := make(map[string]struct{}, len(userids))
	for _, id := range userids {
		if !d.users.Has(id) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, id)
		}
		members[id] = struct{}{}
	}

	for _, u := range d.users.Values() {
		if _, ok := members[u.UserID]; ok {
			u.AddGroup(group)
		} else {
			u.RemoveGroup(group)
		}
	}

	d.Log.Debug().Str("group", name).Int("members", len(members)).Msg("group membership replaced")
	return nil
}
