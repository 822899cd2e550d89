package models

import (
	"encoding/json"
	"fmt"
)

// Group represents a group in the directory. Groups are identified by name.
type Group struct {
	Name string `json:"name" yaml:"name"`
}

// MarshalJSON renders a group as its bare name, which is how groups appear
// inside user records on the wire.
func (g Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Name)
}

// UnmarshalJSON accepts either a bare name or an object with a name field.
func (g *Group) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		g.Name = name
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("group must be a name or an object with a name: %w", err)
	}
	g.Name = obj.Name
	return nil
}

// UnmarshalYAML lets seed files list groups by name.
func (g *Group) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err == nil {
		g.Name = name
		return nil
	}

	var obj struct {
		Name string `yaml:"name"`
	}
	if err := unmarshal(&obj); err != nil {
		return err
	}
	g.Name = obj.Name
	return nil
}

// User represents a user in the directory.
type User struct {
	UserID    string  `json:"userid" yaml:"userid"`
	FirstName string  `json:"first_name" yaml:"first_name"`
	LastName  string  `json:"last_name" yaml:"last_name"`
	Groups    []Group `json:"groups" yaml:"groups"`
}

// HasGroup reports whether the user is a member of group. Groups compare by name.
func (u *User) HasGroup(group Group) bool {
	for _, g := range u.Groups {
		if g.Name == group.Name {
			return true
		}
	}
	return false
}

// AddGroup adds group to the user's memberships unless it is already there.
func (u *User) AddGroup(group Group) {
	if !u.HasGroup(group) {
		u.Groups = append(u.Groups, group)
	}
}

// RemoveGroup drops group from the user's memberships if present.
func (u *User) RemoveGroup(group Group) {
	for i, g := range u.Groups {
		if g.Name == group.Name {
			u.Groups = append(u.Groups[:i:i], u.Groups[i+1:]...)
			return
		}
	}
}

// GroupNames returns the names of the user's groups in membership order.
func (u *User) GroupNames() []string {
	names := make([]string, 0, len(u.Groups))
	for _, g := range u.Groups {
		names = append(names, g.Name)
	}
	return names
}

// Clone returns a deep copy of the user.
func (u User) Clone() User {
	clone := u
	clone.Groups = make([]Group, len(u.Groups))
	copy(clone.Groups, u.Groups)
	return clone
}

// UserRequest is the body accepted when creating or replacing a user.
// Pointer fields distinguish a missing field from an empty one.
type UserRequest struct {
	UserID    string    `json:"userid"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Groups    *[]string `json:"groups"`
}

// Missing returns the names of required fields absent from the request.
func (r UserRequest) Missing(requireUserID bool) []string {
	var missing []string
	if requireUserID && r.UserID == "" {
		missing = append(missing, "userid")
	}
	if r.FirstName == nil {
		missing = append(missing, "first_name")
	}
	if r.LastName == nil {
		missing = append(missing, "last_name")
	}
	if r.Groups == nil {
		missing = append(missing, "groups")
	}
	return missing
}

// UserView is a user as returned by the API, including its own location.
type UserView struct {
	User
	URI string `json:"uri"`
}

// UserResponse represents a response with a single user.
type UserResponse struct {
	User UserView `json:"user"`
}

// UsersResponse holds a list of users.
type UsersResponse struct {
	Users []UserView `json:"users"`
}

// GroupRequest is the body accepted when creating a group.
type GroupRequest struct {
	Name string `json:"name"`
}

// GroupsResponse holds the names of all groups.
type GroupsResponse struct {
	Groups []string `json:"groups"`
}

// MembershipRequest carries the complete membership of a group.
type MembershipRequest struct {
	UserIDs *[]string `json:"userids"`
}

// MembersResponse lists the userids belonging to a group.
type MembersResponse struct {
	UserIDs []string `json:"userids"`
}
