package services

import (
	"path"

	"github.com/EO-DataHub/eodhp-directory-services/internal/appconfig"
	"github.com/EO-DataHub/eodhp-directory-services/models"
)

// DirectoryStore is the set of directory operations the API relies on.
// db.DirectoryDB satisfies it.
type DirectoryStore interface {
	AllUsers() []models.User
	UserExists(userid string) bool
	GetUser(userid string) (models.User, error)
	AddUser(user models.User) error
	UpdateUser(user models.User) error
	DeleteUser(userid string) error

	AllGroups() []models.Group
	GroupExists(name string) bool
	GetGroup(name string) (models.Group, error)
	AddGroup(group models.Group) error
	DeleteGroup(name string) error
	GroupMembers(name string) ([]string, error)
	UpdateGroupMembership(name string, userids []string) error
}

// Service contains all shared dependencies for handlers.
type Service struct {
	Config *appconfig.Config
	DB     DirectoryStore
}

func (svc *Service) basePath() string {
	if svc.Config == nil || svc.Config.BasePath == "" {
		return "/"
	}
	return svc.Config.BasePath
}

func (svc *Service) userURI(userid string) string {
	return path.Join(svc.basePath(), "users", userid)
}

func (svc *Service) userView(user models.User) models.UserView {
	return models.UserView{User: user, URI: svc.userURI(user.UserID)}
}
