package services

import (
	"net/http"
	"path"

	"github.com/EO-DataHub/eodhp-directory-services/models"
)

// GetRootService greets the client and links to the user and group
// collections.
func (svc *Service) GetRootService(w http.ResponseWriter, r *http.Request) {
	base := svc.basePath()

	WriteResponse(w, http.StatusOK, models.Greeting{
		Greeting: "Welcome to the directory service.",
		Users:    models.Link{Rel: "users", Href: path.Join(base, "users") + "/"},
		Groups:   models.Link{Rel: "groups", Href: path.Join(base, "groups") + "/"},
	})
}
