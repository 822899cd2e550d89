package handlers

import (
	"net/http"

	services "github.com/EO-DataHub/eodhp-directory-services/api/services"
)

// @Summary API root
// @Description Greeting with links to the user and group collections.
// @Tags root
// @Produce json
// @Success 200 {object} models.Greeting
// @Router / [get]
func GetRoot(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetRootService(w, r)
	}
}
