package handlers

import (
	"net/http"

	services "github.com/EO-DataHub/eodhp-directory-services/api/services"
)

// @Summary List users
// @Description Return every user in the directory.
// @Tags users
// @Produce json
// @Success 200 {object} models.UsersResponse
// @Router /users [get]
func GetUsers(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetUsersService(w, r)
	}
}

// @Summary Create a user
// @Description Create a user. Every group named must already exist.
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.UserRequest true "User"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} models.Response
// @Failure 409 {object} models.Response
// @Router /users [post]
func CreateUser(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateUserService(w, r)
	}
}

// @Summary Get a user
// @Tags users
// @Produce json
// @Param userid path string true "User ID" example(jsmith)
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} models.Response
// @Router /users/{userid} [get]
func GetUser(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetUserService(w, r)
	}
}

// @Summary Replace a user
// @Description Replace the user's names and group memberships.
// @Tags users
// @Accept json
// @Produce json
// @Param userid path string true "User ID" example(jsmith)
// @Param user body models.UserRequest true "User"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /users/{userid} [put]
func UpdateUser(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateUserService(w, r)
	}
}

// @Summary Delete a user
// @Tags users
// @Produce json
// @Param userid path string true "User ID" example(jsmith)
// @Success 200 {object} models.ResultResponse
// @Failure 404 {object} models.Response
// @Router /users/{userid} [delete]
func DeleteUser(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteUserService(w, r)
	}
}
