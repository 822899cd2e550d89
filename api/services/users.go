package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/EO-DataHub/eodhp-directory-services/db"
	"github.com/EO-DataHub/eodhp-directory-services/models"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// GetUsersService returns every user in the directory.
func (svc *Service) GetUsersService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	users := svc.DB.AllUsers()
	views := make([]models.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, svc.userView(u))
	}

	logger.Info().Int("user_count", len(views)).Msg("Successfully retrieved users")
	WriteResponse(w, http.StatusOK, models.UsersResponse{Users: views})
}

// CreateUserService adds a new user from the request payload.
func (svc *Service) CreateUserService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	payload, ok := decodeUserRequest(w, r, true)
	if !ok {
		return
	}

	if svc.DB.UserExists(payload.UserID) {
		logger.Warn().Str("userid", payload.UserID).Msg("User already exists")
		HandleErrResponse(w, http.StatusConflict, fmt.Errorf("%w: %s", db.ErrUserExists, payload.UserID))
		return
	}

	user, err := svc.resolveUser(payload.UserID, payload)
	if err != nil {
		logger.Warn().Err(err).Str("userid", payload.UserID).Msg("User references unknown group")
		HandleErrResponse(w, statusFor(err, nil), err)
		return
	}

	if err := svc.DB.AddUser(user); err != nil {
		logger.Warn().Err(err).Str("userid", user.UserID).Msg("Failed to add user")
		HandleErrResponse(w, statusFor(err, nil), err)
		return
	}

	if created, err := svc.DB.GetUser(user.UserID); err == nil {
		user = created
	}

	logger.Info().Str("userid", user.UserID).Msg("User created successfully")
	WriteResponse(w, http.StatusCreated, models.UserResponse{User: svc.userView(user)}, svc.userURI(user.UserID))
}

// GetUserService returns the user named in the URL path.
func (svc *Service) GetUserService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())
	userid := mux.Vars(r)["userid"]

	user, err := svc.DB.GetUser(userid)
	if err != nil {
		logger.Warn().Err(err).Str("userid", userid).Msg("User not found")
		HandleErrResponse(w, statusFor(err, db.ErrUserNotFound), err)
		return
	}

	WriteResponse(w, http.StatusOK, models.UserResponse{User: svc.userView(user)})
}

// UpdateUserService replaces the user named in the URL path with the
// request payload. The userid in the path wins over any in the body.
func (svc *Service) UpdateUserService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())
	userid := mux.Vars(r)["userid"]

	if !svc.DB.UserExists(userid) {
		err := fmt.Errorf("%w: %s", db.ErrUserNotFound, userid)
		logger.Warn().Str("userid", userid).Msg("User not found")
		HandleErrResponse(w, http.StatusNotFound, err)
		return
	}

	payload, ok := decodeUserRequest(w, r, false)
	if !ok {
		return
	}

	user, err := svc.resolveUser(userid, payload)
	if err != nil {
		logger.Warn().Err(err).Str("userid", userid).Msg("User references unknown group")
		HandleErrResponse(w, statusFor(err, nil), err)
		return
	}

	if err := svc.DB.UpdateUser(user); err != nil {
		logger.Warn().Err(err).Str("userid", userid).Msg("Failed to update user")
		HandleErrResponse(w, statusFor(err, db.ErrUserNotFound), err)
		return
	}

	if updated, err := svc.DB.GetUser(userid); err == nil {
		user = updated
	}

	logger.Info().Str("userid", userid).Msg("User updated successfully")
	WriteResponse(w, http.StatusOK, models.UserResponse{User: svc.userView(user)})
}

// DeleteUserService removes the user named in the URL path.
func (svc *Service) DeleteUserService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())
	userid := mux.Vars(r)["userid"]

	if err := svc.DB.DeleteUser(userid); err != nil {
		logger.Warn().Err(err).Str("userid", userid).Msg("Failed to delete user")
		HandleErrResponse(w, statusFor(err, db.ErrUserNotFound), err)
		return
	}

	logger.Info().Str("userid", userid).Msg("User deleted successfully")
	WriteResponse(w, http.StatusOK, models.ResultResponse{
		Result: fmt.Sprintf("User with id '%s' successfully deleted", userid),
	})
}

// decodeUserRequest parses and checks a user payload, writing a 400 and
// returning false if it is unusable.
func decodeUserRequest(w http.ResponseWriter, r *http.Request, requireUserID bool) (models.UserRequest, bool) {

	logger := zerolog.Ctx(r.Context())

	var payload models.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		HandleErrResponse(w, http.StatusBadRequest, fmt.Errorf("invalid request payload: %w", err))
		return payload, false
	}

	if missing := payload.Missing(requireUserID); len(missing) > 0 {
		logger.Warn().Strs("missing", missing).Msg("Incomplete request payload")
		HandleErrResponse(w, http.StatusBadRequest, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", ")))
		return payload, false
	}

	return payload, true
}

// resolveUser turns a payload into a user, looking up each named group in
// the directory.
func (svc *Service) resolveUser(userid string, payload models.UserRequest) (models.User, error) {
	user := models.User{
		UserID:    userid,
		FirstName: *payload.FirstName,
		LastName:  *payload.LastName,
		Groups:    make([]models.Group, 0, len(*payload.Groups)),
	}

	for _, name := range *payload.Groups {
		group, err := svc.DB.GetGroup(name)
		if err != nil {
			return models.User{}, err
		}
		user.Groups = append(user.Groups, group)
	}
	return user, nil
}
