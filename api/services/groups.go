package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/EO-DataHub/eodhp-directory-services/db"
	"github.com/EO-DataHub/eodhp-directory-services/models"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

func (svc *Service) groupNames() []string {
	groups := svc.DB.AllGroups()
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names
}

// GetGroupsService returns the names of all groups.
func (svc *Service) GetGroupsService(w http.ResponseWriter, r *http.Request) {
	WriteResponse(w, http.StatusOK, models.GroupsResponse{Groups: svc.groupNames()})
}

// CreateGroupService adds a new, empty group and returns the full group list.
func (svc *Service) CreateGroupService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	var payload models.GroupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		HandleErrResponse(w, http.StatusBadRequest, fmt.Errorf("invalid request payload: %w", err))
		return
	}

	if payload.Name == "" {
		HandleErrResponse(w, http.StatusBadRequest, errors.New("missing required fields: name"))
		return
	}

	if err := svc.DB.AddGroup(models.Group{Name: payload.Name}); err != nil {
		logger.Warn().Err(err).Str("group", payload.Name).Msg("Failed to add group")
		HandleErrResponse(w, statusFor(err, nil), err)
		return
	}

	logger.Info().Str("group", payload.Name).Msg("Group created successfully")
	WriteResponse(w, http.StatusCreated, models.GroupsResponse{Groups: svc.groupNames()})
}

// GetGroupService returns the userids of the members of the group named in
// the URL path.
func (svc *Service) GetGroupService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())
	name := mux.Vars(r)["name"]

	userids, err := svc.DB.GroupMembers(name)
	if err != nil {
		logger.Warn().Err(err).Str("group", name).Msg("Group not found")
		HandleErrResponse(w, statusFor(err, db.ErrGroupNotFound), err)
		return
	}

	WriteResponse(w, http.StatusOK, models.MembersResponse{UserIDs: userids})
}

// UpdateGroupService sets the complete membership of the group named in the
// URL path.
func (svc *Service) UpdateGroupService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())
	name := mux.Vars(r)["name"]

	if !svc.DB.GroupExists(name) {
		err := fmt.Errorf("%w: %s", db.ErrGroupNotFound, name)
		logger.Warn().Str("group", name).Msg("Group not found")
		HandleErrResponse(w, http.StatusNotFound, err)
		return
	}

	var payload models.MembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		HandleErrResponse(w, http.StatusBadRequest, fmt.Errorf("invalid request payload: %w", err))
		return
	}
	if payload.UserIDs == nil {
		HandleErrResponse(w, http.StatusBadRequest, errors.New("missing required fields: userids"))
		return
	}

	if err := svc.DB.UpdateGroupMembership(name, *payload.UserIDs); err != nil {
		logger.Warn().Err(err).Str("group", name).Msg("Failed to update group membership")
		HandleErrResponse(w, statusFor(err, db.ErrGroupNotFound), err)
		return
	}

	userids, err := svc.DB.GroupMembers(name)
	if err != nil {
		userids = *payload.UserIDs
	}

	logger.Info().Str("group", name).Int("members", len(userids)).Msg("Group membership updated")
	WriteResponse(w, http.StatusOK, models.MembersResponse{UserIDs: userids})
}

// DeleteGroupService removes the group named in the URL path from the
// directory and from every user.
func (svc *Service) DeleteGroupService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())
	name := mux.Vars(r)["name"]

	if err := svc.DB.DeleteGroup(name); err != nil {
		logger.Warn().Err(err).Str("group", name).Msg("Failed to delete group")
		HandleErrResponse(w, statusFor(err, db.ErrGroupNotFound), err)
		return
	}

	logger.Info().Str("group", name).Msg("Group deleted successfully")
	WriteResponse(w, http.StatusOK, models.ResultResponse{
		Result: fmt.Sprintf("Group '%s' successfully deleted", name),
	})
}
