package handlers

import (
	"net/http"

	services "github.com/EO-DataHub/eodhp-directory-services/api/services"
)

// @Summary List groups
// @Tags groups
// @Produce json
// @Success 200 {object} models.GroupsResponse
// @Router /groups [get]
func GetGroups(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetGroupsService(w, r)
	}
}

// @Summary Create a group
// @Description Create an empty group and return the names of all groups.
// @Tags groups
// @Accept json
// @Produce json
// @Param group body models.GroupRequest true "Group"
// @Success 201 {object} models.GroupsResponse
// @Failure 400 {object} models.Response
// @Failure 409 {object} models.Response
// @Router /groups [post]
func CreateGroup(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateGroupService(w, r)
	}
}

// @Summary List group members
// @Tags groups
// @Produce json
// @Param name path string true "Group name" example(admins)
// @Success 200 {object} models.MembersResponse
// @Failure 404 {object} models.Response
// @Router /groups/{name} [get]
func GetGroup(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetGroupService(w, r)
	}
}

// @Summary Set group membership
// @Description Make the given userids the complete membership of the group. Users not listed are removed from it.
// @Tags groups
// @Accept json
// @Produce json
// @Param name path string true "Group name" example(admins)
// @Param members body models.MembershipRequest true "Members"
// @Success 200 {object} models.MembersResponse
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /groups/{name} [put]
func UpdateGroup(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateGroupService(w, r)
	}
}

// @Summary Delete a group
// @Description Delete the group and remove it from every user.
// @Tags groups
// @Produce json
// @Param name path string true "Group name" example(admins)
// @Success 200 {object} models.ResultResponse
// @Failure 404 {object} models.Response
// @Router /groups/{name} [delete]
func DeleteGroup(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteGroupService(w, r)
	}
}
