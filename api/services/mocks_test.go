package services

import (
	"github.com/EO-DataHub/eodhp-directory-services/models"
	"github.com/stretchr/testify/mock"
)

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) AllUsers() []models.User {
	args := m.Called()
	return args.Get(0).([]models.User)
}

func (m *MockDirectory) UserExists(userid string) bool {
	args := m.Called(userid)
	return args.Bool(0)
}

func (m *MockDirectory) GetUser(userid string) (models.User, error) {
	args := m.Called(userid)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockDirectory) AddUser(user models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockDirectory) UpdateUser(user models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockDirectory) DeleteUser(userid string) error {
	args := m.Called(userid)
	return args.Error(0)
}

func (m *MockDirectory) AllGroups() []models.Group {
	args := m.Called()
	return args.Get(0).([]models.Group)
}

func (m *MockDirectory) GroupExists(name string) bool {
	args := m.Called(name)
	return args.Bool(0)
}

func (m *MockDirectory) GetGroup(name string) (models.Group, error) {
	args := m.Called(name)
	return args.Get(0).(models.Group), args.Error(1)
}

func (m *MockDirectory) AddGroup(group models.Group) error {
	args := m.Called(group)
	return args.Error(0)
}

func (m *MockDirectory) DeleteGroup(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockDirectory) GroupMembers(name string) ([]string, error) {
	args := m.Called(name)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDirectory) UpdateGroupMembership(name string, userids []string) error {
	args := m.Called(name, userids)
	return args.Error(0)
}
