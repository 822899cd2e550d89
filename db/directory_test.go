package db

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/EO-DataHub/eodhp-directory-services/internal/events"
	"github.com/EO-DataHub/eodhp-directory-services/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(event events.DirectoryEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockNotifier) Close() {
	m.Called()
}

func groups(names ...string) []models.Group {
	out := make([]models.Group, 0, len(names))
	for _, n := range names {
		out = append(out, models.Group{Name: n})
	}
	return out
}

// newTestDirectory returns a directory holding the bootstrap data the
// service ships with.
func newTestDirectory(t *testing.T) *DirectoryDB {
	t.Helper()

	d := NewDirectoryDB(nil, nil)
	err := d.Seed(groups("users", "admins", "execs", "pirates"), []models.User{
		{UserID: "jsmith", FirstName: "Joe", LastName: "Smith", Groups: groups("admins", "users")},
		{UserID: "jjones", FirstName: "Jane", LastName: "Jones", Groups: groups("users", "execs")},
		{UserID: "jsparrow", FirstName: "Jack", LastName: "Sparrow", Groups: groups("users", "pirates")},
	})
	require.NoError(t, err)
	return d
}

func TestAllUsers(t *testing.T) {
	d := newTestDirectory(t)

	users := d.AllUsers()
	require.Len(t, users, 3)
	assert.Equal(t, "jsmith", users[0].UserID)
	assert.Equal(t, "jjones", users[1].UserID)
	assert.Equal(t, "jsparrow", users[2].UserID)
	assert.Equal(t, users, d.AllUsers(), "listing is stable without intervening mutation")
}

func TestAllUsers_Empty(t *testing.T) {
	d := NewDirectoryDB(nil, nil)
	assert.Empty(t, d.AllUsers())
	assert.Empty(t, d.AllGroups())
}

func TestUserExists(t *testing.T) {
	d := newTestDirectory(t)

	assert.True(t, d.UserExists("jsmith"))
	assert.True(t, d.UserExists("jjones"))
	assert.False(t, d.UserExists("pjiasasdf9"))
}

func TestGetUser(t *testing.T) {
	d := newTestDirectory(t)

	user, err := d.GetUser("jsmith")
	require.NoError(t, err)
	assert.Equal(t, "Joe", user.FirstName)
	assert.Equal(t, "Smith", user.LastName)
	assert.Equal(t, []string{"admins", "users"}, user.GroupNames())
}

func TestGetUser_NotFound(t *testing.T) {
	d := newTestDirectory(t)

	_, err := d.GetUser(";apoijpoiajsdf")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUser_ReturnsCopy(t *testing.T) {
	d := newTestDirectory(t)

	user, err := d.GetUser("jsmith")
	require.NoError(t, err)
	user.FirstName = "Changed"
	user.RemoveGroup(models.Group{Name: "admins"})
	user.Groups[0].Name = "mutated"

	again, err := d.GetUser("jsmith")
	require.NoError(t, err)
	assert.Equal(t, "Joe", again.FirstName)
	assert.Equal(t, []string{"admins", "users"}, again.GroupNames())
}

func TestAddUser(t *testing.T) {
	d := newTestDirectory(t)
	count := len(d.AllUsers())

	added := models.User{UserID: "u002", FirstName: "jimmy", LastName: "user", Groups: groups("users", "pirates")}
	require.NoError(t, d.AddUser(added))

	assert.Len(t, d.AllUsers(), count+1)
	assert.True(t, d.UserExists("u002"))

	got, err := d.GetUser("u002")
	require.NoError(t, err)
	assert.Equal(t, added, got)
}

func TestAddUser_NoGroups(t *testing.T) {
	d := newTestDirectory(t)

	require.NoError(t, d.AddUser(models.User{UserID: "u001", FirstName: "joe", LastName: "user"}))

	got, err := d.GetUser("u001")
	require.NoError(t, err)
	assert.Empty(t, got.Groups)
}

func TestAddUser_DuplicateGroupsStoredOnce(t *testing.T) {
	d := newTestDirectory(t)

	require.NoError(t, d.AddUser(models.User{UserID: "u007", Groups: groups("users", "users")}))

	got, err := d.GetUser("u007")
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, got.GroupNames())
}

func TestAddUser_Conflict(t *testing.T) {
	d := newTestDirectory(t)
	require.NoError(t, d.AddUser(models.User{UserID: "u003", FirstName: "jack", LastName: "user"}))
	count := len(d.AllUsers())

	err := d.AddUser(models.User{UserID: "u003", FirstName: "other", LastName: "person"})
	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, ErrUserExists)

	assert.Len(t, d.AllUsers(), count)
	got, err := d.GetUser("u003")
	require.NoError(t, err)
	assert.Equal(t, "jack", got.FirstName, "existing record is unchanged")
}

func TestAddUser_UnknownGroup(t *testing.T) {
	d := newTestDirectory(t)
	count := len(d.AllUsers())

	err := d.AddUser(models.User{UserID: "u004", FirstName: "who", LastName: "cares", Groups: groups("users", "ap-8u9-8aojoia")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrGroupNotFound)

	assert.Len(t, d.AllUsers(), count)
	assert.False(t, d.UserExists("u004"))
}

func TestUpdateUser(t *testing.T) {
	d := newTestDirectory(t)

	err := d.UpdateUser(models.User{UserID: "jjones", FirstName: "Janet", LastName: "Jones", Groups: groups("admins")})
	require.NoError(t, err)

	got, err := d.GetUser("jjones")
	require.NoError(t, err)
	assert.Equal(t, "Janet", got.FirstName)
	assert.Equal(t, []string{"admins"}, got.GroupNames())

	users := d.AllUsers()
	assert.Equal(t, "jjones", users[1].UserID, "replacement keeps the listing position")
}

func TestUpdateUser_NotFound(t *testing.T) {
	d := newTestDirectory(t)
	count := len(d.AllUsers())

	err := d.UpdateUser(models.User{UserID: "u005", FirstName: "what", LastName: "ever"})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Len(t, d.AllUsers(), count)
	assert.False(t, d.UserExists("u005"))
}

func TestUpdateUser_UnknownGroup(t *testing.T) {
	d := newTestDirectory(t)
	require.NoError(t, d.AddUser(models.User{UserID: "u006", FirstName: "tammy", LastName: "nguyen", Groups: groups("admins")}))
	before, err := d.GetUser("u006")
	require.NoError(t, err)

	err = d.UpdateUser(models.User{UserID: "u006", FirstName: "tammy", LastName: "smith", Groups: groups("admins", "nope")})
	assert.ErrorIs(t, err, ErrGroupNotFound)

	after, err := d.GetUser("u006")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDeleteUser(t *testing.T) {
	d := newTestDirectory(t)

	require.NoError(t, d.DeleteUser("jsparrow"))
	assert.False(t, d.UserExists("jsparrow"))
	assert.Len(t, d.AllUsers(), 2)

	err := d.DeleteUser("jsparrow")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAllGroups(t *testing.T) {
	d := newTestDirectory(t)

	assert.Equal(t, groups("users", "admins", "execs", "pirates"), d.AllGroups())
}

func TestGroupExists(t *testing.T) {
	d := newTestDirectory(t)

	assert.True(t, d.GroupExists("admins"))
	assert.False(t, d.GroupExists("ninjas"))
}

func TestAddGroup(t *testing.T) {
	d := newTestDirectory(t)

	require.NoError(t, d.AddGroup(models.Group{Name: "ninjas"}))
	assert.True(t, d.GroupExists("ninjas"))

	g, err := d.GetGroup("ninjas")
	require.NoError(t, err)
	assert.Equal(t, "ninjas", g.Name)
}

func TestAddGroup_Conflict(t *testing.T) {
	d := newTestDirectory(t)

	err := d.AddGroup(models.Group{Name: "admins"})
	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, ErrGroupExists)
	assert.Len(t, d.AllGroups(), 4)
}

func TestGetGroup_NotFound(t *testing.T) {
	d := newTestDirectory(t)

	_, err := d.GetGroup("ninjas")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestDeleteGroup_Cascades(t *testing.T) {
	d := newTestDirectory(t)
	require.NoError(t, d.AddGroup(models.Group{Name: "temp"}))
	require.NoError(t, d.AddUser(models.User{UserID: "u1", Groups: groups("temp")}))
	require.NoError(t, d.AddUser(models.User{UserID: "u2", Groups: groups("temp")}))

	require.NoError(t, d.DeleteGroup("temp"))

	assert.NotContains(t, d.AllGroups(), models.Group{Name: "temp"})
	for _, id := range []string{"u1", "u2"} {
		u, err := d.GetUser(id)
		require.NoError(t, err)
		assert.Empty(t, u.Groups)
	}
}

func TestDeleteGroup_RemovesFromEveryUser(t *testing.T) {
	d := newTestDirectory(t)

	require.NoError(t, d.DeleteGroup("users"))

	for _, u := range d.AllUsers() {
		assert.False(t, u.HasGroup(models.Group{Name: "users"}), "user %s still in deleted group", u.UserID)
	}
	jsmith, err := d.GetUser("jsmith")
	require.NoError(t, err)
	assert.Equal(t, []string{"admins"}, jsmith.GroupNames())
}

func TestDeleteGroup_NotFound(t *testing.T) {
	d := newTestDirectory(t)

	err := d.DeleteGroup("ninjas")
	assert.ErrorIs(t, err, ErrGroupNotFound)
	assert.Len(t, d.AllGroups(), 4)
}

func TestGroupMembers(t *testing.T) {
	d := newTestDirectory(t)

	members, err := d.GroupMembers("users")
	require.NoError(t, err)
	assert.Equal(t, []string{"jsmith", "jjones", "jsparrow"}, members)

	require.NoError(t, d.AddGroup(models.Group{Name: "empty"}))
	members, err = d.GroupMembers("empty")
	require.NoError(t, err)
	assert.NotNil(t, members)
	assert.Empty(t, members)

	_, err = d.GroupMembers("ninjas")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestUpdateGroupMembership_ClearsAdmins(t *testing.T) {
	d := newTestDirectory(t)

	require.NoError(t, d.UpdateGroupMembership("admins", []string{}))

	jsmith, err := d.GetUser("jsmith")
	require.NoError(t, err)
	assert.False(t, jsmith.HasGroup(models.Group{Name: "admins"}))
	assert.Equal(t, []string{"users"}, jsmith.GroupNames())
}

func TestUpdateGroupMembership_ReplacesMembership(t *testing.T) {
	d := newTestDirectory(t)

	require.NoError(t, d.UpdateGroupMembership("pirates", []string{"jsmith", "jjones"}))

	members, err := d.GroupMembers("pirates")
	require.NoError(t, err)
	assert.Equal(t, []string{"jsmith", "jjones"}, members)

	jsparrow, err := d.GetUser("jsparrow")
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, jsparrow.GroupNames())
}

func TestUpdateGroupMembership_Idempotent(t *testing.T) {
	once := newTestDirectory(t)
	twice := newTestDirectory(t)
	ids := []string{"jsparrow", "jsmith"}

	require.NoError(t, once.UpdateGroupMembership("execs", ids))
	require.NoError(t, twice.UpdateGroupMembership("execs", ids))
	require.NoError(t, twice.UpdateGroupMembership("execs", ids))

	assert.Equal(t, once.AllUsers(), twice.AllUsers())
}

func TestUpdateGroupMembership_UnknownUser(t *testing.T) {
	d := newTestDirectory(t)
	before := d.AllUsers()

	err := d.UpdateGroupMembership("admins", []string{"jjones", "ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, before, d.AllUsers())
}

func TestUpdateGroupMembership_UnknownGroup(t *testing.T) {
	d := newTestDirectory(t)
	before := d.AllUsers()

	err := d.UpdateGroupMembership("ninjas", []string{"jsmith"})
	assert.ErrorIs(t, err, ErrGroupNotFound)
	assert.Equal(t, before, d.AllUsers())
}

func TestSeed_StopsOnUnknownGroup(t *testing.T) {
	d := NewDirectoryDB(nil, nil)

	err := d.Seed(groups("users"), []models.User{{UserID: "x", Groups: groups("admins")}})
	assert.ErrorIs(t, err, ErrGroupNotFound)
	assert.False(t, d.UserExists("x"))
}

func TestMutations_NotifyOnSuccessOnly(t *testing.T) {
	notifier := new(MockNotifier)
	d := NewDirectoryDB(notifier, nil)

	notifier.On("Notify", mock.MatchedBy(func(e events.DirectoryEvent) bool {
		return e.Action == events.GroupCreated && e.Group == "admins" && e.ID != "" && e.Timestamp > 0
	})).Return(nil).Once()
	notifier.On("Notify", mock.MatchedBy(func(e events.DirectoryEvent) bool {
		return e.Action == events.UserCreated && e.UserID == "jsmith"
	})).Return(nil).Once()
	notifier.On("Notify", mock.MatchedBy(func(e events.DirectoryEvent) bool {
		return e.Action == events.MembershipUpdated && e.Group == "admins"
	})).Return(errors.New("broker down")).Once()

	require.NoError(t, d.AddGroup(models.Group{Name: "admins"}))
	require.NoError(t, d.AddUser(models.User{UserID: "jsmith", Groups: groups("admins")}))
	assert.Error(t, d.AddUser(models.User{UserID: "jsmith"}))
	assert.Error(t, d.DeleteGroup("ninjas"))

	// A failed publish does not undo the mutation.
	require.NoError(t, d.UpdateGroupMembership("admins", nil))
	jsmith, err := d.GetUser("jsmith")
	require.NoError(t, err)
	assert.Empty(t, jsmith.Groups)

	// Close waits for queued events to be sent.
	notifier.On("Close").Return().Once()
	require.NoError(t, d.Close())

	notifier.AssertExpectations(t)
	notifier.AssertNumberOfCalls(t, "Notify", 3)
	notifier.AssertCalled(t, "Close")
}

// slowNotifier records the actions it is told about and stalls on the
// first user.created it sees.
type slowNotifier struct {
	mu      sync.Mutex
	actions []events.Action
	stalled bool
	closed  bool
}

func (n *slowNotifier) Notify(event events.DirectoryEvent) error {
	n.mu.Lock()
	stall := event.Action == events.UserCreated && !n.stalled
	n.stalled = n.stalled || stall
	n.mu.Unlock()

	if stall {
		time.Sleep(50 * time.Millisecond)
	}

	n.mu.Lock()
	n.actions = append(n.actions, event.Action)
	n.mu.Unlock()
	return nil
}

func (n *slowNotifier) Close() {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()
}

func TestEvents_PublishedInCommitOrder(t *testing.T) {
	notifier := &slowNotifier{}
	d := NewDirectoryDB(notifier, nil)

	created := make(chan struct{})
	go func() {
		defer close(created)
		assert.NoError(t, d.AddUser(models.User{UserID: "x"}))
	}()

	require.Eventually(t, func() bool { return d.UserExists("x") }, time.Second, time.Millisecond)
	require.NoError(t, d.DeleteUser("x"))
	<-created

	require.NoError(t, d.Close())

	assert.Equal(t, []events.Action{events.UserCreated, events.UserDeleted}, notifier.actions)
	assert.True(t, notifier.closed)
}

func TestClose_StopsEvents(t *testing.T) {
	notifier := new(MockNotifier)
	d := NewDirectoryDB(notifier, nil)

	notifier.On("Close").Return().Once()
	require.NoError(t, d.Close())
	require.NoError(t, d.Close(), "closing twice is harmless")

	// Mutations still apply once the notifier is gone.
	require.NoError(t, d.AddGroup(models.Group{Name: "admins"}))
	assert.True(t, d.GroupExists("admins"))

	notifier.AssertNotCalled(t, "Notify", mock.Anything)
	notifier.AssertNumberOfCalls(t, "Close", 1)
}

func TestUpdateGroupMembership_EventOwnsUserIDs(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewDirectoryDB(notifier, nil)
	require.NoError(t, d.Seed(groups("admins"), []models.User{{UserID: "jsmith"}}))

	ids := []string{"jsmith"}
	require.NoError(t, d.UpdateGroupMembership("admins", ids))
	ids[0] = "changed"
	require.NoError(t, d.Close())

	require.Len(t, notifier.events, 1)
	assert.Equal(t, []string{"jsmith"}, notifier.events[0].UserIDs)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []events.DirectoryEvent
}

func (n *recordingNotifier) Notify(event events.DirectoryEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) Close() {}

func TestConcurrentMutations(t *testing.T) {
	d := newTestDirectory(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = d.UpdateGroupMembership("pirates", []string{"jsmith"})
		}()
		go func() {
			defer wg.Done()
			for _, u := range d.AllUsers() {
				assert.NotEmpty(t, u.UserID)
			}
		}()
	}
	wg.Wait()

	members, err := d.GroupMembers("pirates")
	require.NoError(t, err)
	assert.Equal(t, []string{"jsmith"}, members)
}
