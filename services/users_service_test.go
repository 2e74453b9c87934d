package services

import (
	"testing"

	"github.com/roomloop/chat_backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidationCollectsEveryField(t *testing.T) {
	users, _, _ := newTestServices(t)

	_, err := users.Register("ab", "x", "", "pw")
	require.Error(t, err)

	reqErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeValidation, reqErr.Code)
	require.Len(t, reqErr.Errors, 4, "all invalid fields are reported, not just the first")

	paths := make([]string, 0, len(reqErr.Errors))
	for _, fe := range reqErr.Errors {
		paths = append(paths, fe.Path)
		assert.NotEmpty(t, fe.Messages)
	}
	assert.Equal(t, []string{"username", "firstName", "lastName", "password"}, paths)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	users, _, _ := newTestServices(t)

	_, err := users.Register("alice", "Alice", "Cooper", "secret1")
	require.NoError(t, err)

	_, err = users.Register("alice", "Other", "Person", "secret2")
	require.Error(t, err)

	reqErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeUserAlreadyExists, reqErr.Code)
}

func TestLoginChecksCredentials(t *testing.T) {
	users, _, _ := newTestServices(t)

	registered, err := users.Register("alice", "Alice", "Cooper", "secret1")
	require.NoError(t, err)

	user, err := users.Login("alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = users.Login("alice", "wrong99")
	require.Error(t, err)
	reqErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeIncorrectPassword, reqErr.Code)

	_, err = users.Login("nobody", "secret1")
	require.Error(t, err)
	reqErr, ok = errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeUserNotFound, reqErr.Code)
}

func TestListUsersPresenceFilter(t *testing.T) {
	users, _, _ := newTestServices(t)

	alice := registerTestUser(t, users, "alice")
	registerTestUser(t, users, "bob")

	require.NoError(t, users.SetOnlineStatus(alice.ID, true))

	online, _, err := users.ListUsers(UsersFilter{Sort: "online"})
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, "alice", online[0].Username)

	offline, _, err := users.ListUsers(UsersFilter{Sort: "offline"})
	require.NoError(t, err)
	require.Len(t, offline, 1)
	assert.Equal(t, "bob", offline[0].Username)

	require.NoError(t, users.SetOnlineStatus(alice.ID, false))
	offline, _, err = users.ListUsers(UsersFilter{Sort: "offline"})
	require.NoError(t, err)
	assert.Len(t, offline, 2)
}

func TestListUsersSearchAndPagination(t *testing.T) {
	users, _, _ := newTestServices(t)

	for i := 0; i < 9; i++ {
		registerTestUser(t, users, testUsername(i))
	}

	page1, totalPages, err := users.ListUsers(UsersFilter{Page: 1})
	require.NoError(t, err)
	assert.Len(t, page1, 4)
	assert.Equal(t, 3, totalPages)

	page4, _, err := users.ListUsers(UsersFilter{Page: 4})
	require.NoError(t, err)
	assert.Empty(t, page4)

	found, _, err := users.ListUsers(UsersFilter{Search: "USER00"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "user00", found[0].Username)
}

func TestUpdateProfile(t *testing.T) {
	users, _, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice")

	updated, err := users.UpdateProfile(alice.ID, ProfileUpdate{
		FirstName: "Alicia",
		AvatarURL: "/uploads/avatars/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FirstName)
	assert.Equal(t, "/uploads/avatars/a.png", updated.AvatarURL)
	assert.Equal(t, "alice", updated.Username, "untouched fields survive")

	updated, err = users.UpdateProfile(alice.ID, ProfileUpdate{RemoveAvatar: true})
	require.NoError(t, err)
	assert.Empty(t, updated.AvatarURL)

	_, err = users.UpdateProfile(alice.ID, ProfileUpdate{Username: "x"})
	require.Error(t, err)
	reqErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeValidation, reqErr.Code)
}
