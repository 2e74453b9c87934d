package services

import (
	"encoding/json"
	"testing"

	"github.com/roomloop/chat_backend/errs"
	"github.com/roomloop/chat_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomValidationAccumulates(t *testing.T) {
	users, rooms, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice")

	_, err := rooms.CreateRoom(alice, "ab", "short")
	require.Error(t, err)

	reqErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeValidation, reqErr.Code)
	require.Len(t, reqErr.Errors, 2)
	assert.Equal(t, "name", reqErr.Errors[0].Path)
	assert.Equal(t, "password", reqErr.Errors[1].Path)
}

func TestCreateRoomPrivacyDerivedFromPassword(t *testing.T) {
	users, rooms, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice")

	public, err := rooms.CreateRoom(alice, "General", "")
	require.NoError(t, err)
	assert.False(t, public.IsPrivate)

	private, err := rooms.CreateRoom(alice, "Test", "secret1")
	require.NoError(t, err)
	assert.True(t, private.IsPrivate)
	assert.True(t, private.IsCreatedByCurrentUser)
	assert.False(t, private.IsCurrentUserJoined)
	assert.Equal(t, 0, private.TotalParticipantCount)
}

func TestCreateRoomDoesNotStorePlaintext(t *testing.T) {
	users, rooms, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice")

	view, err := rooms.CreateRoom(alice, "Test", "secret1")
	require.NoError(t, err)

	var room models.Room
	require.NoError(t, rooms.db.First(&room, view.ID).Error)
	assert.NotEmpty(t, room.PasswordHash)
	assert.NotEqual(t, "secret1", room.PasswordHash)
}

func TestJoinPublicRoomRequiresNoPassword(t *testing.T) {
	users, rooms, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice")
	bob := registerTestUser(t, users, "bob")

	room, err := rooms.CreateRoom(alice, "General", "")
	require.NoError(t, err)

	require.NoError(t, rooms.JoinRoom(bob, room.ID, ""))

	view, err := rooms.GetRoomByID(bob, room.ID)
	require.NoError(t, err)
	assert.True(t, view.IsCurrentUserJoined)
	assert.Equal(t, 1, view.TotalParticipantCount)
}

func TestJoinPrivateRoomWrongPassword(t *testing.T) {
	users, rooms, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice")
	bob := registerTestUser(t, users, "bob")

	room, err := rooms.CreateRoom(alice, "Test", "secret1")
	require.NoError(t, err)

	err = rooms.JoinRoom(bob, room.ID, "wrong99")
	require.Error(t, err)

	reqErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeIncorrectPassword, reqErr.Code)

	// membership untouched
	view, err := rooms.GetRoomByID(bob, room.ID)
	require.NoError(t, err)
	assert.False(t, view.IsCurrentUserJoined)
	assert.Equal(t, 0, view.TotalParticipantCount)
}

func TestJoinPrivateRoomCorrectPassword(t *testing.T) {
	users, rooms, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice")
	bob := registerTestUser(t, users, "bob")

	room, err := rooms.CreateRoom(alice, "Test", "secret1")
	require.NoError(t, err)

	require.NoError(t, rooms.JoinRoom(bob, room.ID, "secret1"))

	// the participant count is viewer-independent
	bobView, err := rooms.GetRoomByID(bob, room.ID)
	require.NoError(t, err)
	aliceView, err := rooms.GetRoomByID(alice, room.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, bobView.TotalParticipantCount)
	assert.Equal(t, 1, aliceView.TotalParticipantCount)
	assert.True(t, bobView.IsCurrentUserJoined)
	assert.False(t, aliceView.IsCurrentUserJoined)
	assert.True(t, aliceView.IsCreatedByCurrentUser)
	assert.False(t, bobView.IsCreatedByCurrentUser)
}

func TestJoinTwiceKeepsMembershipUnique(t *testing.T) {
	users, rooms, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice")
	bob := registerTestUser(t, users, "bob")

	room, err := rooms.CreateRoom(alice, "General", "")
	require.NoError(t, err)

	require.NoError(t, rooms.JoinRoom(bob, room.ID, ""))
	require.NoError(t, rooms.JoinRoom(bob, room.ID, ""))

	view, err := rooms.GetRoomByID(bob, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.TotalParticipantCount)
}

func TestLeaveRoomIsIdempotent(t *testing.T) {
	users, rooms, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice")
	bob := registerTestUser(t, users, "bob")
	carol := registerTestUser(t, users, "carol")

	room, err := rooms.CreateRoom(alice, "General", "")
	require.NoError(t, err)
	require.NoError(t, rooms.JoinRoom(bob, room.ID, ""))

	// carol never joined: leaving is a no-op, not an error
	require.NoError(t, rooms.LeaveRoom(carol, room.ID))

	view, err := rooms.GetRoomByID(alice, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.TotalParticipantCount)

	require.NoError(t, rooms.LeaveRoom(bob, room.ID))
	require.NoError(t, rooms.LeaveRoom(bob, room.ID))

	view, err = rooms.GetRoomByID(alice, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.TotalParticipantCount)
}

func TestDeleteRoomPasswordGating(t *testing.T) {
	users, rooms, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice")

	private, err := rooms.CreateRoom(alice, "Test", "secret1")
	require.NoError(t, err)

	err = rooms.DeleteRoom(alice, private.ID, "wrong99")
	require.Error(t, err)
	reqErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeIncorrectPassword, reqErr.Code)

	_, err = rooms.GetRoomByID(alice, private.ID)
	require.NoError(t, err, "room must survive a failed delete")

	require.NoError(t, rooms.DeleteRoom(alice, private.ID, "secret1"))
	_, err = rooms.GetRoomByID(alice, private.ID)
	require.Error(t, err)

	// a room without a password deletes with any or no password supplied
	public, err := rooms.CreateRoom(alice, "General", "")
	require.NoError(t, err)
	require.NoError(t, rooms.DeleteRoom(alice, public.ID, "whatever"))
}

func TestListRoomsPagination(t *testing.T) {
	users, rooms, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice")

	for i := 0; i < 9; i++ {
		_, err := rooms.CreateRoom(alice, testUsername(i)+" room", "")
		require.NoError(t, err)
	}

	page1, totalPages, err := rooms.ListRooms(alice, RoomsFilter{Page: 1})
	require.NoError(t, err)
	assert.Len(t, page1, 4)
	assert.Equal(t, 3, totalPages)

	page3, _, err := rooms.ListRooms(alice, RoomsFilter{Page: 3})
	require.NoError(t, err)
	assert.Len(t, page3, 1)

	page4, _, err := rooms.ListRooms(alice, RoomsFilter{Page: 4})
	require.NoError(t, err)
	assert.Empty(t, page4)
}

func TestListRoomsAccessFilter(t *testing.T) {
	users, rooms, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice")

	_, err := rooms.CreateRoom(alice, "General", "")
	require.NoError(t, err)
	_, err = rooms.CreateRoom(alice, "Hideout", "secret1")
	require.NoError(t, err)

	public, _, err := rooms.ListRooms(alice, RoomsFilter{Access: "public"})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "General", public[0].Name)
	assert.False(t, public[0].IsPrivate)

	private, _, err := rooms.ListRooms(alice, RoomsFilter{Access: "private"})
	require.NoError(t, err)
	require.Len(t, private, 1)
	assert.Equal(t, "Hideout", private[0].Name)
	assert.True(t, private[0].IsPrivate)

	all, _, err := rooms.ListRooms(alice, RoomsFilter{Access: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListRoomsSearchIsCaseInsensitive(t *testing.T) {
	users, rooms, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice")

	_, err := rooms.CreateRoom(alice, "General", "")
	require.NoError(t, err)
	_, err = rooms.CreateRoom(alice, "random", "")
	require.NoError(t, err)

	found, _, err := rooms.ListRooms(alice, RoomsFilter{Search: "GEN"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "General", found[0].Name)
}

func TestParticipantPreviewIsBounded(t *testing.T) {
	users, rooms, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice")

	room, err := rooms.CreateRoom(alice, "General", "")
	require.NoError(t, err)

	joiners := make([]*models.User, 0, 5)
	for i := 0; i < 5; i++ {
		u := registerTestUser(t, users, testUsername(i))
		joiners = append(joiners, u)
		require.NoError(t, rooms.JoinRoom(u, room.ID, ""))
	}

	view, err := rooms.GetRoomByID(alice, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, view.TotalParticipantCount)
	require.Len(t, view.Participants, 2, "preview is a bounded slice, not the full list")
	assert.Equal(t, joiners[0].ID, view.Participants[0].ID)
	assert.Equal(t, joiners[1].ID, view.Participants[1].ID)
}

func TestGetRoomParticipantsPagesInJoinOrder(t *testing.T) {
	users, rooms, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice")

	room, err := rooms.CreateRoom(alice, "General", "")
	require.NoError(t, err)

	joiners := make([]*models.User, 0, 6)
	for i := 0; i < 6; i++ {
		u := registerTestUser(t, users, testUsername(i))
		joiners = append(joiners, u)
		require.NoError(t, rooms.JoinRoom(u, room.ID, ""))
	}

	first, err := rooms.GetRoomParticipants(room.ID, 0)
	require.NoError(t, err)
	require.Len(t, first, 4)
	for i, u := range first {
		assert.Equal(t, joiners[i].ID, u.ID)
	}

	rest, err := rooms.GetRoomParticipants(room.ID, 4)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, joiners[4].ID, rest[0].ID)

	beyond, err := rooms.GetRoomParticipants(room.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestRoomViewNeverLeaksPassword(t *testing.T) {
	users, rooms, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice")

	view, err := rooms.CreateRoom(alice, "Test", "secret1")
	require.NoError(t, err)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "secret1")
}

func TestRoomsCreatedByAndJoinedBy(t *testing.T) {
	users, rooms, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice")
	bob := registerTestUser(t, users, "bob")

	created, err := rooms.CreateRoom(alice, "General", "")
	require.NoError(t, err)
	_, err = rooms.CreateRoom(bob, "Other", "")
	require.NoError(t, err)

	require.NoError(t, rooms.JoinRoom(bob, created.ID, ""))

	aliceCreated, err := rooms.RoomsCreatedBy(bob, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceCreated, 1)
	assert.Equal(t, "General", aliceCreated[0].Name)

	bobJoined, err := rooms.RoomsJoinedBy(bob, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobJoined, 1)
	assert.Equal(t, created.ID, bobJoined[0].ID)
	assert.True(t, bobJoined[0].IsCurrentUserJoined)

	// the creator does not auto-join their own room
	aliceJoined, err := rooms.RoomsJoinedBy(alice, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, aliceJoined)
}
