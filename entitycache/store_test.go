package entitycache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertReplacesByID(t *testing.T) {
	store := NewStore()

	store.UpsertUsers([]User{{ID: 1, Username: "alice", IsOnline: true}})
	store.UpsertUsers([]User{{ID: 1, Username: "alice", FirstName: "Alice"}})

	user, ok := store.User(1)
	require.True(t, ok)
	assert.Equal(t, "Alice", user.FirstName)
	assert.False(t, user.IsOnline, "incoming record fully replaces the stored one")
}

func TestRoomsByIDsPreservesOrderAndSkipsDangling(t *testing.T) {
	store := NewStore()
	store.UpsertRooms([]Room{
		{ID: 1, Name: "a"},
		{ID: 2, Name: "b"},
		{ID: 3, Name: "c"},
	})

	rooms := store.RoomsByIDs([]uint{3, 99, 1})
	require.Len(t, rooms, 2)
	assert.Equal(t, "c", rooms[0].Name)
	assert.Equal(t, "a", rooms[1].Name)
}

func TestPatchRoomLeavesNilFieldsUntouched(t *testing.T) {
	store := NewStore()
	store.UpsertRooms([]Room{{
		ID:                    1,
		Name:                  "General",
		ParticipantIDs:        []uint{7},
		TotalParticipantCount: 1,
	}})

	count := 2
	ids := []uint{7, 8}
	ok := store.PatchRoom(1, RoomPatch{
		ParticipantIDs:        &ids,
		TotalParticipantCount: &count,
	})
	require.True(t, ok)

	room, found := store.Room(1)
	require.True(t, found)
	assert.Equal(t, "General", room.Name)
	assert.Equal(t, []uint{7, 8}, room.ParticipantIDs)
	assert.Equal(t, 2, room.TotalParticipantCount)
}

func TestPatchMissingEntityIsNoOp(t *testing.T) {
	store := NewStore()

	online := true
	assert.False(t, store.PatchUser(42, UserPatch{IsOnline: &online}))
	assert.False(t, store.PatchRoom(42, RoomPatch{}))
}

func TestRoomCopiesDoNotAliasTheStore(t *testing.T) {
	store := NewStore()
	store.UpsertRooms([]Room{{ID: 1, ParticipantIDs: []uint{1, 2}}})

	room, _ := store.Room(1)
	room.ParticipantIDs[0] = 99

	fresh, _ := store.Room(1)
	assert.Equal(t, []uint{1, 2}, fresh.ParticipantIDs)
}

func TestRemoveRoom(t *testing.T) {
	store := NewStore()
	store.UpsertRooms([]Room{{ID: 1}})

	store.RemoveRoom(1)
	_, ok := store.Room(1)
	assert.False(t, ok)

	// removing again is harmless
	store.RemoveRoom(1)
}
