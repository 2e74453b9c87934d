package entitycache

import (
	"sync"
)

// Store holds the canonical entities. It is the only place room and user
// data lives client-side; everything else references entities by id.
type Store struct {
	mu    sync.RWMutex
	rooms map[uint]Room
	users map[uint]User
}

func NewStore() *Store {
	return &Store{
		rooms: make(map[uint]Room),
		users: make(map[uint]User),
	}
}

// ApplyNormalized merges a flattened payload's entities into the store. The
// caller stores the result ids in its view only after this returns, so a
// view never references an id the store has not seen.
func (s *Store) ApplyNormalized(n Normalized) {
	s.UpsertRooms(n.Rooms)
	s.UpsertUsers(n.Users)
}

// UpsertRooms merges rooms by id; an incoming record fully replaces the
// fields of an existing one.
func (s *Store) UpsertRooms(rooms []Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, room := range rooms {
		room.ParticipantIDs = cloneIDs(room.ParticipantIDs)
		s.rooms[room.ID] = room
	}
}

// UpsertUsers merges users by id; an incoming record fully replaces the
// fields of an existing one.
func (s *Store) UpsertUsers(users []User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range users {
		s.users[user.ID] = user
	}
}

// PatchRoom updates the non-nil fields of a cached room. Patching an id not
// in the store is a no-op and reports false.
func (s *Store) PatchRoom(id uint, patch RoomPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return false
	}

	if patch.Name != nil {
		room.Name = *patch.Name
	}
	if patch.ParticipantIDs != nil {
		room.ParticipantIDs = cloneIDs(*patch.ParticipantIDs)
	}
	if patch.IsCurrentUserJoined != nil {
		room.IsCurrentUserJoined = *patch.IsCurrentUserJoined
	}
	if patch.TotalParticipantCount != nil {
		room.TotalParticipantCount = *patch.TotalParticipantCount
	}

	s.rooms[id] = room
	return true
}

// PatchUser updates the non-nil fields of a cached user. Patching an id not
// in the store is a no-op and reports false.
func (s *Store) PatchUser(id uint, patch UserPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return false
	}

	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = *patch.AvatarURL
	}
	if patch.IsOnline != nil {
		user.IsOnline = *patch.IsOnline
	}

	s.users[id] = user
	return true
}

// RemoveRoom drops a room from the canonical store. Views still holding the
// id tolerate the dangling reference; their selectors skip it.
func (s *Store) RemoveRoom(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

// Room returns a copy of the cached room.
func (s *Store) Room(id uint) (Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return Room{}, false
	}
	room.ParticipantIDs = cloneIDs(room.ParticipantIDs)
	return room, true
}

// User returns a copy of the cached user.
func (s *Store) User(id uint) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	return user, ok
}

// RoomsByIDs returns the cached rooms for ids, in order, skipping ids not in
// the store.
func (s *Store) RoomsByIDs(ids []uint) []Room {
	rooms := make([]Room, 0, len(ids))
	for _, id := range ids {
		if room, ok := s.Room(id); ok {
			rooms = append(rooms, room)
		}
	}
	return rooms
}

// UsersByIDs returns the cached users for ids, in order, skipping ids not in
// the store.
func (s *Store) UsersByIDs(ids []uint) []User {
	users := make([]User, 0, len(ids))
	for _, id := range ids {
		if user, ok := s.User(id); ok {
			users = append(users, user)
		}
	}
	return users
}

func cloneIDs(ids []uint) []uint {
	if ids == nil {
		return nil
	}
	out := make([]uint, len(ids))
	copy(out, ids)
	return out
}
