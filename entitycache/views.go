package entitycache

import (
	"sync"
)

// RoomList is one view over the store: an ordered id list plus fetch
// metadata. It never holds entity copies.
type RoomList struct {
	IDs        []uint
	IsFetching bool
	Err        string
	TotalPages int
}

// UserList is a user view over the store, same shape as RoomList.
type UserList struct {
	IDs        []uint
	IsFetching bool
	Err        string
}

// Client bundles the canonical store with the room views of the UI (feed,
// profile-created, profile-joined) and the optimistic/presence patching
// around them. All mutation goes through one mutex, standing in for the UI
// dispatch queue: a presence patch and a fetch response cannot interleave
// destructively.
type Client struct {
	mu             sync.Mutex
	store          *Store
	feed           RoomList
	profileCreated RoomList
	profileJoined  RoomList
	participants   UserList

	// currentUserID is who this cache is denormalized for; server-computed
	// viewer fields in the cached rooms refer to this user.
	currentUserID uint
}

func NewClient(currentUserID uint) *Client {
	return &Client{
		store:         NewStore(),
		currentUserID: currentUserID,
	}
}

// Store exposes the canonical entity store.
func (c *Client) Store() *Store {
	return c.store
}

// FeedFetchStarted marks the feed as loading.
func (c *Client) FeedFetchStarted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feed.IsFetching = true
	c.feed.Err = ""
}

// ApplyFeedResponse normalizes a feed response, merges its entities and only
// then stores the result ids, so the view never points at ids the store has
// not absorbed.
func (c *Client) ApplyFeedResponse(resp RoomsResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := Normalize(resp.Rooms)
	c.store.ApplyNormalized(n)
	c.feed.IDs = n.Result
	c.feed.IsFetching = false
	c.feed.TotalPages = resp.TotalPages
}

// FeedFetchFailed records a terminal fetch error on the feed view.
func (c *Client) FeedFetchFailed(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feed.IsFetching = false
	c.feed.Err = message
}

// Feed returns the denormalized feed rooms plus the view metadata.
func (c *Client) Feed() ([]RoomPayload, RoomList) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Denormalize(c.feed.IDs, c.store), c.feed
}

// ApplyCreatedResponse fills the profile-created view.
func (c *Client) ApplyCreatedResponse(resp RoomsResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := Normalize(resp.Rooms)
	c.store.ApplyNormalized(n)
	c.profileCreated.IDs = n.Result
	c.profileCreated.IsFetching = false
}

// RoomsCreated returns the denormalized profile-created rooms.
func (c *Client) RoomsCreated() ([]RoomPayload, RoomList) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Denormalize(c.profileCreated.IDs, c.store), c.profileCreated
}

// ApplyJoinedResponse fills the profile-joined view.
func (c *Client) ApplyJoinedResponse(resp RoomsResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := Normalize(resp.Rooms)
	c.store.ApplyNormalized(n)
	c.profileJoined.IDs = n.Result
	c.profileJoined.IsFetching = false
}

// RoomsJoined returns the denormalized profile-joined rooms.
func (c *Client) RoomsJoined() ([]RoomPayload, RoomList) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Denormalize(c.profileJoined.IDs, c.store), c.profileJoined
}

// ApplyParticipantsResponse fills the participants popup view from a page of
// the room participants endpoint.
func (c *Client) ApplyParticipantsResponse(users []User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.UpsertUsers(users)
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	c.participants.IDs = ids
	c.participants.IsFetching = false
}

// Participants returns the denormalized participants popup users.
func (c *Client) Participants() ([]User, UserList) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.UsersByIDs(c.participants.IDs), c.participants
}

// JoinedRoom applies the optimistic membership patch after a successful join
// call: the current user is appended to the room's participants and the
// viewer fields updated, with no re-fetch.
func (c *Client) JoinedRoom(roomID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.store.Room(roomID)
	if !ok {
		return
	}

	ids := append(room.ParticipantIDs, c.currentUserID)
	joined := true
	count := room.TotalParticipantCount + 1
	c.store.PatchRoom(roomID, RoomPatch{
		ParticipantIDs:        &ids,
		IsCurrentUserJoined:   &joined,
		TotalParticipantCount: &count,
	})
}

// LeftRoom applies the optimistic membership patch after a successful leave
// call.
func (c *Client) LeftRoom(roomID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.store.Room(roomID)
	if !ok {
		return
	}

	ids := make([]uint, 0, len(room.ParticipantIDs))
	for _, id := range room.ParticipantIDs {
		if id != c.currentUserID {
			ids = append(ids, id)
		}
	}

	joined := false
	count := room.TotalParticipantCount - 1
	c.store.PatchRoom(roomID, RoomPatch{
		ParticipantIDs:        &ids,
		IsCurrentUserJoined:   &joined,
		TotalParticipantCount: &count,
	})
}

// RoomDeleted removes the room from the store and from the feed id list.
// Other views referencing the id rely on selector dangling-id tolerance.
func (c *Client) RoomDeleted(roomID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.RemoveRoom(roomID)

	ids := make([]uint, 0, len(c.feed.IDs))
	for _, id := range c.feed.IDs {
		if id != roomID {
			ids = append(ids, id)
		}
	}
	c.feed.IDs = ids
}

// ApplyPresence patches a user's online flag in place. Every view
// referencing the user observes the change without any view-specific
// plumbing.
func (c *Client) ApplyPresence(userID uint, online bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.PatchUser(userID, UserPatch{IsOnline: &online})
}
