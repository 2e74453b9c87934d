// Package entitycache is the client-side normalized store of room and user
// records. Entities are canonical and deduplicated by id; UI views hold only
// ordered id lists plus fetch metadata and re-derive their denormalized
// slices from the store, so a presence patch or an optimistic membership
// patch is instantly visible to every view referencing the entity.
package entitycache

// User is a cached user entity.
type User struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	IsOnline  bool   `json:"isOnline"`
}

// Room is a cached room entity. Relations are id references; the
// viewer-relative fields (IsCurrentUserJoined, TotalParticipantCount,
// IsCreatedByCurrentUser) were computed server-side for the fetching user
// and are stored as plain attributes, never recomputed locally.
type Room struct {
	ID                     uint   `json:"id"`
	Name                   string `json:"name"`
	IsPrivate              bool   `json:"isPrivate"`
	CreatorID              uint   `json:"creatorId"`
	ParticipantIDs         []uint `json:"participantIds"`
	IsCurrentUserJoined    bool   `json:"isCurrentUserJoined"`
	TotalParticipantCount  int    `json:"totalParticipantCount"`
	IsCreatedByCurrentUser bool   `json:"isCreatedByCurrentUser"`
}

// RoomPayload is a room as it appears in server responses, with creator and
// participant users embedded.
type RoomPayload struct {
	ID                     uint   `json:"id"`
	Name                   string `json:"name"`
	IsPrivate              bool   `json:"isPrivate"`
	Creator                *User  `json:"creator,omitempty"`
	Participants           []User `json:"participants"`
	IsCurrentUserJoined    bool   `json:"isCurrentUserJoined"`
	TotalParticipantCount  int    `json:"totalParticipantCount"`
	IsCreatedByCurrentUser bool   `json:"isCreatedByCurrentUser"`
}

// RoomsResponse is the envelope of every room list endpoint.
type RoomsResponse struct {
	Rooms      []RoomPayload `json:"rooms"`
	TotalPages int           `json:"totalPages"`
}

// RoomPatch updates a subset of a cached room's fields. Nil fields are left
// untouched.
type RoomPatch struct {
	Name                  *string
	ParticipantIDs        *[]uint
	IsCurrentUserJoined   *bool
	TotalParticipantCount *int
}

// UserPatch updates a subset of a cached user's fields. Nil fields are left
// untouched.
type UserPatch struct {
	Username  *string
	FirstName *string
	LastName  *string
	AvatarURL *string
	IsOnline  *bool
}
