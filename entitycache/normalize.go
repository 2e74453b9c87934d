package entitycache

// Normalized is a flattened server payload: the ordered ids of the canonical
// result plus the flat entity lists extracted from the nested records.
type Normalized struct {
	Result []uint
	Rooms  []Room
	Users  []User
}

// Normalize flattens nested room payloads into id references plus flat,
// deduplicated entity lists. A user embedded several times (creator of one
// room, participant of another) yields a single entity, last occurrence
// winning.
func Normalize(payload []RoomPayload) Normalized {
	n := Normalized{Result: make([]uint, 0, len(payload))}

	seenUsers := make(map[uint]int)
	addUser := func(u User) {
		if idx, ok := seenUsers[u.ID]; ok {
			n.Users[idx] = u
			return
		}
		seenUsers[u.ID] = len(n.Users)
		n.Users = append(n.Users, u)
	}

	for _, p := range payload {
		room := Room{
			ID:                     p.ID,
			Name:                   p.Name,
			IsPrivate:              p.IsPrivate,
			IsCurrentUserJoined:    p.IsCurrentUserJoined,
			TotalParticipantCount:  p.TotalParticipantCount,
			IsCreatedByCurrentUser: p.IsCreatedByCurrentUser,
		}

		if p.Creator != nil {
			room.CreatorID = p.Creator.ID
			addUser(*p.Creator)
		}

		room.ParticipantIDs = make([]uint, 0, len(p.Participants))
		for _, u := range p.Participants {
			room.ParticipantIDs = append(room.ParticipantIDs, u.ID)
			addUser(u)
		}

		n.Rooms = append(n.Rooms, room)
		n.Result = append(n.Result, p.ID)
	}

	return n
}

// Denormalize rebuilds nested room payloads for the given ids from the
// store. Ids without a cached room are skipped rather than failing: a view
// may briefly hold ids for entities that were removed.
func Denormalize(ids []uint, store *Store) []RoomPayload {
	result := make([]RoomPayload, 0, len(ids))

	for _, id := range ids {
		room, ok := store.Room(id)
		if !ok {
			continue
		}

		p := RoomPayload{
			ID:                     room.ID,
			Name:                   room.Name,
			IsPrivate:              room.IsPrivate,
			IsCurrentUserJoined:    room.IsCurrentUserJoined,
			TotalParticipantCount:  room.TotalParticipantCount,
			IsCreatedByCurrentUser: room.IsCreatedByCurrentUser,
			Participants:           make([]User, 0, len(room.ParticipantIDs)),
		}

		if creator, ok := store.User(room.CreatorID); ok {
			p.Creator = &creator
		}

		for _, userID := range room.ParticipantIDs {
			if u, ok := store.User(userID); ok {
				p.Participants = append(p.Participants, u)
			}
		}

		result = append(result, p)
	}

	return result
}
