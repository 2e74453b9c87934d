package services

import (
	"strings"

	"github.com/roomloop/chat_backend/errs"
	"github.com/roomloop/chat_backend/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// ItemsPerPage is the fixed page size for every list endpoint.
	ItemsPerPage = 4

	// participantPreviewSize bounds the participant slice attached to room
	// list entries for the avatar stack. The full list is paged separately
	// through GetRoomParticipants.
	participantPreviewSize = 2
)

// RoomView is a room as seen by one particular user: the stored document
// joined with its creator, a bounded participant preview and the
// viewer-relative fields computed at read time. The password never appears
// here.
type RoomView struct {
	ID                     uint          `json:"id"`
	Name                   string        `json:"name"`
	IsPrivate              bool          `json:"isPrivate"`
	Creator                *models.User  `json:"creator,omitempty"`
	Participants           []models.User `json:"participants"`
	IsCurrentUserJoined    bool          `json:"isCurrentUserJoined"`
	TotalParticipantCount  int           `json:"totalParticipantCount"`
	IsCreatedByCurrentUser bool          `json:"isCreatedByCurrentUser"`
}

// RoomsFilter narrows the room feed. Access matches the derived privacy of
// the room: "public" selects rooms without a password, "private" rooms with
// one. Search is a case-insensitive substring match on the name.
type RoomsFilter struct {
	Search string
	Access string // all | public | private
	Page   int
}

// RoomsService owns room documents: creation, membership mutation, password
// gating, deletion and the read pipeline that denormalizes rooms for a
// viewer.
type RoomsService struct {
	db     *gorm.DB
	hasher PasswordHasher
}

func NewRoomsService(db *gorm.DB, hasher PasswordHasher) *RoomsService {
	return &RoomsService{db: db, hasher: hasher}
}

// CreateRoom validates the inputs, stores the room (private iff a password
// was supplied) and returns it through the same read pipeline as every other
// room read, so the creator immediately sees isCreatedByCurrentUser.
func (s *RoomsService) CreateRoom(currentUser *models.User, name, password string) (*RoomView, error) {
	var fields []errs.FieldError
	checkField(&fields, "name", name, "required,min=3,max=20")
	if password != "" {
		checkField(&fields, "password", password, "min=6,max=20")
	}
	if len(fields) > 0 {
		return nil, errs.NewValidation(fields)
	}

	room := models.Room{
		Name:           name,
		CreatorID:      currentUser.ID,
		ParticipantIDs: datatypes.NewJSONSlice([]uint{}),
	}

	if password != "" {
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return nil, err
		}
		room.PasswordHash = hash
	}

	if err := s.db.Create(&room).Error; err != nil {
		return nil, err
	}

	return s.GetRoomByID(currentUser, room.ID)
}

// GetRoomByID loads a single room through the read pipeline.
func (s *RoomsService) GetRoomByID(currentUser *models.User, roomID uint) (*RoomView, error) {
	var room models.Room
	if err := s.db.Preload("Creator").First(&room, roomID).Error; err != nil {
		return nil, err
	}

	view, err := s.toView(currentUser, &room, 0)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListRooms returns one page of the room feed plus the total page count for
// the current filter.
func (s *RoomsService) ListRooms(currentUser *models.User, filter RoomsFilter) ([]RoomView, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}

	var count int64
	if err := s.filtered(filter).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rooms []models.Room
	err := s.filtered(filter).
		Preload("Creator").
		Order("id ASC").
		Offset((page - 1) * ItemsPerPage).
		Limit(ItemsPerPage).
		Find(&rooms).Error
	if err != nil {
		return nil, 0, err
	}

	views, err := s.toViews(currentUser, rooms)
	if err != nil {
		return nil, 0, err
	}

	return views, totalPages(count), nil
}

// RoomsCreatedBy returns the first page of rooms created by the given user.
func (s *RoomsService) RoomsCreatedBy(currentUser *models.User, creatorID uint) ([]RoomView, error) {
	var rooms []models.Room
	err := s.db.Model(&models.Room{}).
		Where("creator_id = ?", creatorID).
		Preload("Creator").
		Order("id ASC").
		Limit(ItemsPerPage).
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}

	return s.toViews(currentUser, rooms)
}

// RoomsJoinedBy returns the first page of rooms the given user participates
// in. Membership lives inside the room document, so candidates are filtered
// after loading.
func (s *RoomsService) RoomsJoinedBy(currentUser *models.User, userID uint) ([]RoomView, error) {
	var rooms []models.Room
	if err := s.db.Preload("Creator").Order("id ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}

	joined := make([]models.Room, 0, ItemsPerPage)
	for _, room := range rooms {
		if room.HasParticipant(userID) {
			joined = append(joined, room)
			if len(joined) == ItemsPerPage {
				break
			}
		}
	}

	return s.toViews(currentUser, joined)
}

// JoinRoom adds the current user to the room's membership. Private rooms
// require the supplied password to verify against the stored hash; a
// mismatch is terminal for the attempt and leaves the membership untouched.
// Joining a room twice is a no-op.
func (s *RoomsService) JoinRoom(currentUser *models.User, roomID uint, password string) error {
	var room models.Room
	if err := s.db.First(&room, roomID).Error; err != nil {
		return err
	}

	if room.IsPrivate() && !s.hasher.Compare(room.PasswordHash, password) {
		return errs.NewIncorrectPassword()
	}

	if room.HasParticipant(currentUser.ID) {
		return nil
	}

	ids := append([]uint(room.ParticipantIDs), currentUser.ID)
	return s.db.Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("participant_ids", datatypes.NewJSONSlice(ids)).Error
}

// LeaveRoom removes the current user from the room's membership. Leaving a
// room the user is not a member of is a no-op.
func (s *RoomsService) LeaveRoom(currentUser *models.User, roomID uint) error {
	var room models.Room
	if err := s.db.First(&room, roomID).Error; err != nil {
		return err
	}

	if !room.HasParticipant(currentUser.ID) {
		return nil
	}

	ids := make([]uint, 0, len(room.ParticipantIDs))
	for _, id := range room.ParticipantIDs {
		if id != currentUser.ID {
			ids = append(ids, id)
		}
	}

	return s.db.Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("participant_ids", datatypes.NewJSONSlice(ids)).Error
}

// DeleteRoom removes the room document after re-verifying the password. A
// room without a password deletes regardless of what was supplied. Messages
// referencing the room are left behind; there is no reaper.
func (s *RoomsService) DeleteRoom(currentUser *models.User, roomID uint, password string) error {
	var room models.Room
	if err := s.db.First(&room, roomID).Error; err != nil {
		return err
	}

	if room.IsPrivate() && !s.hasher.Compare(room.PasswordHash, password) {
		return errs.NewIncorrectPassword()
	}

	return s.db.Delete(&models.Room{}, roomID).Error
}

// GetRoomParticipants returns one page of a room's participants starting at
// offset, in join order.
func (s *RoomsService) GetRoomParticipants(roomID uint, offset int) ([]models.User, error) {
	var room models.Room
	if err := s.db.First(&room, roomID).Error; err != nil {
		return nil, err
	}

	ids := sliceIDs(room.ParticipantIDs, offset, ItemsPerPage)
	return s.usersInOrder(ids)
}

// AppendMessage links a stored message onto the room document. This is a
// separate single-document write from the message insert.
func (s *RoomsService) AppendMessage(roomID, messageID uint) error {
	var room models.Room
	if err := s.db.First(&room, roomID).Error; err != nil {
		return err
	}

	ids := append([]uint(room.MessageIDs), messageID)
	return s.db.Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("message_ids", datatypes.NewJSONSlice(ids)).Error
}

func (s *RoomsService) filtered(filter RoomsFilter) *gorm.DB {
	q := s.db.Model(&models.Room{})

	if filter.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	switch filter.Access {
	case "public":
		q = q.Where("password_hash = '' OR password_hash IS NULL")
	case "private":
		q = q.Where("password_hash <> ''")
	}

	return q
}

func (s *RoomsService) toViews(currentUser *models.User, rooms []models.Room) ([]RoomView, error) {
	views := make([]RoomView, 0, len(rooms))
	for i := range rooms {
		view, err := s.toView(currentUser, &rooms[i], 0)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// toView computes the viewer-relative fields and attaches the bounded
// participant preview.
func (s *RoomsService) toView(currentUser *models.User, room *models.Room, previewOffset int) (*RoomView, error) {
	previewIDs := sliceIDs(room.ParticipantIDs, previewOffset, participantPreviewSize)
	preview, err := s.usersInOrder(previewIDs)
	if err != nil {
		return nil, err
	}

	creator := room.Creator
	view := &RoomView{
		ID:                     room.ID,
		Name:                   room.Name,
		IsPrivate:              room.IsPrivate(),
		Participants:           preview,
		IsCurrentUserJoined:    room.HasParticipant(currentUser.ID),
		TotalParticipantCount:  len(room.ParticipantIDs),
		IsCreatedByCurrentUser: room.CreatorID == currentUser.ID,
	}
	if creator.ID != 0 {
		view.Creator = &creator
	}
	return view, nil
}

// usersInOrder loads users by id preserving the order of ids.
func (s *RoomsService) usersInOrder(ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	if err := s.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	ordered := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			ordered = append(ordered, u)
		}
	}
	return ordered, nil
}

func sliceIDs(ids []uint, offset, limit int) []uint {
	if offset < 0 || offset >= len(ids) {
		return nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end]
}

func totalPages(count int64) int {
	pages := int(count) / ItemsPerPage
	if int(count)%ItemsPerPage != 0 {
		pages++
	}
	return pages
}
