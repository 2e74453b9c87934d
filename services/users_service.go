package services

import (
	"errors"
	"strings"

	"github.com/roomloop/chat_backend/errs"
	"github.com/roomloop/chat_backend/models"
	"gorm.io/gorm"
)

// UsersFilter narrows the user feed. Sort matches the last-known presence
// state; Search is a case-insensitive substring match on the username.
type UsersFilter struct {
	Search string
	Sort   string // all | online | offline
	Page   int
}

// ProfileUpdate carries the optional profile mutations. Empty fields are
// left untouched; RemoveAvatar wins over AvatarURL.
type ProfileUpdate struct {
	Username     string
	FirstName    string
	LastName     string
	AvatarURL    string
	RemoveAvatar bool
}

// UsersService owns user documents: registration, credential checks, profile
// updates and the presence flag.
type UsersService struct {
	db     *gorm.DB
	hasher PasswordHasher
}

func NewUsersService(db *gorm.DB, hasher PasswordHasher) *UsersService {
	return &UsersService{db: db, hasher: hasher}
}

// Register validates the inputs, rejects username collisions and stores the
// user with a hashed credential.
func (s *UsersService) Register(username, firstName, lastName, password string) (*models.User, error) {
	var fields []errs.FieldError
	checkField(&fields, "username", username, "required,min=3,max=20")
	checkField(&fields, "firstName", firstName, "required,min=3,max=20")
	checkField(&fields, "lastName", lastName, "required,min=3,max=20")
	checkField(&fields, "password", password, "required,min=3,max=20")
	if len(fields) > 0 {
		return nil, errs.NewValidation(fields)
	}

	var existing models.User
	err := s.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, errs.NewUserAlreadyExists()
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Password:  hash,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// Login verifies the credential pair and returns the matching user.
func (s *UsersService) Login(username, password string) (*models.User, error) {
	var fields []errs.FieldError
	checkField(&fields, "username", username, "required,min=3,max=20")
	checkField(&fields, "password", password, "required,min=3,max=20")
	if len(fields) > 0 {
		return nil, errs.NewValidation(fields)
	}

	user, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	if !s.hasher.Compare(user.Password, password) {
		return nil, errs.NewIncorrectPassword()
	}

	return user, nil
}

func (s *UsersService) GetByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewUserNotFound()
		}
		return nil, err
	}
	return &user, nil
}

func (s *UsersService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewUserNotFound()
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns one page of the user feed plus the total page count for
// the current filter.
func (s *UsersService) ListUsers(filter UsersFilter) ([]models.User, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}

	var count int64
	if err := s.filtered(filter).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.filtered(filter).
		Order("id ASC").
		Offset((page - 1) * ItemsPerPage).
		Limit(ItemsPerPage).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, totalPages(count), nil
}

// SetOnlineStatus persists the last-known presence state. The presence
// channel is the source of truth; this is a convenience cache for list
// filtering and initial page loads.
func (s *UsersService) SetOnlineStatus(userID uint, online bool) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_online", online).Error
}

// UpdateProfile applies the supplied profile mutations and returns the
// updated user.
func (s *UsersService) UpdateProfile(userID uint, update ProfileUpdate) (*models.User, error) {
	var fields []errs.FieldError
	if update.Username != "" {
		checkField(&fields, "username", update.Username, "min=3,max=20")
	}
	if update.FirstName != "" {
		checkField(&fields, "firstName", update.FirstName, "min=3,max=20")
	}
	if update.LastName != "" {
		checkField(&fields, "lastName", update.LastName, "min=3,max=20")
	}
	if len(fields) > 0 {
		return nil, errs.NewValidation(fields)
	}

	changes := map[string]interface{}{}
	if update.Username != "" {
		changes["username"] = update.Username
	}
	if update.FirstName != "" {
		changes["first_name"] = update.FirstName
	}
	if update.LastName != "" {
		changes["last_name"] = update.LastName
	}
	if update.RemoveAvatar {
		changes["avatar_url"] = ""
	} else if update.AvatarURL != "" {
		changes["avatar_url"] = update.AvatarURL
	}

	if len(changes) > 0 {
		err := s.db.Model(&models.User{}).Where("id = ?", userID).Updates(changes).Error
		if err != nil {
			return nil, err
		}
	}

	return s.GetByID(userID)
}

func (s *UsersService) filtered(filter UsersFilter) *gorm.DB {
	q := s.db.Model(&models.User{})

	if filter.Search != "" {
		q = q.Where("LOWER(username) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	switch filter.Sort {
	case "online":
		q = q.Where("is_online = ?", true)
	case "offline":
		q = q.Where("is_online = ?", false)
	}

	return q
}
