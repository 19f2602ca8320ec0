package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cevital/training-admin/internal/domain"
	"cevital/training-admin/internal/repository"
	"cevital/training-admin/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUserValidation = errors.New("user validation failed")
	ErrNoAvatar       = errors.New("user has no avatar")
)

// AvatarUpload is the result of requesting an avatar upload slot: the key
// the object will live under and a presigned PUT URL for the client to
// upload to directly.
type AvatarUpload struct {
	ObjectKey string
	UploadURL string
}

// --- Service Interface ---

// UserService covers admin account management and avatar handling.
type UserService interface {
	GetAllUsers(ctx context.Context) ([]domain.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, firstName, lastName, email, phone, password string, role domain.Role) (*domain.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error

	RequestAvatarUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUpload, error)
	ConfirmAvatarUpload(ctx context.Context, userID primitive.ObjectID, objectKey string) error
	GetAvatarURL(ctx context.Context, userID primitive.ObjectID) (string, error)
}

// userService implements the UserService interface.
type userService struct {
	userRepo    repository.UserRepository
	fileStorage storage.FileStorage
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository, fileStorage storage.FileStorage) UserService {
	return &userService{
		userRepo:    userRepo,
		fileStorage: fileStorage,
	}
}

// GetAllUsers lists every account, password hashes stripped.
func (s *userService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// GetUserByID retrieves a single account.
func (s *userService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateUser modifies an account. An empty password leaves the current one
// in place.
func (s *userService) UpdateUser(ctx context.Context, id primitive.ObjectID, firstName, lastName, email, phone, password string, role domain.Role) (*domain.User, error) {
	if firstName == "" || lastName == "" || email == "" {
		return nil, fmt.Errorf("%w: first name, last name, and email are required", ErrUserValidation)
	}
	if !domain.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.FirstName = firstName
	user.LastName = lastName
	user.Email = email
	user.Phone = phone
	user.Role = role
	user.PasswordHash = ""
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrHashingFailed
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// DeleteUser removes an account.
func (s *userService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	err := s.userRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// RequestAvatarUpload issues a presigned PUT URL under a fresh object key.
// The client uploads directly to object storage, then calls
// ConfirmAvatarUpload with the returned key.
func (s *userService) RequestAvatarUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUpload, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: avatar content type must be an image", ErrUserValidation)
	}
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("avatars/%s/%s", userID.Hex(), uuid.NewString())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	return &AvatarUpload{ObjectKey: objectKey, UploadURL: uploadURL}, nil
}

// ConfirmAvatarUpload stores the uploaded object's key on the account and
// deletes the previous avatar object, if any.
func (s *userService) ConfirmAvatarUpload(ctx context.Context, userID primitive.ObjectID, objectKey string) error {
	expectedPrefix := fmt.Sprintf("avatars/%s/", userID.Hex())
	if !strings.HasPrefix(objectKey, expectedPrefix) {
		return fmt.Errorf("%w: object key does not belong to this user", ErrUserValidation)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	previousKey := user.AvatarKey

	if err := s.userRepo.SetAvatarKey(ctx, userID, objectKey); err != nil {
		return err
	}

	if previousKey != "" && previousKey != objectKey {
		// Best effort: a dangling old object is not worth failing the
		// request over.
		_ = s.fileStorage.DeleteObject(ctx, previousKey)
	}
	return nil
}

// GetAvatarURL returns a presigned GET URL for the account's avatar.
func (s *userService) GetAvatarURL(ctx context.Context, userID primitive.ObjectID) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if user.AvatarKey == "" {
		return "", ErrNoAvatar
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, user.AvatarKey, 1*time.Hour)
}
