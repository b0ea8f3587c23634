package user

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"recipe-ai-backend/domain"
	"recipe-ai-backend/internal/utils/logger"
	"recipe-ai-backend/internal/utils/storage"
	"recipe-ai-backend/pkg/cache"
	"recipe-ai-backend/pkg/docstore"
	"recipe-ai-backend/pkg/jwt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const profilePhotoFolder = "profile-photos"

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.SessionResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.SessionResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetProfile(ctx context.Context, userID string) (domain.UserProfileResponse, error)
		UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (domain.UserResponse, error)
		UploadProfilePhoto(ctx context.Context, userID string, file *multipart.FileHeader) (domain.UserResponse, error)
		GetPreferences(ctx context.Context, userID string) (domain.UserPreferences, error)
		UpdatePreferences(ctx context.Context, userID string, req domain.UpdatePreferencesRequest) (domain.UserPreferences, error)
		DeleteAccount(ctx context.Context, userID string) error
		IncrementCuisinePreference(ctx context.Context, userID, cuisine string) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		storage        storage.AwsS3
		cache          cache.Cache
		log            *logger.Logger
		now            func() time.Time
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, s3 storage.AwsS3, c cache.Cache, log *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		storage:        s3,
		cache:          c,
		log:            log.With("service", "UserService"),
		now:            time.Now,
	}
}

func profileKey(userID string) string {
	return cache.GenerateKey(cache.NamespaceUser, map[string]any{"user_id": userID})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) session(user domain.User) (domain.SessionResponse, error) {
	token, err := s.jwtService.GenerateTokenUser(user.ID, domain.RoleUser)
	if err != nil {
		return domain.SessionResponse{}, fmt.Errorf("sign token: %w", err)
	}
	return domain.SessionResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(jwt.TokenTTL.Seconds()),
		User:        user.ToResponse(),
	}, nil
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.SessionResponse, error) {
	email := normalizeEmail(req.Email)
	exists, err := s.userRepository.CheckEmailExists(ctx, email)
	if err != nil {
		return domain.SessionResponse{}, err
	}
	if exists {
		return domain.SessionResponse{}, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.SessionResponse{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(req.DisplayName),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := domain.UserProfile{
		UserID:      user.ID,
		Preferences: domain.DefaultPreferences(),
		Stats:       domain.UserStats{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.userRepository.RegisterUser(ctx, user, profile); err != nil {
		return domain.SessionResponse{}, fmt.Errorf("register user: %w", err)
	}

	s.log.Info("user registered", "user_id", user.ID, "email", email)
	return s.session(user)
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.SessionResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.SessionResponse{}, domain.ErrCredentialsNotMatch
		}
		return domain.SessionResponse{}, err
	}
	if !user.IsActive {
		return domain.SessionResponse{}, domain.ErrCredentialsNotMatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return domain.SessionResponse{}, domain.ErrCredentialsNotMatch
	}

	return s.session(user)
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return user.ToResponse(), nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (domain.UserProfileResponse, error) {
	return cache.GetOrLoad(ctx, s.cache, profileKey(userID), cache.TTLUser, func(ctx context.Context) (domain.UserProfileResponse, error) {
		user, err := s.userRepository.GetUserByID(ctx, userID)
		if err != nil {
			return domain.UserProfileResponse{}, err
		}
		profile, err := s.userRepository.GetProfile(ctx, userID)
		if err != nil {
			return domain.UserProfileResponse{}, err
		}
		return domain.UserProfileResponse{
			User:        user.ToResponse(),
			Preferences: profile.Preferences,
			Stats:       profile.Stats,
		}, nil
	})
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	fields := docstore.Document{}
	if req.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*req.DisplayName)
		fields["display_name"] = user.DisplayName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
		fields["bio"] = user.Bio
	}
	if req.PhotoURL != nil {
		user.PhotoURL = *req.PhotoURL
		fields["photo_url"] = user.PhotoURL
	}
	if len(fields) == 0 {
		return user.ToResponse(), nil
	}

	if err := s.userRepository.UpdateUser(ctx, userID, fields); err != nil {
		return domain.UserResponse{}, err
	}
	s.cache.Delete(ctx, profileKey(userID))

	s.log.Info("user profile updated", "user_id", userID)
	return user.ToResponse(), nil
}

func (s *userService) UploadProfilePhoto(ctx context.Context, userID string, file *multipart.FileHeader) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	key, err := s.storage.UploadFile(userID, file, profilePhotoFolder, storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return domain.UserResponse{}, domain.ErrInvalidImage
		}
		return domain.UserResponse{}, fmt.Errorf("upload profile photo: %w", err)
	}

	if old := s.storage.GetObjectKeyFromLink(user.PhotoURL); old != "" {
		if err := s.storage.DeleteFile(old); err != nil {
			s.log.Warn("failed to delete old profile photo", "user_id", userID, "key", old, "error", err)
		}
	}

	user.PhotoURL = s.storage.GetPublicLinkKey(key)
	if err := s.userRepository.UpdateUser(ctx, userID, docstore.Document{"photo_url": user.PhotoURL}); err != nil {
		return domain.UserResponse{}, err
	}
	s.cache.Delete(ctx, profileKey(userID))

	return user.ToResponse(), nil
}

func (s *userService) GetPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	profile, err := s.userRepository.GetProfile(ctx, userID)
	if err != nil {
		return domain.UserPreferences{}, err
	}
	return profile.Preferences, nil
}

func (s *userService) UpdatePreferences(ctx context.Context, userID string, req domain.UpdatePreferencesRequest) (domain.UserPreferences, error) {
	profile, err := s.userRepository.GetProfile(ctx, userID)
	if err != nil {
		return domain.UserPreferences{}, err
	}

	prefs := profile.Preferences
	if req.DietaryRestrictions != nil {
		prefs.DietaryRestrictions = req.DietaryRestrictions
	}
	if req.Allergies != nil {
		prefs.Allergies = req.Allergies
	}
	if req.PreferredCuisines != nil {
		prefs.PreferredCuisines = req.PreferredCuisines
	}
	if req.CookingSkillLevel != nil {
		prefs.CookingSkillLevel = *req.CookingSkillLevel
	}
	if req.AvailableEquipment != nil {
		prefs.AvailableEquipment = req.AvailableEquipment
	}
	if req.SpiceLevel != nil {
		prefs.SpiceLevel = *req.SpiceLevel
	}

	if err := s.savePreferences(ctx, userID, prefs); err != nil {
		return domain.UserPreferences{}, err
	}
	s.log.Info("user preferences updated", "user_id", userID)
	return prefs, nil
}

func (s *userService) savePreferences(ctx context.Context, userID string, prefs domain.UserPreferences) error {
	doc, err := docstore.Encode(prefs)
	if err != nil {
		return err
	}
	if err := s.userRepository.UpdateProfile(ctx, userID, docstore.Document{"preferences": doc}); err != nil {
		return err
	}
	s.cache.Delete(ctx, profileKey(userID))
	return nil
}

// IncrementCuisinePreference counts one more generated recipe of cuisine on
// the user's preferences.
func (s *userService) IncrementCuisinePreference(ctx context.Context, userID, cuisine string) error {
	profile, err := s.userRepository.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	prefs := profile.Preferences
	if prefs.CuisinePreferences == nil {
		prefs.CuisinePreferences = map[string]int{}
	}
	prefs.CuisinePreferences[cuisine]++
	return s.savePreferences(ctx, userID, prefs)
}

func (s *userService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.userRepository.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.cache.Delete(ctx, profileKey(userID))

	if key := s.storage.GetObjectKeyFromLink(user.PhotoURL); key != "" {
		if err := s.storage.DeleteFile(key); err != nil {
			s.log.Warn("failed to delete profile photo", "user_id", userID, "error", err)
		}
	}

	s.log.Info("user account deleted", "user_id", userID)
	return nil
}
