package user

import (
	"context"
	"errors"
	"strconv"
	"time"

	"eswika/domain"
	redisrepo "eswika/internal/repository/redis"
	"eswika/pkg/logger"
	"eswika/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// TokenStore contract interface
type TokenStore interface {
	StoreToken(ctx context.Context, userID, token string, data redisrepo.TokenData, ttl time.Duration) error
	DeleteToken(ctx context.Context, userID, token string) error
}

const sessionTTL = 2 * time.Hour

type userService struct {
	userRepo   UserRepository
	validate   *validator.Validate
	tokenStore TokenStore
}

func NewUserService(userRepo UserRepository, validate *validator.Validate, tokenStore TokenStore) *userService {
	return &userService{
		userRepo:   userRepo,
		validate:   validate,
		tokenStore: tokenStore,
	}
}

func (s *userService) Register(ctx context.Context, user *domain.User) (domain.User, error) {
	if err := s.validate.Var(user.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, errors.New("invalid email format")
	}

	if err := s.validate.Var(user.Password, "required,min=6"); err != nil {
		logger.Error("Invalid user password", err)
		return domain.User{}, errors.New("password must be at least 6 characters")
	}

	if !domain.IsValidUserType(user.UserType) {
		return domain.User{}, errors.New("invalid user type")
	}

	// Check if email already exists
	existingUser, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err == nil && existingUser.ID > 0 {
		logger.Error("Email already exists")
		return domain.User{}, errors.New("email already exists")
	}

	passwordHash, err := utils.HashPassword(user.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	newUser := domain.User{
		Email:    user.Email,
		Password: passwordHash,
		UserType: user.UserType,
		Name:     user.Name,
		Phone:    user.Phone,
		Address:  user.Address,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create new user", err)
		return domain.User{}, err
	}

	newUser.Password = ""
	return newUser, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Invalid user credentials", err)
		return "", domain.User{}, errors.New("incorrect email or password")
	}

	if ok := utils.CheckPassword(password, user.Password); !ok {
		logger.Error("User password incorrect")
		return "", domain.User{}, errors.New("incorrect email or password")
	}

	userIDStr := strconv.FormatUint(uint64(user.ID), 10)
	token, err := utils.GenerateJWT(userIDStr, user.UserType, false)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	now := time.Now()
	err = s.tokenStore.StoreToken(ctx, userIDStr, token, redisrepo.TokenData{
		UserID:    userIDStr,
		Role:      user.UserType,
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: now.Add(sessionTTL),
	}, sessionTTL)
	if err != nil {
		logger.Error("Failed to store session token", err)
		return "", domain.User{}, errors.New("failed to create session")
	}

	user.Password = ""
	return token, user, nil
}

// Me returns the authenticated principal's profile.
func (s *userService) Me(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user by ID", err)
		return domain.User{}, err
	}

	user.Password = ""
	return user, nil
}

func (s *userService) Logout(ctx context.Context, userID uint, token string) error {
	userIDStr := strconv.FormatUint(uint64(userID), 10)
	return s.tokenStore.DeleteToken(ctx, userIDStr, token)
}
