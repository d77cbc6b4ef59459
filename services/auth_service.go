package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/apperror"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/repositories"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/utils"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

type RegisterInput struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type UpdateProfileInput struct {
	Name            string `json:"name" form:"name"`
	Email           string `json:"email" form:"email" validate:"omitempty,email"`
	CurrentPassword string `json:"currentPassword" form:"currentPassword"`
	NewPassword     string `json:"newPassword" form:"newPassword"`
}

// Session is an account together with a freshly issued token.
type Session struct {
	User  *models.User
	Token string
}

type AuthService struct {
	users  repositories.UserRepository
	tokens *utils.TokenManager
	cost   int
	now    Clock
}

func NewAuthService(users repositories.UserRepository, tokens *utils.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens, cost: bcrypt.DefaultCost, now: time.Now}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperror.Validation("All fields are required")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperror.Conflict("User already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, storeError(ctx, err, "User not found")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperror.Internal(err, "Server error")
	}

	now := s.now()
	user := &models.User{
		ID:              primitive.NewObjectID(),
		Name:            in.Name,
		Email:           in.Email,
		Password:        string(hash),
		Cart:            []primitive.ObjectID{},
		Wishlist:        []primitive.ObjectID{},
		Addresses:       []models.Address{},
		SellingProducts: []primitive.ObjectID{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("User already exists")
		}
		return nil, storeError(ctx, err, "User not found")
	}

	return s.session(user)
}

// Login fails with Unauthorized for an unknown email and a wrong password alike.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = NormalizeEmail(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, apperror.Validation("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, storeError(ctx, err, "User not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	return s.session(user)
}

// Authenticate resolves a session token to the current state of its account.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.Principal, error) {
	if token == "" {
		return models.Principal{}, apperror.Unauthorized("Login required")
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return models.Principal{}, apperror.Unauthorized("Invalid or expired token")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return models.Principal{}, apperror.Unauthorized("Invalid or expired token")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Principal{}, apperror.Unauthorized("User not found")
		}
		return models.Principal{}, storeError(ctx, err, "User not found")
	}
	return user.Principal(), nil
}

func (s *AuthService) Account(ctx context.Context, p models.Principal) (*models.User, error) {
	user, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		return nil, storeError(ctx, err, "User not found")
	}
	return user, nil
}

// UpdateProfile changes the name, email and password that are supplied and re-issues
// the session token.
func (s *AuthService) UpdateProfile(ctx context.Context, p models.Principal, in UpdateProfileInput) (*Session, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		return nil, storeError(ctx, err, "User not found")
	}

	var update repositories.ProfileUpdate
	if name := strings.TrimSpace(in.Name); name != "" && name != user.Name {
		update.Name = &name
	}
	if email := NormalizeEmail(in.Email); email != "" && email != user.Email {
		if _, err := s.users.FindByEmail(ctx, email); err == nil {
			return nil, apperror.Conflict("Email already exists")
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, storeError(ctx, err, "User not found")
		}
		update.Email = &email
	}

	if in.CurrentPassword != "" || in.NewPassword != "" {
		if in.CurrentPassword == "" || in.NewPassword == "" {
			return nil, apperror.Validation("Both current and new password are required")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
			return nil, apperror.Validation("Current password is incorrect")
		}
		if len(in.NewPassword) < MinPasswordLength {
			return nil, apperror.Validation("New password must be at least %d characters", MinPasswordLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), s.cost)
		if err != nil {
			return nil, apperror.Internal(err, "Server error")
		}
		hashed := string(hash)
		update.PasswordHash = &hashed
	}

	if update.Name != nil || update.Email != nil || update.PasswordHash != nil {
		if err := s.users.UpdateProfile(ctx, user.ID, update); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return nil, apperror.Conflict("Email already exists")
			}
			return nil, storeError(ctx, err, "User not found")
		}
		if user, err = s.users.FindByID(ctx, p.ID); err != nil {
			return nil, storeError(ctx, err, "User not found")
		}
	}

	return s.session(user)
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Generate(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to generate token")
	}
	return &Session{User: user, Token: token}, nil
}
