package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pizzahunt/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer mints the access token handed out on login.
type TokenIssuer interface {
	Issue(userID int64) (string, time.Time, error)
}

var _ domain.UserUseCase = (*userUseCase)(nil)

type userUseCase struct {
	userRepo domain.UserRepository
	tokens   TokenIssuer
	log      *logrus.Logger
}

func NewUserUseCase(repo domain.UserRepository, tokens TokenIssuer, logger *logrus.Logger) domain.UserUseCase {
	return &userUseCase{
		userRepo: repo,
		tokens:   tokens,
		log:      logger,
	}
}

var errBadCredentials = fmt.Errorf("invalid username or password: %w", domain.ErrUnauthenticated)

func (uc *userUseCase) Register(ctx context.Context, input domain.RegisterInput) (*domain.UserProfile, error) {
	uc.log.Infof("Use Case: Attempting registration for username: %s", input.Username)

	username, err := requireText("username", input.Username, 150)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(input.Email)
	if !isValidEmail(email) {
		uc.log.Warnf("Use Case: Registration failed - invalid email format: %s", email)
		return nil, invalid("invalid email format")
	}
	if err := validatePassword(input.Password); err != nil {
		uc.log.Warnf("Use Case: Registration failed - password validation error: %v", err)
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to hash password for %s: %v", username, err)
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}

	created, err := uc.userRepo.CreateUser(ctx, &domain.User{
		Username:     username,
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: string(hashedPassword),
	})
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create user %s: %v", username, err)
		return nil, err
	}

	uc.log.Infof("Use Case: User registered successfully. ID: %d, Username: %s", created.ID, created.Username)
	return created.Profile(), nil
}

func (uc *userUseCase) Login(ctx context.Context, login, password string) (*domain.AuthResult, error) {
	login = strings.TrimSpace(login)
	uc.log.Infof("Use Case: Attempting authentication for %s", login)

	if login == "" || password == "" {
		return nil, errBadCredentials
	}

	user, err := uc.userRepo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warnf("Use Case: Auth failed - user not found: %s", login)
			return nil, errBadCredentials
		}
		uc.log.Errorf("Use Case: Error retrieving user %s during auth: %v", login, err)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warnf("Use Case: Auth failed - incorrect password for user %s (ID: %d)", login, user.ID)
			return nil, errBadCredentials
		}
		uc.log.Errorf("Use Case: Error comparing password hash for user %s: %v", login, err)
		return nil, fmt.Errorf("internal error during authentication: %w", err)
	}

	token, expiresAt, err := uc.tokens.Issue(user.ID)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to issue token for user %d: %v", user.ID, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Authentication successful for user %s (ID: %d)", login, user.ID)

	return &domain.AuthResult{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}, nil
}

func (uc *userUseCase) Profile(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("profile: %w", domain.ErrUnauthenticated)
	}
	user, err := uc.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get user profile for ID %d: %v", userID, err)
		return nil, err
	}
	return user.Profile(), nil
}

func (uc *userUseCase) UpdateProfile(ctx context.Context, userID int64, input domain.ProfileInput) (*domain.UserProfile, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("profile: %w", domain.ErrUnauthenticated)
	}
	email := normalizeEmail(input.Email)
	if !isValidEmail(email) {
		return nil, invalid("invalid email format")
	}
	if input.BirthDate != nil && input.BirthDate.After(time.Now()) {
		return nil, invalid("birth date cannot be in the future")
	}

	updated, err := uc.userRepo.UpdateUser(ctx, &domain.User{
		ID:         userID,
		Email:      email,
		Phone:      strings.TrimSpace(input.Phone),
		Address:    strings.TrimSpace(input.Address),
		BirthDate:  input.BirthDate,
		Newsletter: input.Newsletter,
	})
	if err != nil {
		uc.log.Errorf("Use Case: Failed to update profile of user %d: %v", userID, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Profile of user %d updated", userID)
	return updated.Profile(), nil
}
