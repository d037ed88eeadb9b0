package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/anonto42/nano-midea/social-api/internal/apperrors"
	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/anonto42/nano-midea/social-api/internal/repositories"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Identity is what an external identity provider vouches for.
type Identity struct {
	UID   string
	Email string
	Name  string
}

// IdentityVerifier checks an external ID token.
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)
}

// TokenIssuer hands out access tokens for local users.
type TokenIssuer interface {
	Issue(user *models.User) (string, time.Time, error)
}

// AuthResult is returned by every login flow.
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type AccountService struct {
	users    repositories.UserRepository
	graph    *FollowGraph
	authors  *AuthorDirectory
	tokens   TokenIssuer
	identity IdentityVerifier
}

// NewAccountService creates an AccountService. identity may be nil, in which
// case Firebase login is unavailable.
func NewAccountService(users repositories.UserRepository, graph *FollowGraph, authors *AuthorDirectory, tokens TokenIssuer, identity IdentityVerifier) *AccountService {
	return &AccountService{users: users, graph: graph, authors: authors, tokens: tokens, identity: identity}
}

// Register creates a local account and logs it in.
func (s *AccountService) Register(ctx context.Context, req models.CreateUserRequest) (*AuthResult, error) {
	username := strings.TrimSpace(req.Username)
	if err := s.ensureUsernameFree(ctx, username); err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)
	if email != nil {
		if err := s.ensureEmailFree(ctx, *email, 0); err != nil {
			return nil, err
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{Username: username, Email: email, Password: string(hashedPassword)}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race with a concurrent registration
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, apperrors.Internal("failed to create user", err)
	}
	return s.issue(user)
}

// Login exchanges a username and password for a token.
func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (*AuthResult, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	if user.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issue(user)
}

// FirebaseLogin verifies a Firebase ID token and issues a local token. The
// Firebase account is matched by UID, then linked by email, then created.
func (s *AccountService) FirebaseLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	if s.identity == nil {
		return nil, apperrors.ErrFirebaseDisabled
	}
	identity, err := s.identity.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnauthorized, "invalid_id_token", "Invalid Firebase ID token.", err)
	}

	user, err := s.users.GetUserByFirebaseUID(ctx, identity.UID)
	if err == nil {
		return s.issue(user)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Internal("failed to load user", err)
	}

	email := normalizeEmail(identity.Email)
	if email != nil {
		user, err = s.users.GetUserByEmail(ctx, *email)
		switch {
		case err == nil:
			uid := identity.UID
			user.FirebaseUID = &uid
			if err := s.users.UpdateUser(ctx, user); err != nil {
				return nil, apperrors.Internal("failed to link firebase account", err)
			}
			log.WithFields(log.Fields{"user_id": user.ID}).Info("linked firebase account")
			return s.issue(user)
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.Internal("failed to load user", err)
		}
	}

	username, err := s.availableUsername(ctx, identity)
	if err != nil {
		return nil, err
	}
	uid := identity.UID
	user = &models.User{Username: username, Email: email, FirebaseUID: &uid}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Internal("failed to create user", err)
		}
		// a concurrent login for the same identity may have created it first
		existing, lookupErr := s.users.GetUserByFirebaseUID(ctx, identity.UID)
		if lookupErr == nil {
			return s.issue(existing)
		}
		if !errors.Is(lookupErr, repositories.ErrNotFound) {
			return nil, apperrors.Internal("failed to load user", lookupErr)
		}
		return nil, apperrors.Wrap(apperrors.KindConflict, "account_conflict", "An account with this username or email was created concurrently, please retry.", err)
	}
	return s.issue(user)
}

// Profile returns userID's public profile as seen by viewerID.
func (s *AccountService) Profile(ctx context.Context, viewerID, userID uint) (*models.UserProfile, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}

	profile := &models.UserProfile{User: *user}
	profile.FollowersCount, profile.FollowingCount, err = s.graph.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}
	if viewerID != 0 && viewerID != userID {
		profile.IsFollowing, err = s.graph.IsFollowing(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// UpdateProfile changes the caller's email and bio.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, req models.UpdateUserRequest) (*models.UserProfile, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != nil {
			if err := s.ensureEmailFree(ctx, *email, userID); err != nil {
				return nil, err
			}
		}
		user.Email = email
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, apperrors.Internal("failed to update user", err)
	}
	s.authors.Forget(ctx, userID)
	return s.Profile(ctx, userID, userID)
}

func (s *AccountService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.Internal("failed to generate token", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AccountService) ensureUsernameFree(ctx context.Context, username string) error {
	_, err := s.users.GetUserByUsername(ctx, username)
	if err == nil {
		return apperrors.ErrUsernameTaken
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return apperrors.Internal("failed to load user", err)
	}
	return nil
}

func (s *AccountService) ensureEmailFree(ctx context.Context, email string, owner uint) error {
	existing, err := s.users.GetUserByEmail(ctx, email)
	if err == nil && existing.ID != owner {
		return apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return apperrors.Internal("failed to load user", err)
	}
	return nil
}

var usernameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_.]+`)

// availableUsername derives a free handle from the identity's name or email.
func (s *AccountService) availableUsername(ctx context.Context, identity *Identity) (string, error) {
	base := identity.Name
	if base == "" {
		base, _, _ = strings.Cut(identity.Email, "@")
	}
	base = strings.ToLower(usernameUnsafe.ReplaceAllString(base, ""))
	if len(base) < 3 {
		base = "user"
	}
	if len(base) > 140 {
		base = base[:140]
	}

	candidate := base
	for i := 1; i <= 50; i++ {
		_, err := s.users.GetUserByUsername(ctx, candidate)
		if errors.Is(err, repositories.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", apperrors.Internal("failed to load user", err)
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return "", apperrors.ErrUsernameTaken
}

func normalizeEmail(email string) *string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	return &email
}
