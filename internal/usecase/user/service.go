package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/observability/metrics"
	"sportsdesk/internal/repository"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Service provides user management use cases.
type Service struct {
	Repo repository.UserRepository

	// BcryptCost defaults to bcrypt.DefaultCost when zero.
	BcryptCost int
	Now        func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) cost() int {
	if s.BcryptCost == 0 {
		return bcrypt.DefaultCost
	}
	return s.BcryptCost
}

// Register creates a Reader account. Role elevation is an editor action.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	return s.CreateUser(ctx, in, entity.RoleReader)
}

// CreateUser creates an account with an explicit role.
// Returns *entity.UniquenessError when the username is taken.
func (s *Service) CreateUser(ctx context.Context, in RegisterInput, role entity.Role) (*entity.User, error) {
	u := &entity.User{
		Username:  strings.TrimSpace(in.Username),
		Email:     strings.TrimSpace(in.Email),
		Role:      role,
		CreatedAt: s.now(),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if u.Email != "" {
		if _, err := mail.ParseAddress(u.Email); err != nil {
			return nil, &entity.ValidationError{Field: "email", Message: "is not a valid address"}
		}
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords both yield entity.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	if username == "" || password == "" {
		return nil, entity.ErrInvalidCredentials
	}
	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	if u == nil {
		// タイミング差を抑えるためダミー比較
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return nil, entity.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, entity.ErrInvalidCredentials
	}
	return u, nil
}

var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("sportsdesk-dummy-password"), bcrypt.DefaultCost)
	return h
})

// Get retrieves a user by ID.
func (s *Service) Get(ctx context.Context, id int64) (*entity.User, error) {
	if id <= 0 {
		return nil, ErrInvalidUserID
	}
	u, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// GetByUsername retrieves a user by username.
func (s *Service) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// List returns all users ordered by username.
func (s *Service) List(ctx context.Context) ([]*entity.User, error) {
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ChangeRole sets a user's role. Existing follow edges are kept even when a
// journalist is demoted.
func (s *Service) ChangeRole(ctx context.Context, id int64, role entity.Role) error {
	if id <= 0 {
		return ErrInvalidUserID
	}
	if !role.IsValid() {
		return &entity.ValidationError{Field: "role", Message: fmt.Sprintf("invalid role %q", role)}
	}
	if err := s.Repo.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

// Delete removes a user together with everything they authored.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidUserID
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// Follow adds targetID to followerID's follow-set. Only journalists can be
// followed and following twice is a no-op.
func (s *Service) Follow(ctx context.Context, followerID, targetID int64) error {
	follower, err := s.Get(ctx, followerID)
	if err != nil {
		return err
	}
	target, err := s.Get(ctx, targetID)
	if err != nil {
		return err
	}
	if err := entity.ValidateFollow(follower, target); err != nil {
		return err
	}
	added, err := s.Repo.AddFollow(ctx, follower.ID, target.ID)
	if err != nil {
		return fmt.Errorf("add follow: %w", err)
	}
	if added {
		metrics.RecordFollow(true)
	}
	return nil
}

// Unfollow removes the edge followerID -> targetID. Removing a missing edge
// is not an error.
func (s *Service) Unfollow(ctx context.Context, followerID, targetID int64) error {
	if followerID <= 0 || targetID <= 0 {
		return ErrInvalidUserID
	}
	removed, err := s.Repo.RemoveFollow(ctx, followerID, targetID)
	if err != nil {
		return fmt.Errorf("remove follow: %w", err)
	}
	if removed {
		metrics.RecordFollow(false)
	}
	return nil
}

// ListFollowing returns the users id follows.
func (s *Service) ListFollowing(ctx context.Context, id int64) ([]*entity.User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	users, err := s.Repo.ListFollowing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return users, nil
}

// ListFollowers returns the users following id.
func (s *Service) ListFollowers(ctx context.Context, id int64) ([]*entity.User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	users, err := s.Repo.ListFollowers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return users, nil
}
