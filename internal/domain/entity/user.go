package entity

import (
	"fmt"
	"strings"
	"time"
)

// Role is the single authorization attribute carried by a user.
// Permissions are predicates on the role rather than separate user types.
type Role string

const (
	RoleReader     Role = "READER"
	RoleJournalist Role = "JOURNALIST"
	RoleEditor     Role = "EDITOR"
)

const maxUsernameLength = 150

// ParseRole converts a case-insensitive role name into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", &ValidationError{Field: "role", Message: fmt.Sprintf("invalid role %q (must be READER, JOURNALIST, or EDITOR)", s)}
	}
	return r, nil
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleReader, RoleJournalist, RoleEditor:
		return true
	}
	return false
}

// Label returns the human readable role name.
func (r Role) Label() string {
	switch r {
	case RoleReader:
		return "Reader"
	case RoleJournalist:
		return "Journalist"
	case RoleEditor:
		return "Editor"
	}
	return string(r)
}

// CanAuthor reports whether users of this role may write articles and newsletters.
func (r Role) CanAuthor() bool { return r == RoleJournalist }

// CanApprove reports whether users of this role may approve articles.
func (r Role) CanApprove() bool { return r == RoleEditor }

// CanBeFollowed reports whether users of this role may appear in a follow-set.
func (r Role) CanBeFollowed() bool { return r == RoleJournalist }

// CanManage reports whether users of this role may perform administrative
// writes (taxonomy, role changes, deletions).
func (r Role) CanManage() bool { return r == RoleEditor }

// CanViewDrafts reports whether users of this role may read any unapproved article.
func (r Role) CanViewDrafts() bool { return r == RoleEditor }

// User is an account on the platform.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Validate checks the user fields and defaults an empty role to Reader.
func (u *User) Validate() error {
	if u.Role == "" {
		u.Role = RoleReader
	}
	if strings.TrimSpace(u.Username) == "" {
		return &ValidationError{Field: "username", Message: "is required"}
	}
	if len(u.Username) > maxUsernameLength {
		return &ValidationError{Field: "username", Message: fmt.Sprintf("must not exceed %d characters", maxUsernameLength)}
	}
	if !u.Role.IsValid() {
		return &ValidationError{Field: "role", Message: fmt.Sprintf("invalid role %q", u.Role)}
	}
	return nil
}

// String returns the username, matching how users are listed in admin views.
func (u *User) String() string { return u.Username }

// ValidateFollow checks that follower may add target to its follow-set.
// Only journalists can be followed; the relation is directional.
func ValidateFollow(follower, target *User) error {
	if follower == nil || target == nil {
		return ErrNotFound
	}
	if follower.ID == target.ID {
		return &ValidationError{Field: "followed", Message: "users cannot follow themselves"}
	}
	if !target.Role.CanBeFollowed() {
		return &ValidationError{Field: "followed", Message: fmt.Sprintf("user %q is not a journalist", target.Username)}
	}
	return nil
}
