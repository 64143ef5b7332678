package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log"
	"sort"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"bankai/backend/internal/domain"
	"bankai/backend/internal/store"
	"bankai/backend/internal/xid"
)

const minCredentialLength = 6

func (s *Service) ListUsers(ctx context.Context) ([]domain.UserView, error) {
	if err := requireOwner(ctx); err != nil {
		return nil, err
	}
	users, _, err := s.docs.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	views := make([]domain.UserView, 0, len(users))
	for _, user := range users {
		views = append(views, domain.UserView{ID: user.ID, Name: user.Name, Role: user.Role})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views, nil
}

func (s *Service) CreateUser(ctx context.Context, req domain.UserCreateRequest) (domain.UserView, error) {
	if err := requireOwner(ctx); err != nil {
		return domain.UserView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createUserLocked(ctx, req)
}

// EnsureOwner creates the first owner account when no user exists yet.
// It reports whether an account was created.
func (s *Service) EnsureOwner(ctx context.Context, name, credential string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, _, err := s.docs.LoadUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("load users: %w", err)
	}
	if len(users) > 0 {
		return false, nil
	}
	if _, err := s.createUserLocked(ctx, domain.UserCreateRequest{
		Name:       name,
		Credential: credential,
		Role:       domain.RoleOwner,
	}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) createUserLocked(ctx context.Context, req domain.UserCreateRequest) (domain.UserView, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.UserView{}, fmt.Errorf("%w: name is required", store.ErrInvalidInput)
	}
	if len(req.Credential) < minCredentialLength {
		return domain.UserView{}, fmt.Errorf("%w: credential must be at least %d characters", store.ErrInvalidInput, minCredentialLength)
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = domain.RoleStaff
	}
	if role != domain.RoleStaff && role != domain.RoleOwner {
		return domain.UserView{}, fmt.Errorf("%w: role must be staff or owner", store.ErrInvalidInput)
	}

	users, version, err := s.docs.LoadUsers(ctx)
	if err != nil {
		return domain.UserView{}, fmt.Errorf("load users: %w", err)
	}
	if findUser(users, name) >= 0 {
		return domain.UserView{}, fmt.Errorf("%w: user %s already exists", store.ErrInvalidInput, name)
	}

	hashed, err := hashCredential(req.Credential)
	if err != nil {
		return domain.UserView{}, fmt.Errorf("hash credential: %w", err)
	}
	user := domain.User{ID: xid.New(), Name: name, Credential: hashed, Role: role}
	if _, err := s.docs.SaveUsers(ctx, append(users, user), version); err != nil {
		return domain.UserView{}, err
	}
	return domain.UserView{ID: user.ID, Name: user.Name, Role: user.Role}, nil
}

// Authenticate matches name and credential against the stored users. A
// credential still stored in clear text is accepted once and replaced by
// its bcrypt hash.
func (s *Service) Authenticate(ctx context.Context, name, credential string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, version, err := s.docs.LoadUsers(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("load users: %w", err)
	}
	idx := findUser(users, strings.TrimSpace(name))
	if idx < 0 || credential == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	user := users[idx]

	if isCredentialHash(user.Credential) {
		if bcrypt.CompareHashAndPassword([]byte(user.Credential), []byte(credential)) != nil {
			return domain.User{}, ErrInvalidCredentials
		}
		return user, nil
	}

	if subtle.ConstantTimeCompare([]byte(user.Credential), []byte(credential)) != 1 {
		return domain.User{}, ErrInvalidCredentials
	}
	if hashed, err := hashCredential(credential); err == nil {
		users[idx].Credential = hashed
		if _, err := s.docs.SaveUsers(ctx, users, version); err != nil {
			log.Printf("[service] WARN: failed to upgrade credential for %s: %v", user.Name, err)
		} else {
			user.Credential = hashed
		}
	}
	return user, nil
}

func findUser(users []domain.User, name string) int {
	for i, user := range users {
		if strings.EqualFold(user.Name, name) {
			return i
		}
	}
	return -1
}

func hashCredential(credential string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func isCredentialHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}
