package services

import (
	"context"

	"github.com/asistoya/shared-services/internal/core/apperr"
	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/mapper"
	"github.com/asistoya/shared-services/internal/core/ports"
	"github.com/asistoya/shared-services/internal/logger"
)

// AuthService pairs the auth provider's identities with their rows in the
// users table.
type AuthService struct {
	auth  ports.AuthProvider
	store ports.Store
	clock domain.Clock
}

func NewAuthService(auth ports.AuthProvider, store ports.Store, clock domain.Clock) *AuthService {
	return &AuthService{auth: auth, store: store, clock: clock}
}

// SignUp creates the identity and then its profile row. The two writes are
// not atomic: when the profile insert fails the identity is kept and the
// failure is only logged.
func (s *AuthService) SignUp(ctx context.Context, data domain.SignUpData) (*domain.AuthUser, error) {
	if err := firstMissing([2]string{"email", data.Email}, [2]string{"password", data.Password}); err != nil {
		return nil, err
	}
	role := data.Role
	if role == "" {
		role = domain.RoleParent
	}

	user, err := s.auth.SignUp(ctx, data.Email, data.Password, map[string]any{
		"name": data.Name,
		"role": string(role),
	})
	if err != nil {
		return nil, fail("AuthService.SignUp", err, "email", data.Email)
	}

	if _, err := s.store.Insert(ctx, tableUsers, mapper.NewUserRow(user.ID, data, role, s.clock.Now())); err != nil {
		apperr.Log("AuthService.SignUp", apperr.Classify(err), "userId", user.ID, "step", "profile")
	}

	logger.Success("AuthService", "User signed up", "userId", user.ID, "role", role)
	return user, nil
}

func (s *AuthService) SignIn(ctx context.Context, data domain.SignInData) (*domain.Session, error) {
	if err := firstMissing([2]string{"email", data.Email}, [2]string{"password", data.Password}); err != nil {
		return nil, err
	}
	session, err := s.auth.SignIn(ctx, data.Email, data.Password)
	if err != nil {
		return nil, fail("AuthService.SignIn", err, "email", data.Email)
	}
	s.updateLastSeen(ctx, session.User.ID)

	logger.Success("AuthService", "User signed in", "userId", session.User.ID)
	return session, nil
}

func (s *AuthService) SignOut(ctx context.Context) error {
	if err := s.auth.SignOut(ctx); err != nil {
		return fail("AuthService.SignOut", err)
	}
	logger.Success("AuthService", "User signed out")
	return nil
}

// GetCurrentUser returns the signed-in identity, or nil.
func (s *AuthService) GetCurrentUser(ctx context.Context) *domain.AuthUser {
	u, err := s.auth.CurrentUser(ctx)
	if err != nil {
		apperr.Log("AuthService.GetCurrentUser", err)
		return nil
	}
	return u
}

// GetCurrentUserProfile returns the users row of the signed-in identity, or
// nil.
func (s *AuthService) GetCurrentUserProfile(ctx context.Context) *domain.User {
	u := s.GetCurrentUser(ctx)
	if u == nil {
		return nil
	}
	return s.GetUserByID(ctx, u.ID)
}

func (s *AuthService) GetSession(ctx context.Context) *domain.Session {
	session, err := s.auth.CurrentSession(ctx)
	if err != nil {
		apperr.Log("AuthService.GetSession", err)
		return nil
	}
	return session
}

func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	return s.GetSession(ctx) != nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, redirectTo string) error {
	if err := required("email", email); err != nil {
		return err
	}
	if err := s.auth.ResetPasswordForEmail(ctx, email, redirectTo); err != nil {
		return fail("AuthService.ResetPassword", err, "email", email)
	}
	logger.Success("AuthService", "Password reset requested", "email", email)
	return nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, newPassword string) error {
	if err := required("password", newPassword); err != nil {
		return err
	}
	if err := s.auth.UpdatePassword(ctx, newPassword); err != nil {
		return fail("AuthService.UpdatePassword", err)
	}
	logger.Success("AuthService", "Password updated")
	return nil
}

func (s *AuthService) UpdateUserProfile(ctx context.Context, userID string, u domain.UserUpdate) (*domain.User, error) {
	if err := required("userId", userID); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	patch := mapper.UserPatch(u)
	patch["updated_at"] = timestamp(now)

	raws, err := s.store.Update(ctx, tableUsers, patch, ports.Query{Where: []ports.Filter{ports.Eq("id", userID)}})
	if err != nil {
		return nil, fail("AuthService.UpdateUserProfile", err, "userId", userID)
	}
	if len(raws) == 0 {
		return nil, fail("AuthService.UpdateUserProfile", apperr.NotFound("User", ""), "userId", userID)
	}
	user, err := mapRow(raws[0], now, mapper.UserFromRow)
	if err != nil {
		return nil, fail("AuthService.UpdateUserProfile", err)
	}

	logger.Success("AuthService", "Profile updated", "userId", userID)
	return user, nil
}

// GetUserByID returns the users row of id, or nil.
func (s *AuthService) GetUserByID(ctx context.Context, id string) *domain.User {
	raws, err := s.store.Select(ctx, tableUsers, ports.Query{
		Where: []ports.Filter{ports.Eq("id", id)},
		Limit: 1,
	})
	if err != nil {
		apperr.Log("AuthService.GetUserByID", apperr.Classify(err), "userId", id)
		return nil
	}
	if len(raws) == 0 {
		return nil
	}
	user, err := mapRow(raws[0], s.clock.Now(), mapper.UserFromRow)
	if err != nil {
		apperr.Log("AuthService.GetUserByID", err)
		return nil
	}
	return user
}

// OnAuthStateChange calls fn with the session's identity, or nil when the
// session ended. Every event that carries a session also refreshes the
// user's last_seen.
func (s *AuthService) OnAuthStateChange(fn func(*domain.AuthUser)) func() {
	return s.auth.OnAuthStateChange(func(ctx context.Context, event domain.AuthEvent, session *domain.Session) {
		if session == nil {
			fn(nil)
			return
		}
		s.updateLastSeen(ctx, session.User.ID)
		user := session.User
		fn(&user)
	})
}

// updateLastSeen is best effort.
func (s *AuthService) updateLastSeen(ctx context.Context, userID string) {
	patch := domain.Patch{"last_seen": timestamp(s.clock.Now())}
	if _, err := s.store.Update(ctx, tableUsers, patch, ports.Query{Where: []ports.Filter{ports.Eq("id", userID)}}); err != nil {
		apperr.Log("AuthService.updateLastSeen", apperr.Classify(err), "userId", userID)
	}
}
