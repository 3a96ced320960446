package auth

import (
	"context"

	"github.com/TalelKhemiri/GoCodeMobile/internal/api"
	"github.com/TalelKhemiri/GoCodeMobile/internal/domain"
	"github.com/TalelKhemiri/GoCodeMobile/internal/errors"
	"github.com/TalelKhemiri/GoCodeMobile/internal/identity"
)

type API interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) error
}

type Config struct {
	API      API
	Identity *identity.Store
}

type Service struct {
	api API
	ids *identity.Store
}

func NewService(c Config) *Service {
	return &Service{
		api: c.API,
		ids: c.Identity,
	}
}

type LoginRequest struct {
	Username string
	Password string
}

// Login authenticates against the backend and caches the returned
// {user, role, accessToken} triple. A server rejection always surfaces as
// the fixed inline message, never the raw backend error.
func (s *Service) Login(ctx context.Context, req LoginRequest) error {
	if req.Username == "" || req.Password == "" {
		return errors.New(errors.CodeInvalidArgument,
			errors.WithMessagef("Champs requis."))
	}

	resp, err := s.api.Login(ctx, api.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return errors.New(errors.CodeUnauthenticated,
			errors.WithMessagef("Identifiants incorrects."),
			errors.WithCause(err))
	}

	return s.ids.Save(ctx, domain.Account{
		User:        resp.Username,
		Role:        resp.Role,
		AccessToken: resp.Access,
	})
}

type RegisterRequest struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Register creates an account. It does not sign the user in; callers are
// expected to go through Login afterwards.
func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return errors.New(errors.CodeInvalidArgument,
			errors.WithMessagef("Champs requis."))
	}

	return s.api.Register(ctx, api.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
}

// Logout clears the cached identity. Subscribers on the bus are notified by
// the store.
func (s *Service) Logout(ctx context.Context) error {
	return s.ids.Clear(ctx)
}
