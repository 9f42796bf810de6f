package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/promorang/promorang-cli/pkg/api"
	"github.com/promorang/promorang-cli/pkg/client"
	"github.com/promorang/promorang-cli/pkg/models"
	"github.com/promorang/promorang-cli/pkg/normalize"
)

// ErrEmptyUpdate is returned when a profile update changes nothing.
var ErrEmptyUpdate = errors.New("profile update has no fields")

// ProfileUpdate is the editable subset of a profile. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=50"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

func (u ProfileUpdate) empty() bool {
	return u.DisplayName == nil && u.Bio == nil && u.AvatarURL == nil
}

// UserService reads and edits user profiles.
type UserService struct {
	api      API
	opts     options
	validate *validator.Validate
}

// NewUserService creates a UserService.
func NewUserService(a API, opts ...Option) *UserService {
	return &UserService{
		api:      a,
		opts:     newOptions(opts),
		validate: newValidator(),
	}
}

// Me returns the authenticated user.
func (s *UserService) Me(ctx context.Context) (models.SessionUser, error) {
	resp, err := s.api.Get(ctx, "/api/users/me")
	if err != nil {
		return models.SessionUser{}, api.Wrap("Failed to fetch current user", err)
	}
	return normalize.SessionUserFromBody(resp.Data), nil
}

// GetProfile returns a profile by id, or by username when ref starts with
// "@".
func (s *UserService) GetProfile(ctx context.Context, ref string) (models.ProfileUser, error) {
	path, err := profilePath(ref)
	if err != nil {
		return models.ProfileUser{}, err
	}

	resp, err := s.api.Get(ctx, path)
	if err != nil {
		return models.ProfileUser{}, api.Wrap("Failed to fetch profile", err)
	}
	p := normalize.ProfileFromBody(resp.Data)
	s.opts.log.Debugf("profile %s resolved to id=%q", ref, p.ID)
	return p, nil
}

func profilePath(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if name, ok := strings.CutPrefix(ref, "@"); ok {
		seg, err := segment(name)
		if err != nil {
			return "", err
		}
		return "/api/users/username/" + seg, nil
	}
	seg, err := segment(ref)
	if err != nil {
		return "", err
	}
	return "/api/users/" + seg, nil
}

// UpdateProfile edits the authenticated user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, u ProfileUpdate) (models.ProfileUser, error) {
	if u.empty() {
		return models.ProfileUser{}, ErrEmptyUpdate
	}
	if err := validateStruct(s.validate, u); err != nil {
		return models.ProfileUser{}, err
	}

	resp, err := s.api.Put(ctx, "/api/users/me", u)
	if err != nil {
		return models.ProfileUser{}, api.Wrap("Failed to update profile", err)
	}
	return normalize.ProfileFromBody(resp.Data), nil
}

// UploadAvatar uploads an avatar image as multipart form data.
func (s *UserService) UploadAvatar(ctx context.Context, filename string, r io.Reader) (models.ProfileUser, error) {
	form := client.NewFormData()
	form.File("avatar", filepath.Base(filename), r)

	resp, err := s.api.Post(ctx, "/api/users/me/avatar", form)
	if err != nil {
		return models.ProfileUser{}, api.Wrap("Failed to upload avatar", err)
	}
	return normalize.ProfileFromBody(resp.Data), nil
}

// Wallets returns the authenticated user's wallets.
func (s *UserService) Wallets(ctx context.Context) ([]models.Wallet, error) {
	resp, err := s.api.Get(ctx, "/api/users/me/wallets")
	if err != nil {
		return nil, api.Wrap("Failed to fetch wallets", err)
	}
	return normalize.Wallets(normalize.FromRaw(resp.Data, "wallets")), nil
}
