package services

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/promorang/promorang-cli/pkg/api"
	"github.com/promorang/promorang-cli/pkg/models"
	"github.com/promorang/promorang-cli/pkg/normalize"
)

// BuySharesRequest is the body of POST /api/content/buy-shares.
type BuySharesRequest struct {
	ContentID   int64 `json:"content_id" validate:"required,gt=0"`
	SharesCount int   `json:"shares_count" validate:"required,gt=0,lte=1000"`
}

// ContentService reads and trades content.
type ContentService struct {
	api      API
	users    *UserService
	opts     options
	validate *validator.Validate
}

// NewContentService creates a ContentService. The viewer and wallet branches
// of LoadDetail go through a UserService sharing the same API.
func NewContentService(a API, opts ...Option) *ContentService {
	return &ContentService{
		api:      a,
		users:    NewUserService(a, opts...),
		opts:     newOptions(opts),
		validate: newValidator(),
	}
}

// GetContent fetches and normalizes one piece of content.
func (s *ContentService) GetContent(ctx context.Context, id string) (models.Content, error) {
	seg, err := segment(id)
	if err != nil {
		return models.Content{}, api.Wrap("Failed to fetch content", err)
	}

	resp, err := s.api.Get(ctx, "/api/content/"+seg)
	if err != nil {
		return models.Content{}, api.Wrap("Failed to fetch content", err)
	}

	payload := normalize.FromRaw(resp.Data, "content")
	if !payload.Present() {
		s.opts.log.Warnf("content %s: empty payload, using fallback", id)
	}
	return normalize.Content(payload, id), nil
}

// BuyShares buys shares of a piece of content.
func (s *ContentService) BuyShares(ctx context.Context, req BuySharesRequest) (models.TradeResult, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return models.TradeResult{}, err
	}

	resp, err := s.api.Post(ctx, "/api/content/buy-shares", req)
	if err != nil {
		return models.TradeResult{}, api.Wrap("Failed to buy shares", err)
	}

	id := strconv.FormatInt(req.ContentID, 10)
	s.opts.log.Infof("bought %d shares of content %s", req.SharesCount, id)
	return normalize.TradeResult(normalize.FromRaw(resp.Data, "trade"), id, int64(req.SharesCount)), nil
}

// Like likes a piece of content.
func (s *ContentService) Like(ctx context.Context, id string) (models.LikeState, error) {
	seg, err := segment(id)
	if err != nil {
		return models.LikeState{}, err
	}
	resp, err := s.api.Post(ctx, "/api/content/"+seg+"/like", nil)
	if err != nil {
		return models.LikeState{}, api.Wrap("Failed to like content", err)
	}
	return normalize.LikeState(normalize.FromRaw(resp.Data, "like"), id, true), nil
}

// Unlike removes the viewer's like.
func (s *ContentService) Unlike(ctx context.Context, id string) (models.LikeState, error) {
	seg, err := segment(id)
	if err != nil {
		return models.LikeState{}, err
	}
	resp, err := s.api.Delete(ctx, "/api/content/"+seg+"/like")
	if err != nil {
		return models.LikeState{}, api.Wrap("Failed to unlike content", err)
	}
	return normalize.LikeState(normalize.FromRaw(resp.Data, "like"), id, false), nil
}

// GetSponsorship fetches the sponsorship summary of a piece of content.
func (s *ContentService) GetSponsorship(ctx context.Context, id string) (models.Sponsorship, error) {
	seg, err := segment(id)
	if err != nil {
		return models.Sponsorship{}, err
	}
	resp, err := s.api.Get(ctx, "/api/content/"+seg+"/sponsorship")
	if err != nil {
		return models.Sponsorship{}, api.Wrap("Failed to fetch sponsorship", err)
	}
	return normalize.Sponsorship(normalize.FromRaw(resp.Data, "sponsorship"), id), nil
}

// GetMetrics fetches the engagement metrics of a piece of content.
func (s *ContentService) GetMetrics(ctx context.Context, id string) (models.ContentMetrics, error) {
	seg, err := segment(id)
	if err != nil {
		return models.ContentMetrics{}, err
	}
	resp, err := s.api.Get(ctx, "/api/content/"+seg+"/metrics")
	if err != nil {
		return models.ContentMetrics{}, api.Wrap("Failed to fetch metrics", err)
	}
	return normalize.Metrics(normalize.FromRaw(resp.Data, "metrics"), id), nil
}
