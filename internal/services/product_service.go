package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"backoffice/internal/models"
	"backoffice/pkg/shopware"
	"backoffice/pkg/upstream"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SubmissionQueue is the queue product submission events are published to.
const SubmissionQueue = "zalando.submission"

// Submission outcomes.
const (
	SubmissionAccepted = "accepted"
	SubmissionRejected = "rejected"
	SubmissionInvalid  = "invalid"
)

// SubmissionObserver counts submission outcomes.
type SubmissionObserver interface {
	ObserveSubmission(outcome string)
}

// SubmissionEvent is published after every submission attempt that reached
// the marketplace.
type SubmissionEvent struct {
	ArticleID   string    `json:"articleId"`
	VariantID   string    `json:"variantId"`
	Outline     string    `json:"outline"`
	Status      int       `json:"status"`
	Outcome     string    `json:"outcome"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// SubmissionResult is returned to the caller of Submit.
type SubmissionResult struct {
	Status  int    `json:"status"`
	Outcome string `json:"outcome"`
}

// ProductService handles the catalog lookups and the marketplace submission.
type ProductService struct {
	shop      Shopware
	zalando   Zalando
	publisher EventPublisher
	observer  SubmissionObserver
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewProductService creates a new ProductService. publisher and observer may
// be nil.
func NewProductService(shop Shopware, zalando Zalando, publisher EventPublisher, observer SubmissionObserver, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		shop:      shop,
		zalando:   zalando,
		publisher: publisher,
		observer:  observer,
		validate:  NewValidator(),
		logger:    logger,
	}
}

// Articles retrieves the catalog articles.
func (s *ProductService) Articles(ctx context.Context) ([]models.Article, error) {
	articles := []models.Article{}
	if err := s.shop.Decode(ctx, shopware.ResourceArticles, &articles); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

// Variants retrieves the article variants.
func (s *ProductService) Variants(ctx context.Context) ([]models.Variant, error) {
	variants := []models.Variant{}
	if err := s.shop.Decode(ctx, shopware.ResourceVariantsAdv, &variants); err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	return variants, nil
}

// Outlines retrieves the outlines known to the commerce platform.
func (s *ProductService) Outlines(ctx context.Context) (json.RawMessage, error) {
	data, err := s.shop.Data(ctx, shopware.ResourceOutlines)
	if err != nil {
		return nil, fmt.Errorf("failed to list outlines: %w", err)
	}
	return data, nil
}

// MarketplaceOutlines retrieves the marketplace outlines.
func (s *ProductService) MarketplaceOutlines(ctx context.Context) (json.RawMessage, error) {
	return s.zalando.Outlines(ctx)
}

// Attributes retrieves the values of one marketplace attribute lookup.
func (s *ProductService) Attributes(ctx context.Context, name string) (json.RawMessage, error) {
	return s.zalando.Attributes(ctx, name)
}

// FormData holds every lookup the product form offers.
type FormData struct {
	Articles   []models.Article           `json:"articles"`
	Variants   []models.Variant           `json:"variants"`
	Outlines   json.RawMessage            `json:"outlines"`
	Attributes map[string]json.RawMessage `json:"attributes"`
}

// FormData fetches all product form lookups concurrently.
func (s *ProductService) FormData(ctx context.Context) (*FormData, error) {
	out := &FormData{Attributes: make(map[string]json.RawMessage)}
	names := []string{"brandcode", "target_genders", "target_age_groups", "size", "season_code", "color_code"}
	attrs := make([]json.RawMessage, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Articles, err = s.Articles(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Variants, err = s.Variants(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Outlines, err = s.zalando.Outlines(gctx)
		return err
	})
	for i, name := range names {
		g.Go(func() error {
			var err error
			attrs[i], err = s.zalando.Attributes(gctx, name)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, name := range names {
		out.Attributes[name] = attrs[i]
	}
	return out, nil
}

// Prefill derives the name, description and variant of a draft from the
// chosen article.
func (s *ProductService) Prefill(ctx context.Context, articleID string) (*models.DraftPrefill, error) {
	id, err := strconv.Atoi(articleID)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"articleId": "must be numeric"}}
	}

	var (
		articles []models.Article
		variants []models.Variant
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		articles, err = s.Articles(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		variants, err = s.Variants(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	prefill := &models.DraftPrefill{}
	found := false
	for _, a := range articles {
		if a.ID == id {
			prefill.Name = a.Name
			prefill.Description = a.Description
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("article %s: %w", articleID, upstream.ErrNotFound)
	}
	for _, v := range variants {
		if v.ArticleID == id {
			prefill.VariantID = strconv.Itoa(v.ID)
			break
		}
	}
	return prefill, nil
}

// Submit validates the draft, shapes it into the marketplace payload and
// posts it. Invalid drafts are never sent.
func (s *ProductService) Submit(ctx context.Context, draft models.ProductDraft) (*SubmissionResult, error) {
	if err := s.validate.Struct(draft); err != nil {
		s.observe(SubmissionInvalid)
		return nil, validationError(err)
	}

	status, err := s.zalando.SubmitProduct(ctx, draft.Submission())
	if err != nil && status == 0 {
		return nil, err
	}

	outcome := SubmissionAccepted
	if err != nil {
		outcome = SubmissionRejected
	}
	s.observe(outcome)
	s.publish(SubmissionEvent{
		ArticleID:   draft.ArticleID,
		VariantID:   draft.VariantID,
		Outline:     draft.ArticleType,
		Status:      status,
		Outcome:     outcome,
		SubmittedAt: time.Now().UTC(),
	})

	if err != nil {
		return nil, err
	}
	s.logger.Info("product submitted", zap.String("article_id", draft.ArticleID), zap.Int("status", status))
	return &SubmissionResult{Status: status, Outcome: outcome}, nil
}

func (s *ProductService) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveSubmission(outcome)
	}
}

func (s *ProductService) publish(ev SubmissionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(SubmissionQueue, ev); err != nil {
		s.logger.Warn("failed to publish submission event", zap.String("article_id", ev.ArticleID), zap.Error(err))
	}
}
