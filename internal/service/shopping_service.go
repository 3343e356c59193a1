package service

import (
	"context"

	"github.com/weiawesome/foodgram/internal/metrics"
	"github.com/weiawesome/foodgram/internal/repository"
	"github.com/weiawesome/foodgram/internal/shopping"
	"github.com/weiawesome/foodgram/pkg/log"
)

type shoppingServiceImpl struct {
	cart     repository.CartRepository
	renderer *shopping.Renderer
}

// NewShoppingService creates a new shopping list service.
func NewShoppingService(cart repository.CartRepository, renderer *shopping.Renderer) ShoppingService {
	return &shoppingServiceImpl{
		cart:     cart,
		renderer: renderer,
	}
}

// List aggregates the ingredient lines of every recipe in the cart.
func (s *shoppingServiceImpl) List(ctx context.Context, userID string) ([]shopping.Item, error) {
	lines, err := s.cart.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	return shopping.Aggregate(lines), nil
}

// Download renders the aggregated list in the requested format.
func (s *shoppingServiceImpl) Download(ctx context.Context, userID string, format shopping.Format) (*shopping.Document, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	doc, err := s.renderer.Render(items, format)
	metrics.RecordShoppingListRender(string(format), len(items), err)
	if err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str(log.FieldUserID, userID).Str("format", string(format)).Msg("failed to render shopping list")
		return nil, err
	}
	return doc, nil
}
