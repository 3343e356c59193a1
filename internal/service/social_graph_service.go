package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/weiawesome/foodgram/internal/audit"
	"github.com/weiawesome/foodgram/internal/domain"
	"github.com/weiawesome/foodgram/internal/events"
	"github.com/weiawesome/foodgram/internal/metrics"
	"github.com/weiawesome/foodgram/internal/repository"
	"github.com/weiawesome/foodgram/pkg/log"
)

type socialGraphServiceImpl struct {
	follows   repository.FollowRepository
	users     repository.UserRepository
	recipes   repository.RecipeRepository
	images    ImageStore
	publisher events.Publisher
}

// NewSocialGraphService creates a new social graph service.
func NewSocialGraphService(follows repository.FollowRepository, users repository.UserRepository, recipes repository.RecipeRepository, images ImageStore, publisher events.Publisher) SocialGraphService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &socialGraphServiceImpl{
		follows:   follows,
		users:     users,
		recipes:   recipes,
		images:    images,
		publisher: publisher,
	}
}

// Follow subscribes userID to authorID and returns the author with a
// preview of at most recipesLimit recipes (all when recipesLimit <= 0).
func (s *socialGraphServiceImpl) Follow(ctx context.Context, userID, authorID string, recipesLimit int) (*domain.Subscription, error) {
	l := log.Ctx(ctx)

	if userID == authorID {
		return nil, ErrSelfFollow
	}

	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.follows.Follow(ctx, userID, authorID); err != nil {
		if errors.Is(err, repository.ErrAlreadyFollowing) {
			return nil, ErrAlreadyFollowing
		}
		l.Error().Err(err).Str(log.FieldAuthorID, authorID).Msg("failed to follow")
		return nil, err
	}

	audit.LogTarget(ctx, audit.ActionFollow, userID, authorID, "user followed")
	s.publish(ctx, events.TypeUserFollowed, userID, authorID)

	subs, err := s.buildSubscriptions(ctx, []string{authorID}, recipesLimit)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, ErrUserNotFound
	}
	return &subs[0], nil
}

func (s *socialGraphServiceImpl) Unfollow(ctx context.Context, userID, authorID string) error {
	l := log.Ctx(ctx)

	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.follows.Unfollow(ctx, userID, authorID); err != nil {
		if errors.Is(err, repository.ErrFollowNotFound) {
			return ErrNotFollowing
		}
		l.Error().Err(err).Str(log.FieldAuthorID, authorID).Msg("failed to unfollow")
		return err
	}

	audit.LogTarget(ctx, audit.ActionUnfollow, userID, authorID, "user unfollowed")
	s.publish(ctx, events.TypeUserUnfollowed, userID, authorID)
	return nil
}

// Subscriptions returns one page of the authors userID follows, most
// recently followed first.
func (s *socialGraphServiceImpl) Subscriptions(ctx context.Context, userID string, offset, limit, recipesLimit int) ([]domain.Subscription, int64, error) {
	authorIDs, total, err := s.follows.ListFollowing(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	subs, err := s.buildSubscriptions(ctx, authorIDs, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// buildSubscriptions assembles followed authors in the order given. Authors
// that no longer exist are skipped.
func (s *socialGraphServiceImpl) buildSubscriptions(ctx context.Context, authorIDs []string, recipesLimit int) ([]domain.Subscription, error) {
	subs := make([]domain.Subscription, 0, len(authorIDs))
	if len(authorIDs) == 0 {
		return subs, nil
	}

	var (
		authors map[string]*domain.User
		recipes map[string][]domain.Recipe
		counts  map[string]int64
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		authors, err = s.users.GetByIDs(gCtx, authorIDs)
		return err
	})
	g.Go(func() error {
		var err error
		recipes, err = s.recipes.ListByAuthors(gCtx, authorIDs, recipesLimit)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.recipes.CountByAuthors(gCtx, authorIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, id := range authorIDs {
		author, ok := authors[id]
		if !ok {
			continue
		}

		sub := domain.Subscription{
			UserResponse: author.ToResponse(),
			Recipes:      make([]domain.RecipeShort, 0, len(recipes[id])),
			RecipesCount: counts[id],
		}
		sub.IsSubscribed = true
		for i := range recipes[id] {
			r := &recipes[id][i]
			sub.Recipes = append(sub.Recipes, domain.RecipeShort{
				ID:          r.ID,
				Name:        r.Name,
				Image:       s.images.URL(ctx, r.ImageKey),
				CookingTime: r.CookingTime,
			})
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (s *socialGraphServiceImpl) publish(ctx context.Context, eventType, actorID, authorID string) {
	event := events.New(eventType, authorID, actorID)
	event.AuthorID = authorID

	err := s.publisher.Publish(ctx, event)
	metrics.RecordEvent(eventType, err)
	if err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str("type", eventType).Str(log.FieldAuthorID, authorID).Msg("failed to publish event")
	}
}
