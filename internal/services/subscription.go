package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/guideance-backend/internal/data/aggregates"
	"github.com/yungbote/guideance-backend/internal/data/repos"
	types "github.com/yungbote/guideance-backend/internal/domain"
	domainagg "github.com/yungbote/guideance-backend/internal/domain/aggregates"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

type SubscriptionService interface {
	// Subscribe reports whether a new subscription was written.
	Subscribe(ctx context.Context, userID, tagID uuid.UUID) (bool, error)
	Unsubscribe(ctx context.Context, userID, tagID uuid.UUID) error
	ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]*types.Tag, error)
	SubscribeByName(ctx context.Context, userID uuid.UUID, tagName string) (*types.Tag, error)
}

type subscriptionService struct {
	log     *logger.Logger
	users   repos.UserRepo
	tags    repos.TagRepo
	subs    repos.SubscriptionRepo
	resolve tagResolver
}

func NewSubscriptionService(log *logger.Logger, users repos.UserRepo, tags repos.TagRepo, subs repos.SubscriptionRepo) SubscriptionService {
	serviceLog := log.With("service", "SubscriptionService")
	return &subscriptionService{
		log:     serviceLog,
		users:   users,
		tags:    tags,
		subs:    subs,
		resolve: tagResolver{tags: tags, log: serviceLog},
	}
}

func (ss *subscriptionService) requireUser(dbc dbctx.Context, op string, userID uuid.UUID) error {
	u, err := ss.users.GetByID(dbc, userID)
	if err != nil {
		return aggregates.MapError(op, err)
	}
	if u == nil {
		return domainagg.NotFound(op, "user")
	}
	return nil
}

func (ss *subscriptionService) Subscribe(ctx context.Context, userID, tagID uuid.UUID) (bool, error) {
	const op = "subscription.subscribe"
	dbc := dbctx.Context{Ctx: ctx}
	if err := ss.requireUser(dbc, op, userID); err != nil {
		return false, err
	}
	tag, err := ss.tags.GetByID(dbc, tagID)
	if err != nil {
		return false, aggregates.MapError(op, err)
	}
	if tag == nil {
		return false, domainagg.NotFound(op, "tag")
	}
	created, err := ss.subs.CreateIfAbsent(dbc, userID, tagID)
	if err != nil {
		return false, aggregates.MapError(op, err)
	}
	return created, nil
}

func (ss *subscriptionService) Unsubscribe(ctx context.Context, userID, tagID uuid.UUID) error {
	if _, err := ss.subs.Delete(dbctx.Context{Ctx: ctx}, userID, tagID); err != nil {
		return aggregates.MapError("subscription.unsubscribe", err)
	}
	return nil
}

func (ss *subscriptionService) ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]*types.Tag, error) {
	const op = "subscription.list"
	dbc := dbctx.Context{Ctx: ctx}
	if err := ss.requireUser(dbc, op, userID); err != nil {
		return nil, err
	}
	tags, err := ss.subs.ListTagsByUser(dbc, userID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if tags == nil {
		tags = []*types.Tag{}
	}
	return tags, nil
}

func (ss *subscriptionService) SubscribeByName(ctx context.Context, userID uuid.UUID, tagName string) (*types.Tag, error) {
	const op = "subscription.subscribe_by_name"
	dbc := dbctx.Context{Ctx: ctx}
	if err := ss.requireUser(dbc, op, userID); err != nil {
		return nil, err
	}
	tag, err := ss.resolve.findOrCreate(dbc, tagName)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if _, err := ss.subs.CreateIfAbsent(dbc, userID, tag.ID); err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return tag, nil
}
