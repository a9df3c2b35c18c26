package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/guideance-backend/internal/data/aggregates"
	"github.com/yungbote/guideance-backend/internal/data/repos"
	types "github.com/yungbote/guideance-backend/internal/domain"
	domainagg "github.com/yungbote/guideance-backend/internal/domain/aggregates"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

type UserService interface {
	Signup(ctx context.Context, name, email string) (*types.User, error)
	Get(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateName(ctx context.Context, userID uuid.UUID, name string) (*types.User, error)
	// Delete removes the user. What happens to authored content depends on
	// the configured DeletePolicy; subscriptions and received notices always go.
	Delete(ctx context.Context, userID uuid.UUID) error
}

type UserServiceDeps struct {
	Users         repos.UserRepo
	Articles      repos.ArticleRepo
	ArticleTags   repos.ArticleTagRepo
	Comments      repos.CommentRepo
	Likes         repos.LikeRepo
	Subscriptions repos.SubscriptionRepo
	Notices       repos.NoticeRepo
}

type userService struct {
	db     *gorm.DB
	log    *logger.Logger
	deps   UserServiceDeps
	policy types.DeletePolicy
}

func NewUserService(db *gorm.DB, log *logger.Logger, deps UserServiceDeps, policy types.DeletePolicy) UserService {
	if policy == "" {
		policy = types.DeletePolicyDetach
	}
	return &userService{
		db:     db,
		log:    log.With("service", "UserService"),
		deps:   deps,
		policy: policy,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (us *userService) Signup(ctx context.Context, name, email string) (*types.User, error) {
	const op = "user.signup"
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, domainagg.Validation(op, "name required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, domainagg.Validation(op, "valid email required")
	}

	dbc := dbctx.Context{Ctx: ctx}
	exists, err := us.deps.Users.EmailExists(dbc, email)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if exists {
		return nil, domainagg.NewError(domainagg.CodeAlreadyExists, op, "email already registered", nil)
	}
	created, err := us.deps.Users.Create(dbc, []*types.User{{Name: name, Email: email}})
	if err != nil {
		// Lost a concurrent signup for the same email.
		if aggregates.IsUniqueViolation(err) {
			return nil, domainagg.NewError(domainagg.CodeAlreadyExists, op, "email already registered", err)
		}
		return nil, aggregates.MapError(op, err)
	}
	us.log.Info("user signed up", "user_id", created[0].ID, "email", email)
	return created[0], nil
}

func (us *userService) Get(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	const op = "user.get"
	u, err := us.deps.Users.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if u == nil {
		return nil, domainagg.NotFound(op, "user")
	}
	return u, nil
}

func (us *userService) UpdateName(ctx context.Context, userID uuid.UUID, name string) (*types.User, error) {
	const op = "user.update_name"
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainagg.Validation(op, "name required")
	}
	var out *types.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		u, err := us.deps.Users.GetByID(dbc, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return domainagg.NotFound(op, "user")
		}
		if err := us.deps.Users.UpdateName(dbc, userID, name); err != nil {
			return err
		}
		u.Name = name
		out = u
		return nil
	})
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return out, nil
}

func (us *userService) Delete(ctx context.Context, userID uuid.UUID) error {
	const op = "user.delete"
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		u, err := us.deps.Users.GetByID(dbc, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return domainagg.NotFound(op, "user")
		}

		switch us.policy {
		case types.DeletePolicyCascade:
			articleIDs, err := us.deps.Articles.ListIDsByAuthor(dbc, userID)
			if err != nil {
				return err
			}
			if err := deleteArticleGraph(dbc, us.deps.ArticleTags, us.deps.Comments, us.deps.Likes, us.deps.Notices, articleIDs); err != nil {
				return err
			}
			if _, err := us.deps.Articles.DeleteByIDs(dbc, articleIDs); err != nil {
				return err
			}
			if err := us.deps.Comments.DeleteByAuthor(dbc, userID); err != nil {
				return err
			}
		default:
			if err := us.deps.Articles.DetachAuthor(dbc, userID); err != nil {
				return err
			}
			if err := us.deps.Comments.DetachAuthor(dbc, userID); err != nil {
				return err
			}
		}

		if err := us.deps.Likes.DeleteByUser(dbc, userID); err != nil {
			return err
		}
		if err := us.deps.Subscriptions.DeleteByUser(dbc, userID); err != nil {
			return err
		}
		if err := us.deps.Notices.DeleteByRecipient(dbc, userID); err != nil {
			return err
		}
		_, err = us.deps.Users.DeleteByID(dbc, userID)
		return err
	})
	if err != nil {
		return aggregates.MapError(op, err)
	}
	us.log.Info("user deleted", "user_id", userID, "policy", string(us.policy))
	return nil
}

// deleteArticleGraph removes everything hanging off the given articles, but
// not the articles themselves.
func deleteArticleGraph(dbc dbctx.Context, articleTags repos.ArticleTagRepo, comments repos.CommentRepo, likes repos.LikeRepo, notices repos.NoticeRepo, articleIDs []uuid.UUID) error {
	if len(articleIDs) == 0 {
		return nil
	}
	if err := articleTags.DeleteByArticleIDs(dbc, articleIDs); err != nil {
		return err
	}
	if err := comments.DeleteByArticleIDs(dbc, articleIDs); err != nil {
		return err
	}
	if err := likes.DeleteByArticleIDs(dbc, articleIDs); err != nil {
		return err
	}
	return notices.DeleteBySubjects(dbc, types.NoticeSubjectArticle, articleIDs)
}
