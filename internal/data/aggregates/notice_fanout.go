package aggregates

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/yungbote/guideance-backend/internal/data/repos"
	types "github.com/yungbote/guideance-backend/internal/domain"
	domainagg "github.com/yungbote/guideance-backend/internal/domain/aggregates"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
)

const noticeInsertBatch = 500

type NoticeFanoutAggregateDeps struct {
	Base BaseDeps

	Articles      repos.ArticleRepo
	Tags          repos.TagRepo
	Subscriptions repos.SubscriptionRepo
	Notices       repos.NoticeRepo
}

type noticeFanoutAggregate struct {
	deps   NoticeFanoutAggregateDeps
	tracer trace.Tracer
}

func NewNoticeFanoutAggregate(deps NoticeFanoutAggregateDeps) domainagg.NoticeFanoutAggregate {
	deps.Base = deps.Base.withDefaults()
	deps.Base.Log = deps.Base.Log.With("aggregate", "NoticeFanoutAggregate")
	return &noticeFanoutAggregate{
		deps:   deps,
		tracer: otel.Tracer("guideance/aggregates"),
	}
}

func (a *noticeFanoutAggregate) Contract() domainagg.Contract {
	return domainagg.NoticeFanoutAggregateContract
}

// Fanout resolves the subscribers of every tag, drops the author and writes at
// most one notice per recipient for the article. A tag that cannot be resolved
// is rolled back to its savepoint and reported in FailedTags.
func (a *noticeFanoutAggregate) Fanout(ctx context.Context, in domainagg.FanoutInput) (domainagg.FanoutResult, error) {
	const op = "Notice.Fanout"
	out := domainagg.FanoutResult{ArticleID: in.ArticleID}
	if in.ArticleID == uuid.Nil {
		return out, domainagg.Validation(op, "missing article_id")
	}
	if a.deps.Articles == nil || a.deps.Tags == nil || a.deps.Subscriptions == nil || a.deps.Notices == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "fanout aggregate repos not configured", nil)
	}

	ctx, span := a.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("article_id", in.ArticleID.String()),
		attribute.Int("tag_count", len(in.TagIDs)),
	))
	defer span.End()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		// Reset per attempt so a retried runner never double counts.
		out = domainagg.FanoutResult{ArticleID: in.ArticleID}

		article, err := a.deps.Articles.GetByID(dbc, in.ArticleID)
		if err != nil {
			return err
		}
		if article == nil {
			return domainagg.NotFound(op, "article")
		}

		matched := map[uuid.UUID][]string{}
		order := make([]uuid.UUID, 0)
		for _, tagID := range dedupeIDs(in.TagIDs) {
			var tagName string
			var subscribers []uuid.UUID
			tagErr := Savepoint(dbc, func(sp dbctx.Context) error {
				tag, err := a.deps.Tags.GetByID(sp, tagID)
				if err != nil {
					return err
				}
				if tag == nil {
					return domainagg.NotFound(op, "tag")
				}
				ids, err := a.deps.Subscriptions.ListUserIDsByTag(sp, tagID)
				if err != nil {
					return err
				}
				tagName, subscribers = tag.Name, ids
				return nil
			})
			if tagErr != nil {
				a.deps.Base.Log.Warn("fanout tag failed",
					"article_id", in.ArticleID,
					"tag_id", tagID,
					"error", tagErr,
				)
				out.FailedTags = append(out.FailedTags, domainagg.TagFailure{TagID: tagID, Err: tagErr})
				continue
			}
			for _, userID := range subscribers {
				if article.IsAuthoredBy(userID) {
					continue
				}
				if _, seen := matched[userID]; !seen {
					order = append(order, userID)
				}
				matched[userID] = append(matched[userID], tagName)
			}
		}

		out.Recipients = len(order)
		if len(order) == 0 {
			return nil
		}

		notices := make([]*types.Notice, 0, len(order))
		for _, userID := range order {
			names := matched[userID]
			sort.Strings(names)
			meta, err := json.Marshal(map[string]any{
				"title": article.Title,
				"tags":  names,
			})
			if err != nil {
				return fmt.Errorf("marshal notice metadata: %w", err)
			}
			notices = append(notices, &types.Notice{
				RecipientID: userID,
				SubjectKind: types.NoticeSubjectArticle,
				SubjectID:   article.ID,
				Metadata:    datatypes.JSON(meta),
			})
		}

		var created int64
		for start := 0; start < len(notices); start += noticeInsertBatch {
			end := start + noticeInsertBatch
			if end > len(notices) {
				end = len(notices)
			}
			n, err := a.deps.Notices.CreateIfAbsent(dbc, notices[start:end])
			if err != nil {
				return err
			}
			created += n
		}
		out.Created = int(created)
		out.Skipped = out.Recipients - out.Created
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return domainagg.FanoutResult{ArticleID: in.ArticleID}, err
	}

	a.deps.Base.Hooks.ObserveFanout(out.Created, out.Skipped, len(out.FailedTags))
	span.SetAttributes(
		attribute.Int("recipients", out.Recipients),
		attribute.Int("created", out.Created),
		attribute.Int("failed_tags", len(out.FailedTags)),
	)
	a.deps.Base.Log.Debug("fanout complete",
		"article_id", in.ArticleID,
		"recipients", out.Recipients,
		"created", out.Created,
		"skipped", out.Skipped,
		"failed_tags", len(out.FailedTags),
	)
	return out, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
