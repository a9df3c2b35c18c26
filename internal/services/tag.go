package services

import (
	"context"
	"strings"

	"github.com/yungbote/guideance-backend/internal/data/aggregates"
	"github.com/yungbote/guideance-backend/internal/data/repos"
	types "github.com/yungbote/guideance-backend/internal/domain"
	domainagg "github.com/yungbote/guideance-backend/internal/domain/aggregates"
	"github.com/yungbote/guideance-backend/internal/domain/paging"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

type TagService interface {
	// FindOrCreate returns the tag named exactly name, creating it when absent.
	// A concurrent creator winning the unique index is resolved by re-reading.
	FindOrCreate(ctx context.Context, name string) (*types.Tag, error)
	Create(ctx context.Context, name string) (*types.Tag, error)
	Search(ctx context.Context, fragment string, page int) (paging.Page[*types.Tag], error)
}

type tagService struct {
	log     *logger.Logger
	tags    repos.TagRepo
	size    int
	resolve tagResolver
}

func NewTagService(log *logger.Logger, tags repos.TagRepo, sizes paging.Sizes) TagService {
	serviceLog := log.With("service", "TagService")
	return &tagService{
		log:     serviceLog,
		tags:    tags,
		size:    sizes.WithDefaults().Tags,
		resolve: tagResolver{tags: tags, log: serviceLog},
	}
}

func (ts *tagService) FindOrCreate(ctx context.Context, name string) (*types.Tag, error) {
	tag, err := ts.resolve.findOrCreate(dbctx.Context{Ctx: ctx}, name)
	if err != nil {
		return nil, aggregates.MapError("tag.find_or_create", err)
	}
	return tag, nil
}

func (ts *tagService) Create(ctx context.Context, name string) (*types.Tag, error) {
	const op = "tag.create"
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainagg.Validation(op, "tag name required")
	}
	dbc := dbctx.Context{Ctx: ctx}
	exists, err := ts.tags.ExistsByName(dbc, name)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if exists {
		return nil, domainagg.NewError(domainagg.CodeDuplicateTag, op, "tag already exists: "+name, nil)
	}
	tag, err := ts.tags.Create(dbc, &types.Tag{Name: name})
	if err != nil {
		if aggregates.IsUniqueViolation(err) {
			return nil, domainagg.NewError(domainagg.CodeDuplicateTag, op, "tag already exists: "+name, err)
		}
		return nil, aggregates.MapError(op, err)
	}
	return tag, nil
}

func (ts *tagService) Search(ctx context.Context, fragment string, page int) (paging.Page[*types.Tag], error) {
	const op = "tag.search"
	req := paging.NewRequest(page, ts.size)
	dbc := dbctx.Context{Ctx: ctx}
	fragment = strings.TrimSpace(fragment)

	total, err := ts.tags.CountByNameContaining(dbc, fragment)
	if err != nil {
		return paging.Page[*types.Tag]{}, aggregates.MapError(op, err)
	}
	rows, err := ts.tags.SearchByNameContaining(dbc, fragment, req.Size, req.Offset())
	if err != nil {
		return paging.Page[*types.Tag]{}, aggregates.MapError(op, err)
	}
	return paging.New(rows, req, total), nil
}

// tagResolver is shared by every service that turns tag names into rows.
type tagResolver struct {
	tags repos.TagRepo
	log  *logger.Logger
}

func (r tagResolver) findOrCreate(dbc dbctx.Context, name string) (*types.Tag, error) {
	const op = "tag.find_or_create"
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainagg.Validation(op, "tag name required")
	}
	existing, err := r.tags.GetByName(dbc, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	var created *types.Tag
	err = aggregates.Savepoint(dbc, func(sp dbctx.Context) error {
		t, err := r.tags.Create(sp, &types.Tag{Name: name})
		created = t
		return err
	})
	if err == nil {
		return created, nil
	}
	if !aggregates.IsUniqueViolation(err) {
		return nil, err
	}

	r.log.Debug("tag created concurrently, re-reading", "tag", name)
	existing, err = r.tags.GetByName(dbc, name)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "tag vanished after unique violation", nil)
	}
	return existing, nil
}

// resolveAll maps names to tags in input order, skipping blanks and repeats.
func (r tagResolver) resolveAll(dbc dbctx.Context, names []string) ([]*types.Tag, error) {
	seen := make(map[string]struct{}, len(names))
	out := make([]*types.Tag, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tag, err := r.findOrCreate(dbc, name)
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, nil
}
