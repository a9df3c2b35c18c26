package aggregates

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// FanoutInput is one publish (or re-tag) event.
type FanoutInput struct {
	ArticleID uuid.UUID
	TagIDs    []uuid.UUID
}

// TagFailure records a tag whose subscribers could not be resolved.
type TagFailure struct {
	TagID uuid.UUID
	Err   error
}

// FanoutResult summarises one event. Recipients counts distinct users after
// author exclusion; Created + Skipped == Recipients.
type FanoutResult struct {
	ArticleID  uuid.UUID
	Recipients int
	Created    int
	Skipped    int
	FailedTags []TagFailure
}

func (r FanoutResult) Partial() bool { return len(r.FailedTags) > 0 }

// Err reports per-tag failures as a partial_fanout_failure error, or nil.
func (r FanoutResult) Err() error {
	if !r.Partial() {
		return nil
	}
	parts := make([]string, 0, len(r.FailedTags))
	for _, f := range r.FailedTags {
		parts = append(parts, fmt.Sprintf("%s: %v", f.TagID, f.Err))
	}
	return NewError(CodePartialFanout, "notice_fanout", strings.Join(parts, "; "), nil)
}

var NoticeFanoutAggregateContract = Contract{
	Name:             "Notice.FanoutAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns one-notice-per-(recipient, article) across publish and re-tag events.",
}

// NoticeFanoutAggregate owns the one-notice-per-(recipient, article) invariant.
type NoticeFanoutAggregate interface {
	Aggregate
	Fanout(ctx context.Context, in FanoutInput) (FanoutResult, error)
}
