// Package aggregates holds the write boundaries that must stay atomic across
// several repos, chiefly notice fanout: tag links, subscriber lookup and notice
// inserts for one article, committed together or not at all.
//
// Aggregates compose the table-level repos from internal/data/repos and own
// their transaction; callers pass a dbctx.Context only for the request context.
package aggregates
