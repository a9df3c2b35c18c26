// Package aggregates defines the fanout contract, its result types and the
// coded errors shared by services and the HTTP layer.
package aggregates
