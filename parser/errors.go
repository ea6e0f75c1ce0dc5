// Package parser reads the projection, platform ranking and team strength
// CSV exports.
package parser

import "github.com/pkg/errors"

var (
	// ErrMalformedProjections marks a projection file that does not follow
	// the block layout.
	ErrMalformedProjections = errors.New("malformed projection file")

	// ErrMalformedRankings marks a platform ranking file that does not have
	// exactly the Name, Position and platform columns.
	ErrMalformedRankings = errors.New("malformed platform ranking file")
)
