package query

import (
	"github.com/huandu/go-sqlbuilder"
)

// FilterStrategy adds WHERE conditions to an article query
type FilterStrategy interface {
	// ApplyFilter adds filter conditions to the query builder
	ApplyFilter(sb *sqlbuilder.SelectBuilder)
}
