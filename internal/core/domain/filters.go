package domain

// SortKey selects the ordering column for listing queries.
type SortKey string

const (
	SortByFirstSeen SortKey = "first_seen"
	SortByPrice     SortKey = "price"
	SortByMileage   SortKey = "mileage"
	SortByYear      SortKey = "year"
)

// ListingFilters narrows listing queries. Nil bounds are unbounded; empty
// strings are ignored.
type ListingFilters struct {
	MinPrice   *float64
	MaxPrice   *float64
	MinYear    *int
	MaxYear    *int
	MaxMileage *int

	Make         string
	Search       string // free-text match against title and description
	CosmeticOnly *bool
	Site         string
}

// ListingSort orders query results.
type ListingSort struct {
	Key        SortKey
	Descending bool
}

// Pagination bounds query results.
type Pagination struct {
	Limit  int
	Offset int
}
