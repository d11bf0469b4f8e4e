package postgres

import (
	"fmt"
	"strings"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argID      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argID:      1,
		conditions: []string{"is_active = true"},
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argID))
	qb.args = append(qb.args, arg)
	qb.argID++
}

func (qb *queryBuilder) addFloatRange(fieldName string, min, max *float64) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

func (qb *queryBuilder) addIntRange(fieldName string, min, max *int) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

func (qb *queryBuilder) build() (string, []interface{}) {
	if len(qb.conditions) == 0 {
		return "", qb.args
	}
	return "WHERE " + strings.Join(qb.conditions, " AND "), qb.args
}

// applyListingFilters turns the domain filter set into a WHERE clause with
// positional args. Nil bounds and empty strings add no condition.
func applyListingFilters(filters domain.ListingFilters) (string, []interface{}) {
	qb := newQueryBuilder()

	if filters.Site != "" {
		qb.addCondition("%s = $%d", "source_website", filters.Site)
	}
	if filters.Make != "" {
		qb.addCondition("%s ILIKE $%d", "make", filters.Make)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		qb.conditions = append(qb.conditions,
			fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", qb.argID, qb.argID))
		qb.args = append(qb.args, pattern)
		qb.argID++
	}
	if filters.CosmeticOnly != nil {
		qb.addCondition("%s = $%d", "has_cosmetic_damage_only", *filters.CosmeticOnly)
	}

	qb.addFloatRange("price", filters.MinPrice, filters.MaxPrice)
	qb.addIntRange("year", filters.MinYear, filters.MaxYear)
	qb.addIntRange("mileage", nil, filters.MaxMileage)

	return qb.build()
}

func orderClause(sort domain.ListingSort) string {
	column := "first_seen"
	switch sort.Key {
	case domain.SortByPrice:
		column = "price"
	case domain.SortByMileage:
		column = "mileage"
	case domain.SortByYear:
		column = "year"
	}

	direction := "ASC"
	if sort.Descending {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}
