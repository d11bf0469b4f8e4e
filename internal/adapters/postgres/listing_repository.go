// Package postgres implements the store ports on a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
)

const listingColumns = `id, fingerprint, source_website, external_id, url, title,
	make, model, year, price, mileage, fuel_type, transmission, color, location,
	images, description, damage_description, damage_keywords, has_cosmetic_damage_only,
	contact_info, deal_rating, profit_percentage, first_seen, last_seen, is_active`

type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

func (r *ListingRepository) FindByFingerprint(ctx context.Context, fp domain.Fingerprint) (domain.Listing, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE fingerprint = $1`,
		string(fp),
	)
	return scanListing(row)
}

func (r *ListingRepository) Create(ctx context.Context, fp domain.Fingerprint, listing domain.Listing) (domain.Listing, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO listings (
			id, fingerprint, source_website, external_id, url, title,
			make, model, year, price, mileage, fuel_type, transmission, color, location,
			images, description, damage_description, damage_keywords, has_cosmetic_damage_only,
			contact_info, deal_rating, profit_percentage, first_seen, last_seen, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26
		)`,
		listing.ID, string(fp), listing.SourceWebsite, listing.ExternalID, listing.URL, listing.Title,
		listing.Make, listing.Model, listing.Year, listing.Price, listing.Mileage,
		listing.FuelType, listing.Transmission, listing.Color, listing.Location,
		listing.Images, listing.Description, listing.DamageDescription, listing.DamageKeywords,
		listing.HasCosmeticDamageOnly, listing.ContactInfo, nullableString(listing.DealRating),
		listing.ProfitPercentage, listing.FirstSeen, listing.LastSeen, listing.IsActive,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // 23505 - unique_violation
			return domain.Listing{}, &domain.StoreConflictError{Fingerprint: fp, Err: err}
		}
		return domain.Listing{}, fmt.Errorf("inserting listing: %w", err)
	}
	return listing, nil
}

func (r *ListingRepository) Update(ctx context.Context, fp domain.Fingerprint, listing domain.Listing) (domain.Listing, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE listings SET
			url = $2, title = $3, make = $4, model = $5, year = $6, price = $7,
			mileage = $8, fuel_type = $9, transmission = $10, color = $11, location = $12,
			images = $13, description = $14, damage_description = $15, damage_keywords = $16,
			has_cosmetic_damage_only = $17, contact_info = $18, deal_rating = $19,
			profit_percentage = $20, last_seen = $21, is_active = $22
		WHERE fingerprint = $1`,
		string(fp),
		listing.URL, listing.Title, listing.Make, listing.Model, listing.Year, listing.Price,
		listing.Mileage, listing.FuelType, listing.Transmission, listing.Color, listing.Location,
		listing.Images, listing.Description, listing.DamageDescription, listing.DamageKeywords,
		listing.HasCosmeticDamageOnly, listing.ContactInfo, nullableString(listing.DealRating),
		listing.ProfitPercentage, listing.LastSeen, listing.IsActive,
	)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("updating listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return listing, nil
}

func (r *ListingRepository) Touch(ctx context.Context, fp domain.Fingerprint, seenAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE listings SET last_seen = $2 WHERE fingerprint = $1`,
		string(fp), seenAt,
	)
	if err != nil {
		return fmt.Errorf("touching listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Query(ctx context.Context, filters domain.ListingFilters, sort domain.ListingSort, page domain.Pagination) ([]domain.Listing, error) {
	whereClause, args := applyListingFilters(filters)
	query := fmt.Sprintf(
		`SELECT %s FROM listings %s %s LIMIT %d OFFSET %d`,
		listingColumns, whereClause, orderClause(sort), queryLimit(page.Limit), page.Offset,
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Listing, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = $1`,
		id,
	)
	return scanListing(row)
}

func scanListing(row pgx.Row) (domain.Listing, error) {
	var l domain.Listing
	var fingerprint string
	var dealRating *string

	err := row.Scan(
		&l.ID, &fingerprint, &l.SourceWebsite, &l.ExternalID, &l.URL, &l.Title,
		&l.Make, &l.Model, &l.Year, &l.Price, &l.Mileage, &l.FuelType, &l.Transmission,
		&l.Color, &l.Location, &l.Images, &l.Description, &l.DamageDescription,
		&l.DamageKeywords, &l.HasCosmeticDamageOnly, &l.ContactInfo, &dealRating,
		&l.ProfitPercentage, &l.FirstSeen, &l.LastSeen, &l.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	if err != nil {
		return domain.Listing{}, fmt.Errorf("scanning listing: %w", err)
	}
	if dealRating != nil {
		l.DealRating = *dealRating
	}
	return l, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func queryLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 100
	}
	return limit
}
