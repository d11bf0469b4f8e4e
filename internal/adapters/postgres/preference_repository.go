package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
)

// PreferenceRepository reads the saved searches maintained by the external
// user API. This engine only ever reads them.
type PreferenceRepository struct {
	pool *pgxpool.Pool
}

func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

func (r *PreferenceRepository) ListActivePreferences(ctx context.Context) ([]domain.UserPreference, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, min_price, max_price, max_mileage, min_year, max_year,
			preferred_makes, preferred_fuel_types, max_distance_km, frequency, email_enabled
		 FROM user_preferences
		 WHERE is_active = true`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying active preferences: %w", err)
	}
	defer rows.Close()

	var prefs []domain.UserPreference
	for rows.Next() {
		var pref domain.UserPreference
		var frequency string
		err := rows.Scan(
			&pref.ID, &pref.UserID, &pref.MinPrice, &pref.MaxPrice, &pref.MaxMileage,
			&pref.MinYear, &pref.MaxYear, &pref.PreferredMakes, &pref.PreferredFuelTypes,
			&pref.MaxDistanceKm, &frequency, &pref.EmailEnabled,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning preference: %w", err)
		}
		pref.Frequency = domain.NotificationFrequency(frequency)
		prefs = append(prefs, pref)
	}
	return prefs, rows.Err()
}
