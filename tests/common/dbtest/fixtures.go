//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123", precomputed to keep user creation cheap.
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, password_hash, role, name, is_active) VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT (email) DO NOTHING",
		userID, email, testPasswordHash, role, "Test User")
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		err = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
		require.NoError(t, err)
	}

	return userID
}

func CreateTestUserWithBirthDate(t *testing.T, db DBLike, email, role string, birthDate time.Time) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO users (id, email, password_hash, role, name, birth_date, is_active) VALUES ($1, $2, $3, $4, $5, $6, true)",
		userID, email, testPasswordHash, role, "Test User", birthDate)
	require.NoError(t, err)

	return userID
}

func CreateTestService(t *testing.T, db DBLike, slug string, durationMin int, basePriceCents int64) uuid.UUID {
	t.Helper()

	serviceID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO services (id, slug, name, duration_min, base_price_cents, active) VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT (slug) DO NOTHING",
		serviceID, slug, "Test "+slug, durationMin, basePriceCents)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		err = db.QueryRow(ctx, "SELECT id FROM services WHERE slug = $1", slug).Scan(&serviceID)
		require.NoError(t, err)
	}

	return serviceID
}

func CreateTestGiftCard(t *testing.T, db DBLike, code string, balanceCents int64, expiresAt *time.Time) uuid.UUID {
	t.Helper()

	cardID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO gift_cards (id, code, balance_cents, expires_at) VALUES ($1, $2, $3, $4)",
		cardID, code, balanceCents, expiresAt)
	require.NoError(t, err)

	return cardID
}

func CreateLoyaltyProfile(t *testing.T, db DBLike, userID uuid.UUID, individualCount, packageCount int) uuid.UUID {
	t.Helper()

	profileID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO loyalty_profiles (id, user_id, individual_services_count, packages_count) VALUES ($1, $2, $3, $4)",
		profileID, userID, individualCount, packageCount)
	require.NoError(t, err)

	return profileID
}

// SeedReferenceData inserts the data every e2e test assumes: opening hours,
// the loyalty settings row, and a small service catalog.
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	// Closed on Sunday (0) and Monday (1), open 09:00-19:00 otherwise.
	_, err := pool.Exec(ctx, `
		INSERT INTO working_hours (weekday, open_minute, close_minute, closed) VALUES
		    (0, 0, 1, true),
		    (1, 0, 1, true),
		    (2, 540, 1140, false),
		    (3, 540, 1140, false),
		    (4, 540, 1140, false),
		    (5, 540, 1140, false),
		    (6, 540, 1140, false)
		ON CONFLICT (weekday) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO loyalty_settings (
		    service_threshold, service_discount_cents,
		    package_threshold, package_discount_cents,
		    birthday_discount_cents, referral_bonus, review_bonus
		) VALUES (5, 2000, 2, 4000, 1000, 1, 1)
		ON CONFLICT (singleton) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO services (slug, name, duration_min, base_price_cents, promo_price_cents, forfait_price_cents) VALUES
		    ('hydro-facial', 'Hydro Facial', 60, 9000, NULL, 45000),
		    ('relaxing-massage', 'Relaxing Massage', 45, 7000, 6000, 35000),
		    ('manicure', 'Manicure', 30, 3500, NULL, NULL)
		ON CONFLICT (slug) DO NOTHING;
	`)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates all tables and reseeds reference data.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
