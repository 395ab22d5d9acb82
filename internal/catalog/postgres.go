package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/card-advisor/internal/types"
)

// PostgresStore serves the card catalog from PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the catalog database.
func Connect(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the credit_cards table if it doesn't exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS credit_cards (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			name TEXT NOT NULL,
			issuer TEXT NOT NULL,
			joining_fee DOUBLE PRECISION NOT NULL,
			annual_fee DOUBLE PRECISION NOT NULL,
			reward_type TEXT NOT NULL,
			reward_rate DOUBLE PRECISION NOT NULL,
			eligibility_income DOUBLE PRECISION NOT NULL,
			eligibility_credit_score INT NOT NULL,
			special_perks TEXT[] NOT NULL DEFAULT '{}',
			affiliate_link TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			UNIQUE (name, issuer)
		)`)
	if err != nil {
		return fmt.Errorf("failed to create credit_cards table: %w", err)
	}
	return nil
}

// Insert adds a card, ignoring duplicates on (name, issuer).
func (s *PostgresStore) Insert(ctx context.Context, card types.CardRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO credit_cards (
			name, issuer, joining_fee, annual_fee, reward_type, reward_rate,
			eligibility_income, eligibility_credit_score, special_perks,
			affiliate_link, image_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (name, issuer) DO NOTHING`,
		card.Name, card.Issuer, card.JoiningFee, card.AnnualFee,
		string(card.RewardType), card.RewardRate,
		card.EligibilityIncome, card.EligibilityCreditScore, card.SpecialPerks,
		card.AffiliateLink, card.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("failed to insert card %s: %w", card.Name, err)
	}
	return nil
}

// All returns every card in insertion order.
func (s *PostgresStore) All(ctx context.Context) ([]types.CardRecord, error) {
	return s.query(ctx, selectColumns+` FROM credit_cards ORDER BY id`)
}

const selectColumns = `SELECT name, issuer, joining_fee, annual_fee, reward_type, reward_rate,
	eligibility_income, eligibility_credit_score, special_perks, affiliate_link, image_url`

// ByEligibility returns cards the user qualifies for, optionally narrowed to
// those whose perks or reward type mention any of the benefit tags. A
// creditScore <= 0 skips the score requirement (user's score unknown).
func (s *PostgresStore) ByEligibility(ctx context.Context, income float64, creditScore int, benefits []string) ([]types.CardRecord, error) {
	query := selectColumns + ` FROM credit_cards WHERE eligibility_income <= $1`
	args := []any{income}

	if creditScore > 0 {
		args = append(args, creditScore)
		query += fmt.Sprintf(" AND eligibility_credit_score <= $%d", len(args))
	}

	conditions := []string{}
	for _, benefit := range benefits {
		benefit = strings.TrimSpace(benefit)
		if benefit == "" {
			continue
		}
		args = append(args, "%"+benefit+"%")
		idx := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(array_to_string(special_perks, ',') ILIKE $%d OR reward_type ILIKE $%d)", idx, idx))
	}
	if len(conditions) > 0 {
		query += " AND (" + strings.Join(conditions, " OR ") + ")"
	}
	query += " ORDER BY id"

	return s.query(ctx, query, args...)
}

func (s *PostgresStore) query(ctx context.Context, sql string, args ...any) ([]types.CardRecord, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	cards := []types.CardRecord{}
	for rows.Next() {
		var card types.CardRecord
		var rewardType string
		if err := rows.Scan(
			&card.Name, &card.Issuer, &card.JoiningFee, &card.AnnualFee,
			&rewardType, &card.RewardRate,
			&card.EligibilityIncome, &card.EligibilityCreditScore,
			&card.SpecialPerks, &card.AffiliateLink, &card.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		card.RewardType = types.NormalizeRewardType(rewardType)
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read card rows: %w", err)
	}
	return cards, nil
}
