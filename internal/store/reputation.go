package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/reputation"
)

// GetReputation returns a user's reputation record. Users with no history
// get a zero-count record at the base score rather than a missing row.
func GetReputation(ctx context.Context, db *sql.DB, userID string) (*model.ReputationRecord, error) {
	rec := &model.ReputationRecord{UserID: userID}
	err := db.QueryRowContext(ctx,
		`SELECT successful_claims, failed_claims, items_returned, items_found
		 FROM reputation WHERE user_id = ?`, userID,
	).Scan(&rec.SuccessfulClaims, &rec.FailedClaims, &rec.ItemsReturned, &rec.ItemsFound)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("getting reputation: %w", err)
	}

	rec.Score = reputation.Score(rec.SuccessfulClaims, rec.FailedClaims, rec.ItemsReturned)
	rec.Level = reputation.Level(rec.Score)
	return rec, nil
}

// RecordClaimOutcome bumps a user's success or failure counter.
func RecordClaimOutcome(ctx context.Context, db *sql.DB, userID string, success bool) error {
	column := "failed_claims"
	if success {
		column = "successful_claims"
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO reputation (user_id, `+column+`) VALUES (?, 1)
		 ON CONFLICT(user_id) DO UPDATE SET `+column+` = `+column+` + 1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("recording claim outcome: %w", err)
	}
	return nil
}

// RecordItemReturned credits a poster with a completed return.
func RecordItemReturned(ctx context.Context, db *sql.DB, userID string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO reputation (user_id, items_returned) VALUES (?, 1)
		 ON CONFLICT(user_id) DO UPDATE SET items_returned = items_returned + 1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("recording item return: %w", err)
	}
	return nil
}

// RecordItemFound credits a poster with a found-item report.
func RecordItemFound(ctx context.Context, db *sql.DB, userID string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO reputation (user_id, items_found) VALUES (?, 1)
		 ON CONFLICT(user_id) DO UPDATE SET items_found = items_found + 1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("recording item found: %w", err)
	}
	return nil
}

// Leaderboard returns up to limit users ranked by reputation score.
func Leaderboard(ctx context.Context, db *sql.DB, limit int) ([]model.ReputationRecord, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT user_id, successful_claims, failed_claims, items_returned, items_found
		 FROM reputation ORDER BY user_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing reputation: %w", err)
	}
	defer rows.Close()

	var records []model.ReputationRecord
	for rows.Next() {
		var rec model.ReputationRecord
		if err := rows.Scan(&rec.UserID, &rec.SuccessfulClaims, &rec.FailedClaims, &rec.ItemsReturned, &rec.ItemsFound); err != nil {
			return nil, fmt.Errorf("scanning reputation: %w", err)
		}
		rec.Score = reputation.Score(rec.SuccessfulClaims, rec.FailedClaims, rec.ItemsReturned)
		rec.Level = reputation.Level(rec.Score)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Scores are computed in Go, so the ranking happens here too.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
