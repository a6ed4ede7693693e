package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/erazemk/najdeno/internal/model"
)

// CreateClaim records a submitted claim with its validation outcome.
func CreateClaim(ctx context.Context, db *sql.DB, claim model.ClaimRequest) (*model.ClaimRequest, error) {
	if !model.ValidClaimStatus(claim.Status) {
		return nil, fmt.Errorf("invalid claim status: %q", claim.Status)
	}

	id := uuid.NewString()
	answers, err := json.Marshal(claim.Answers)
	if err != nil {
		return nil, fmt.Errorf("encoding answers: %w", err)
	}
	flags, err := json.Marshal(claim.Flags)
	if err != nil {
		return nil, fmt.Errorf("encoding flags: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO claims (id, item_id, claimant_id, claim_token, answers, status, score, flags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, claim.ItemID, claim.ClaimantID, claim.ClaimToken,
		string(answers), claim.Status, claim.Score, string(flags),
	)
	if err != nil {
		return nil, fmt.Errorf("creating claim: %w", err)
	}

	return GetClaim(ctx, db, id)
}

// GetClaim returns a claim by ID.
func GetClaim(ctx context.Context, db *sql.DB, id string) (*model.ClaimRequest, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, item_id, claimant_id, claim_token, answers, status, score, flags,
		        review_notes, created_at, reviewed_at
		 FROM claims WHERE id = ?`, id,
	)
	claim, err := scanClaim(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	return claim, nil
}

// ListClaimsForItem returns all claims against an item, newest first.
func ListClaimsForItem(ctx context.Context, db *sql.DB, itemID string) ([]model.ClaimRequest, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, item_id, claimant_id, claim_token, answers, status, score, flags,
		        review_notes, created_at, reviewed_at
		 FROM claims WHERE item_id = ? ORDER BY created_at DESC, id`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	defer rows.Close()

	var claims []model.ClaimRequest
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		claims = append(claims, *claim)
	}
	return claims, rows.Err()
}

// UpdateClaimStatus records a review decision on a claim.
func UpdateClaimStatus(ctx context.Context, db *sql.DB, id, status, notes string) error {
	if !model.ValidClaimStatus(status) {
		return fmt.Errorf("invalid claim status: %q", status)
	}

	_, err := db.ExecContext(ctx,
		`UPDATE claims SET status = ?, review_notes = ?, reviewed_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		status, nullString(notes), id,
	)
	if err != nil {
		return fmt.Errorf("updating claim status: %w", err)
	}
	return nil
}

func scanClaim(row scanner) (*model.ClaimRequest, error) {
	claim := &model.ClaimRequest{}
	var answers, flags string
	var notes sql.NullString
	var score sql.NullInt64
	var reviewedAt sql.NullTime
	err := row.Scan(
		&claim.ID, &claim.ItemID, &claim.ClaimantID, &claim.ClaimToken,
		&answers, &claim.Status, &score, &flags,
		&notes, &claim.CreatedAt, &reviewedAt,
	)
	if err != nil {
		return nil, err
	}

	claim.ReviewNotes = notes.String
	if score.Valid {
		s := int(score.Int64)
		claim.Score = &s
	}
	if reviewedAt.Valid {
		claim.ReviewedAt = &reviewedAt.Time
	}
	if err := json.Unmarshal([]byte(answers), &claim.Answers); err != nil {
		return nil, fmt.Errorf("decoding answers: %w", err)
	}
	if err := json.Unmarshal([]byte(flags), &claim.Flags); err != nil {
		return nil, fmt.Errorf("decoding flags: %w", err)
	}
	return claim, nil
}
