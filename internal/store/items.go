// Package store persists items, claims, conversations, and reputation
// counters. Functions take the database handle explicitly and return
// (nil, nil) for rows that do not exist.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/najdeno/internal/model"
)

// DefaultListingDays is how long a posting stays live before it expires.
const DefaultListingDays = 30

const itemColumns = `id, title, description, kind, category, color, location, date,
	tags, status, poster_id, contact_info, image_mime, image_blurred IS NOT NULL,
	claim_token, claim_token_expiry, questions, renew_count,
	created_at, updated_at, expires_at`

// CreateItem creates a new posting. The listing expires DefaultListingDays
// after creation unless renewed.
func CreateItem(ctx context.Context, db *sql.DB, item model.Item) (*model.Item, error) {
	if !model.ValidKind(item.Kind) {
		return nil, fmt.Errorf("invalid item kind: %q", item.Kind)
	}

	id := uuid.NewString()
	tags, err := json.Marshal(item.Tags)
	if err != nil {
		return nil, fmt.Errorf("encoding tags: %w", err)
	}

	expiresAt := time.Now().UTC().AddDate(0, 0, DefaultListingDays)
	_, err = db.ExecContext(ctx,
		`INSERT INTO items (id, title, description, kind, category, color, location, date,
		                    tags, poster_id, contact_info, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, item.Title, item.Description, item.Kind, item.Category,
		nullString(item.Color), item.Location, item.Date,
		string(tags), item.PosterID, nullString(item.ContactInfo), expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ? AND deleted_at IS NULL`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all non-deleted items, optionally filtered by status
// and kind, newest first.
func ListItems(ctx context.Context, db *sql.DB, status, kind string) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE deleted_at IS NULL`
	var args []any
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem updates a posting's editable fields.
func UpdateItem(ctx context.Context, db *sql.DB, item model.Item) error {
	tags, err := json.Marshal(item.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE items SET title = ?, description = ?, category = ?, color = ?,
		        location = ?, date = ?, tags = ?, contact_info = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		item.Title, item.Description, item.Category, nullString(item.Color),
		item.Location, item.Date, string(tags), nullString(item.ContactInfo),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem soft-deletes a posting.
func DeleteItem(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// UpdateItemStatus sets a posting's lifecycle status.
func UpdateItemStatus(ctx context.Context, db *sql.DB, id, status string) error {
	if !model.ValidItemStatus(status) {
		return fmt.Errorf("invalid item status: %q", status)
	}

	_, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	return nil
}

// MarkItemClaimed flips an active posting to claimed. Returns false if the
// posting was not active, so concurrent approvals cannot both win.
func MarkItemClaimed(ctx context.Context, db *sql.DB, id string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = 'claimed', updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = 'active' AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("marking item claimed: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("marking item claimed: %w", err)
	}
	return n > 0, nil
}

// RenewItem extends a posting's expiry by DefaultListingDays from now and
// bumps the renewal counter.
func RenewItem(ctx context.Context, db *sql.DB, id string) error {
	expiresAt := time.Now().UTC().AddDate(0, 0, DefaultListingDays)
	_, err := db.ExecContext(ctx,
		`UPDATE items SET expires_at = ?, renew_count = renew_count + 1,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		expiresAt, id,
	)
	if err != nil {
		return fmt.Errorf("renewing item: %w", err)
	}
	return nil
}

// SetClaimToken stores the verification token for a posting.
func SetClaimToken(ctx context.Context, db *sql.DB, id, token string, expiry *time.Time) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET claim_token = ?, claim_token_expiry = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		token, expiry, id,
	)
	if err != nil {
		return fmt.Errorf("setting claim token: %w", err)
	}
	return nil
}

// SetItemQuestions stores the verification questions for a posting.
func SetItemQuestions(ctx context.Context, db *sql.DB, id string, questions []model.VerificationQuestion) error {
	encoded, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("encoding questions: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE items SET questions = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		string(encoded), id,
	)
	if err != nil {
		return fmt.Errorf("setting item questions: %w", err)
	}
	return nil
}

// SetItemImage stores the processed photo and its blurred preview.
func SetItemImage(ctx context.Context, db *sql.DB, id string, image []byte, mime string, blurred []byte) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, image_blurred = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		image, mime, blurred, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return nil
}

// GetItemImage returns an item's photo and MIME type. When blurred is true
// the privacy preview is returned instead of the original.
func GetItemImage(ctx context.Context, db *sql.DB, id string, blurred bool) ([]byte, string, error) {
	column := "image"
	if blurred {
		column = "image_blurred"
	}

	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT `+column+`, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}

// ArchiveExpiredItems archives active postings whose listing window has
// passed. Returns the number of postings archived.
func ArchiveExpiredItems(ctx context.Context, db *sql.DB, now time.Time) (int64, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = 'archived', updated_at = CURRENT_TIMESTAMP
		 WHERE status = 'active' AND deleted_at IS NULL
		   AND expires_at IS NOT NULL AND expires_at < ?`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("archiving expired items: %w", err)
	}
	return result.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*model.Item, error) {
	item := &model.Item{}
	var color, contactInfo, imageMime, claimToken sql.NullString
	var tokenExpiry, expiresAt sql.NullTime
	var tags, questions string
	var hasBlurred bool
	err := row.Scan(
		&item.ID, &item.Title, &item.Description, &item.Kind, &item.Category,
		&color, &item.Location, &item.Date, &tags, &item.Status,
		&item.PosterID, &contactInfo, &imageMime, &hasBlurred,
		&claimToken, &tokenExpiry, &questions, &item.RenewCount,
		&item.CreatedAt, &item.UpdatedAt, &expiresAt,
	)
	if err != nil {
		return nil, err
	}

	item.Color = color.String
	item.ContactInfo = contactInfo.String
	item.ImageMime = imageMime.String
	item.ImageBlurred = hasBlurred
	item.ClaimToken = claimToken.String
	if tokenExpiry.Valid {
		item.ClaimTokenExpiry = &tokenExpiry.Time
	}
	item.ExpiresAt = expiresAt.Time
	if err := json.Unmarshal([]byte(tags), &item.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	if err := json.Unmarshal([]byte(questions), &item.VerificationQuestions); err != nil {
		return nil, fmt.Errorf("decoding questions: %w", err)
	}
	return item, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
