package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

func testPosting(title, kind string) model.Item {
	return model.Item{
		Title:       title,
		Description: "seen near the entrance",
		Kind:        kind,
		Category:    "wallet",
		Color:       "black",
		Location:    "Library",
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Tags:        []string{"leather", "cards"},
		PosterID:    "user-1",
	}
}

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, testPosting("Black Wallet", model.KindLost))
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.ID == "" {
		t.Error("expected generated id")
	}
	if item.Title != "Black Wallet" {
		t.Errorf("expected title 'Black Wallet', got %q", item.Title)
	}
	if item.Status != model.ItemStatusActive {
		t.Errorf("expected status 'active', got %q", item.Status)
	}
	if len(item.Tags) != 2 || item.Tags[0] != "leather" {
		t.Errorf("tags did not round-trip: %v", item.Tags)
	}
	if item.ExpiresAt.IsZero() {
		t.Error("expected listing expiry to be set")
	}
}

func TestCreateItemRejectsBadKind(t *testing.T) {
	database := db.NewTestDB(t)

	posting := testPosting("Bad", "misplaced")
	if _, err := CreateItem(context.Background(), database, posting); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestGetItemMissing(t *testing.T) {
	database := db.NewTestDB(t)

	item, err := GetItem(context.Background(), database, "no-such-id")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item != nil {
		t.Error("expected nil for missing item")
	}
}

func TestListItemsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateItem(ctx, database, testPosting("Lost Wallet", model.KindLost))
	found, _ := CreateItem(ctx, database, testPosting("Found Wallet", model.KindFound))
	UpdateItemStatus(ctx, database, found.ID, model.ItemStatusClaimed)

	all, _ := ListItems(ctx, database, "", "")
	if len(all) != 2 {
		t.Errorf("expected 2 items, got %d", len(all))
	}

	active, _ := ListItems(ctx, database, model.ItemStatusActive, "")
	if len(active) != 1 {
		t.Errorf("expected 1 active item, got %d", len(active))
	}

	foundOnly, _ := ListItems(ctx, database, "", model.KindFound)
	if len(foundOnly) != 1 || foundOnly[0].ID != found.ID {
		t.Errorf("kind filter returned wrong items: %v", foundOnly)
	}
}

func TestSoftDeleteItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, testPosting("Delete Me", model.KindLost))
	DeleteItem(ctx, database, item.ID)

	items, _ := ListItems(ctx, database, "", "")
	if len(items) != 0 {
		t.Errorf("expected 0 items after soft delete, got %d", len(items))
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got != nil {
		t.Error("expected soft-deleted item to be hidden")
	}
}

func TestMarkItemClaimed(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, testPosting("Claim Me", model.KindFound))

	ok, err := MarkItemClaimed(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("MarkItemClaimed: %v", err)
	}
	if !ok {
		t.Error("expected first claim to win")
	}

	// A second approval must lose: the posting is no longer active.
	ok, _ = MarkItemClaimed(ctx, database, item.ID)
	if ok {
		t.Error("expected second claim to be rejected")
	}
}

func TestClaimTokenRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, testPosting("Tokened", model.KindFound))

	expiry := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if err := SetClaimToken(ctx, database, item.ID, "ITM-ABC123", &expiry); err != nil {
		t.Fatalf("SetClaimToken: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.ClaimToken != "ITM-ABC123" {
		t.Errorf("expected token, got %q", got.ClaimToken)
	}
	if got.ClaimTokenExpiry == nil || !got.ClaimTokenExpiry.Equal(expiry) {
		t.Errorf("expected expiry %v, got %v", expiry, got.ClaimTokenExpiry)
	}
}

func TestItemQuestionsRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, testPosting("Quizzed", model.KindFound))

	questions := []model.VerificationQuestion{
		{ID: "1", Question: "What brand is it?", IsRequired: true, CorrectAnswer: "Toyota"},
		{ID: "2", Question: "Where did you lose it?", IsRequired: true},
	}
	if err := SetItemQuestions(ctx, database, item.ID, questions); err != nil {
		t.Fatalf("SetItemQuestions: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if len(got.VerificationQuestions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got.VerificationQuestions))
	}
	if got.VerificationQuestions[0].CorrectAnswer != "Toyota" {
		t.Errorf("questions did not round-trip: %+v", got.VerificationQuestions)
	}
}

func TestItemImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, testPosting("Photo Item", model.KindFound))
	SetItemImage(ctx, database, item.ID, []byte("fake image data"), "image/jpeg", []byte("fake blur"))

	data, mime, err := GetItemImage(ctx, database, item.ID, false)
	if err != nil {
		t.Fatalf("GetItemImage: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("expected image data, got %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}

	blurred, _, _ := GetItemImage(ctx, database, item.ID, true)
	if string(blurred) != "fake blur" {
		t.Errorf("expected blurred preview, got %q", string(blurred))
	}

	got, _ := GetItem(ctx, database, item.ID)
	if !got.ImageBlurred {
		t.Error("expected ImageBlurred flag after storing a preview")
	}
}

func TestRenewItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, testPosting("Renew Me", model.KindLost))

	if err := RenewItem(ctx, database, item.ID); err != nil {
		t.Fatalf("RenewItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.RenewCount != 1 {
		t.Errorf("expected renew count 1, got %d", got.RenewCount)
	}
	if !got.ExpiresAt.After(item.ExpiresAt) && !got.ExpiresAt.Equal(item.ExpiresAt) {
		t.Errorf("expected expiry to move forward: %v -> %v", item.ExpiresAt, got.ExpiresAt)
	}
}

func TestArchiveExpiredItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	stale, _ := CreateItem(ctx, database, testPosting("Stale", model.KindLost))
	fresh, _ := CreateItem(ctx, database, testPosting("Fresh", model.KindLost))

	// Backdate the stale posting's expiry.
	past := time.Now().UTC().AddDate(0, 0, -1)
	database.Exec(`UPDATE items SET expires_at = ? WHERE id = ?`, past, stale.ID)

	n, err := ArchiveExpiredItems(ctx, database, time.Now().UTC())
	if err != nil {
		t.Fatalf("ArchiveExpiredItems: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 archived item, got %d", n)
	}

	got, _ := GetItem(ctx, database, stale.ID)
	if got.Status != model.ItemStatusArchived {
		t.Errorf("expected archived, got %q", got.Status)
	}
	got, _ = GetItem(ctx, database, fresh.ID)
	if got.Status != model.ItemStatusActive {
		t.Errorf("expected fresh posting untouched, got %q", got.Status)
	}
}
