package store

import (
	"context"
	"testing"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

func TestCreateAndGetClaim(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, testPosting("Claimed Wallet", model.KindFound))

	score := 85
	claim, err := CreateClaim(ctx, database, model.ClaimRequest{
		ItemID:     item.ID,
		ClaimantID: "user-2",
		ClaimToken: "ITM-ABC123",
		Answers:    []string{"cards and cash", "the library"},
		Status:     model.ClaimStatusPending,
		Score:      &score,
		Flags:      []string{},
	})
	if err != nil {
		t.Fatalf("CreateClaim: %v", err)
	}
	if claim.ID == "" {
		t.Error("expected generated id")
	}
	if claim.Score == nil || *claim.Score != 85 {
		t.Errorf("score did not round-trip: %v", claim.Score)
	}
	if len(claim.Answers) != 2 {
		t.Errorf("answers did not round-trip: %v", claim.Answers)
	}
	if claim.ReviewedAt != nil {
		t.Error("expected no review timestamp on a fresh claim")
	}
}

func TestCreateClaimRejectsBadStatus(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := CreateClaim(context.Background(), database, model.ClaimRequest{
		ItemID: "item-1", ClaimantID: "user-2", ClaimToken: "ITM-ABC123",
		Status: "undecided",
	})
	if err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestListClaimsForItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, testPosting("Popular Item", model.KindFound))
	other, _ := CreateItem(ctx, database, testPosting("Other Item", model.KindFound))

	CreateClaim(ctx, database, model.ClaimRequest{
		ItemID: item.ID, ClaimantID: "user-2", ClaimToken: "ITM-AAAAAA",
		Status: model.ClaimStatusPending,
	})
	CreateClaim(ctx, database, model.ClaimRequest{
		ItemID: item.ID, ClaimantID: "user-3", ClaimToken: "ITM-AAAAAA",
		Status: model.ClaimStatusFlagged, Flags: []string{"Answer 1 too short"},
	})
	CreateClaim(ctx, database, model.ClaimRequest{
		ItemID: other.ID, ClaimantID: "user-4", ClaimToken: "ITM-BBBBBB",
		Status: model.ClaimStatusPending,
	})

	claims, err := ListClaimsForItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("ListClaimsForItem: %v", err)
	}
	if len(claims) != 2 {
		t.Errorf("expected 2 claims, got %d", len(claims))
	}
}

func TestUpdateClaimStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, testPosting("Reviewed Item", model.KindFound))
	claim, _ := CreateClaim(ctx, database, model.ClaimRequest{
		ItemID: item.ID, ClaimantID: "user-2", ClaimToken: "ITM-ABC123",
		Status: model.ClaimStatusPending,
	})

	if err := UpdateClaimStatus(ctx, database, claim.ID, model.ClaimStatusApproved, "verified in person"); err != nil {
		t.Fatalf("UpdateClaimStatus: %v", err)
	}

	got, _ := GetClaim(ctx, database, claim.ID)
	if got.Status != model.ClaimStatusApproved {
		t.Errorf("expected approved, got %q", got.Status)
	}
	if got.ReviewNotes != "verified in person" {
		t.Errorf("expected review notes, got %q", got.ReviewNotes)
	}
	if got.ReviewedAt == nil {
		t.Error("expected review timestamp")
	}

	if err := UpdateClaimStatus(ctx, database, claim.ID, "undecided", ""); err == nil {
		t.Error("expected error for unknown status")
	}
}
