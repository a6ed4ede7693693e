package store

import (
	"context"
	"testing"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/reputation"
)

func TestGetReputationDefaults(t *testing.T) {
	database := db.NewTestDB(t)

	rec, err := GetReputation(context.Background(), database, "nobody")
	if err != nil {
		t.Fatalf("GetReputation: %v", err)
	}
	if rec.Score != 50 {
		t.Errorf("expected base score 50 for unknown user, got %d", rec.Score)
	}
	if rec.Level != reputation.LevelExpert {
		t.Errorf("expected level %q, got %q", reputation.LevelExpert, rec.Level)
	}
}

func TestRecordClaimOutcome(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	RecordClaimOutcome(ctx, database, "user-1", true)
	RecordClaimOutcome(ctx, database, "user-1", true)
	RecordClaimOutcome(ctx, database, "user-1", false)
	RecordItemReturned(ctx, database, "user-1")

	rec, err := GetReputation(ctx, database, "user-1")
	if err != nil {
		t.Fatalf("GetReputation: %v", err)
	}
	if rec.SuccessfulClaims != 2 || rec.FailedClaims != 1 || rec.ItemsReturned != 1 {
		t.Errorf("counters wrong: %+v", rec)
	}
	// 50 + 20 - 15 + 5
	if rec.Score != 60 {
		t.Errorf("expected score 60, got %d", rec.Score)
	}
}

func TestLeaderboardRanksByScore(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	RecordClaimOutcome(ctx, database, "low", false)
	RecordClaimOutcome(ctx, database, "high", true)
	RecordClaimOutcome(ctx, database, "high", true)
	RecordItemFound(ctx, database, "mid")

	board, err := Leaderboard(ctx, database, 10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(board) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(board))
	}
	if board[0].UserID != "high" {
		t.Errorf("expected 'high' first, got %q", board[0].UserID)
	}
	if board[len(board)-1].UserID != "low" {
		t.Errorf("expected 'low' last, got %q", board[len(board)-1].UserID)
	}

	top, _ := Leaderboard(ctx, database, 1)
	if len(top) != 1 {
		t.Errorf("expected limit to apply, got %d entries", len(top))
	}
}
