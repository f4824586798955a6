package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"telestrations/internal/game"
)

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})) {
		t.Fatalf("expected wrapped 23505 to be a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("foreign key violation is not a unique violation")
	}
	if !isUniqueViolation(gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm duplicated key to count")
	}
}

func TestNotFoundOrMapsRecordNotFound(t *testing.T) {
	err := notFoundOr(gorm.ErrRecordNotFound, "get lobby", "lobby %s not found", "x")
	if !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("expected not found kind, got %v", err)
	}
	other := errors.New("boom")
	if got := notFoundOr(other, "get lobby", "lobby %s not found", "x"); got != other {
		t.Fatalf("expected other errors to pass through, got %v", got)
	}
}
