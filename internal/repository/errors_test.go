package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInvitationIsExpired(t *testing.T) {
	now := mustParse(t, "2025-06-01T12:00:00Z")

	pending := &Invitation{Status: InvitationStatusPending, ExpiresAt: mustParse(t, "2025-06-08T12:00:00Z")}
	if pending.IsExpired(now) {
		t.Error("pending invitation inside its window should not be expired")
	}

	past := &Invitation{Status: InvitationStatusPending, ExpiresAt: mustParse(t, "2025-05-01T12:00:00Z")}
	if !past.IsExpired(now) {
		t.Error("invitation past its expiry should be expired")
	}

	accepted := &Invitation{Status: InvitationStatusAccepted, ExpiresAt: mustParse(t, "2025-06-08T12:00:00Z")}
	if !accepted.IsExpired(now) {
		t.Error("accepted invitation should no longer be acceptable")
	}

	boundary := &Invitation{Status: InvitationStatusPending, ExpiresAt: now}
	if boundary.IsExpired(now) {
		t.Error("invitation expiring exactly now should still be acceptable")
	}
}
