package errors

import (
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestDBErrorCodeMappings(t *testing.T) {
	cases := []struct {
		code string
		want ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},
		{"23503", ErrorCodeInvalidArgument},
		{"23502", ErrorCodeValidation},
		{"23514", ErrorCodeValidation},
		{"22P02", ErrorCodeInvalidArgument},
		{"40001", ErrorCodeDB},
		{"57P03", ErrorCodeUnavailable},
		{"XXXXX", ErrorCodeDB},
	}
	for _, c := range cases {
		got, ok := DBErrorCode(&pgconn.PgError{Code: c.code})
		if !ok {
			t.Fatalf("expected ok for PgError code %s", c.code)
		}
		if got != c.want {
			t.Fatalf("code %s mapped to %v, want %v", c.code, got, c.want)
		}
	}

	if _, ok := DBErrorCode(stderrs.New("plain")); ok {
		t.Fatalf("non pg error should not be ok")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("nil must stay nil")
	}

	err := FromPostgres(fmt.Errorf("scan: %w", pgx.ErrNoRows), "project lookup")
	if !IsCode(err, ErrorCodeNotFound) {
		t.Fatalf("no rows should map to not found, got %v", CodeOf(err))
	}

	dup := FromPostgresf(&pgconn.PgError{Code: "23505"}, "upsert %s", "summary")
	if !IsCode(dup, ErrorCodeDuplicateKey) || !IsDuplicateKey(dup) {
		t.Fatalf("duplicate key not detected: %v", dup)
	}
	if e, _ := As(dup); e.Message() != "upsert summary" {
		t.Fatalf("message = %q", e.Message())
	}

	other := FromPostgres(stderrs.New("conn reset"), "insert")
	if !IsCode(other, ErrorCodeDB) {
		t.Fatalf("foreign error should map to DB, got %v", CodeOf(other))
	}
}
