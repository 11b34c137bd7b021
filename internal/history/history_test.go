package history

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	input := []Entry{
		{Source: "var a = 1;", Status: StatusOK},
		{Source: "print a +;", Status: StatusCompileError, Message: "[line 1] Error at ';': Expect expression."},
		{Source: "print -\"x\";", Status: StatusRuntimeError, Message: "Operand must be a number."},
	}
	for _, e := range input {
		if err := s.Record(ctx, e); err != nil {
			t.Fatalf("record %q: %v", e.Source, err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}

	want := []Entry{
		{SessionID: s.SessionID(), Source: input[1].Source, Status: StatusCompileError, Message: input[1].Message},
		{SessionID: s.SessionID(), Source: input[2].Source, Status: StatusRuntimeError, Message: input[2].Message},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Entry{}, "ID", "CreatedAt")); diff != "" {
		t.Errorf("recent entries mismatch (-want +got):\n%s", diff)
	}
	if got[0].ID >= got[1].ID {
		t.Errorf("expected ascending ids, got %d then %d", got[0].ID, got[1].ID)
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be filled in")
	}
}

func TestSessionIDIsUUID(t *testing.T) {
	s := openMemory(t)
	if _, err := uuid.Parse(s.SessionID()); err != nil {
		t.Errorf("session id %q is not a uuid: %v", s.SessionID(), err)
	}
}

func TestRecordKeepsExplicitSession(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	other := uuid.NewString()
	if err := s.Record(ctx, Entry{SessionID: other, Source: "nil;", Status: StatusOK}); err != nil {
		t.Fatal(err)
	}
	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].SessionID != other {
		t.Errorf("expected entry in session %s, got %+v", other, got)
	}
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "")
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Errorf("expected ErrUnsupportedDriver, got %v", err)
	}
}

func TestRebind(t *testing.T) {
	query := "INSERT INTO t (a, b) VALUES (?, ?)"

	pg := &Store{dialect: dialects["postgres"]}
	if got := pg.rebind(query); got != "INSERT INTO t (a, b) VALUES ($1, $2)" {
		t.Errorf("postgres rebind got %q", got)
	}

	my := &Store{dialect: dialects["mysql"]}
	if got := my.rebind(query); got != query {
		t.Errorf("mysql rebind should be a no-op, got %q", got)
	}
}
