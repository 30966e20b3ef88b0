package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/Manav-Sonawane/CodeCloud/internal/apperror"
	"github.com/Manav-Sonawane/CodeCloud/internal/model"
)

func saveTestCode(t *testing.T, db *DB, ownerID, filename string) *model.Code {
	t.Helper()
	code := &model.Code{
		UserID:   ownerID,
		Filename: filename,
		Language: "python3",
		Code:     "print(1)",
	}
	if err := db.Save(context.Background(), code); err != nil {
		t.Fatalf("failed to save test code: %v", err)
	}
	return code
}

func TestSaveCode(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice", "alice@example.com")

	code := saveTestCode(t, db, owner.ID, "main.py")

	if code.ID <= 0 {
		t.Errorf("Save() should assign a positive integer ID, got %d", code.ID)
	}
	if code.CreatedAt.IsZero() {
		t.Error("Save() should set CreatedAt")
	}
}

func TestSaveCode_InsertOnly(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice", "alice@example.com")

	first := saveTestCode(t, db, owner.ID, "main.py")
	second := saveTestCode(t, db, owner.ID, "main.py")

	// Same filename, two rows — each save is a fresh snippet.
	if first.ID == second.ID {
		t.Error("saving the same filename twice should create two rows")
	}
}

func TestListByOwner_NewestFirstMetadataOnly(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice", "alice@example.com")
	saveTestCode(t, db, owner.ID, "first.py")
	saveTestCode(t, db, owner.ID, "second.py")

	metas, err := db.ListByOwner(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("len = %d, want 2", len(metas))
	}
	if metas[0].Filename != "second.py" {
		t.Errorf("newest snippet should come first, got %q", metas[0].Filename)
	}
}

func TestListByOwner_ScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "alice@example.com")
	bob := createTestUser(t, db, "bob", "bob@example.com")
	saveTestCode(t, db, alice.ID, "hers.py")

	metas, err := db.ListByOwner(context.Background(), bob.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(metas) != 0 {
		t.Errorf("bob should see no snippets, got %d", len(metas))
	}
}

func TestGetCodeByID(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice", "alice@example.com")
	saved := saveTestCode(t, db, owner.ID, "main.py")

	got, err := db.GetByID(context.Background(), owner.ID, saved.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Code != "print(1)" {
		t.Errorf("Code = %q, want full source text", got.Code)
	}
}

func TestGetCodeByID_ForeignOwnerIsNotFound(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "alice@example.com")
	bob := createTestUser(t, db, "bob", "bob@example.com")
	saved := saveTestCode(t, db, alice.ID, "hers.py")

	// Bob asking for Alice's snippet gets the same answer as asking for a
	// snippet that doesn't exist at all.
	_, err := db.GetByID(context.Background(), bob.ID, saved.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("foreign-owned snippet should be ErrNotFound, got %v", err)
	}

	_, err = db.GetByID(context.Background(), bob.ID, 99999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("missing snippet should be ErrNotFound, got %v", err)
	}
}

func TestNow(t *testing.T) {
	db := newTestDB(t)

	ts, err := db.Now(context.Background())
	if err != nil {
		t.Fatalf("Now() error = %v", err)
	}
	if ts.IsZero() {
		t.Error("Now() returned the zero time")
	}
}
