package ledger

import (
	"testing"
)

func TestInit_CreatesSchema(t *testing.T) {
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	version, err := getUserVersion(db)
	if err != nil {
		t.Fatalf("getUserVersion failed: %v", err)
	}
	if version != CurrentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, CurrentSchemaVersion)
	}
}

func TestInit_Idempotent(t *testing.T) {
	dir := t.TempDir()

	db1, err := Init(dir)
	if err != nil {
		t.Fatalf("first Init failed: %v", err)
	}
	db1.Close()

	db2, err := Init(dir)
	if err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	db2.Close()
}

func TestRecordRunAndPromptIDs(t *testing.T) {
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	run := Run{ID: "01ARZ3NDEKTSV4RRFFQ69G5FAV", Seed: 42, Requested: 3, Generated: 3, OutputPath: "prompts.json"}
	if err := RecordRun(db, run); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	refs := []PromptRef{
		{ID: "aaaaaaaaaaaa", Spread: "threeCard", Category: "love"},
		{ID: "bbbbbbbbbbbb", Spread: "single", Category: "career"},
		{ID: "cccccccccccc", Spread: "horseshoe", Category: "money"},
	}
	if err := RecordPromptIDs(db, run.ID, refs); err != nil {
		t.Fatalf("RecordPromptIDs failed: %v", err)
	}

	seen, err := SeenIDs(db)
	if err != nil {
		t.Fatalf("SeenIDs failed: %v", err)
	}
	if len(seen) != 3 {
		t.Errorf("len(seen) = %d, want 3", len(seen))
	}
	for _, ref := range refs {
		if !seen[ref.ID] {
			t.Errorf("id %s missing from seen set", ref.ID)
		}
	}

	count, err := RunCount(db)
	if err != nil {
		t.Fatalf("RunCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("RunCount = %d, want 1", count)
	}
}

func TestRecordPromptIDs_DuplicateFails(t *testing.T) {
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	if err := RecordRun(db, Run{ID: "run1", Seed: 1, OutputPath: "p.json"}); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	refs := []PromptRef{{ID: "samesamesame", Spread: "single", Category: "love"}}
	if err := RecordPromptIDs(db, "run1", refs); err != nil {
		t.Fatalf("first RecordPromptIDs failed: %v", err)
	}
	if err := RecordPromptIDs(db, "run1", refs); err == nil {
		t.Error("duplicate prompt id insert succeeded, want primary key violation")
	}

	// The failed transaction must not leave partial state.
	seen, err := SeenIDs(db)
	if err != nil {
		t.Fatalf("SeenIDs failed: %v", err)
	}
	if len(seen) != 1 {
		t.Errorf("len(seen) = %d, want 1", len(seen))
	}
}

func TestRuns_NewestFirst(t *testing.T) {
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	if err := RecordRun(db, Run{ID: "older", Seed: 1, OutputPath: "a.json", CreatedAt: 100}); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if err := RecordRun(db, Run{ID: "newer", Seed: 2, OutputPath: "b.json", CreatedAt: 200}); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	runs, err := Runs(db)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "newer" || runs[1].ID != "older" {
		t.Errorf("Runs order wrong: %+v", runs)
	}
}
