package domain

import (
	"errors"
	"testing"
)

func TestTableIsValid(t *testing.T) {
	table := NewTable()
	if !table.IsValid() {
		t.Fatalf("empty table should be valid")
	}

	if _, err := table.AddGroup(cards("5C", "6C", "7C")); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	if !table.IsValid() {
		t.Fatalf("table with one run should be valid")
	}

	if _, err := table.AddGroup(cards("9H", "9D")); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	if table.IsValid() {
		t.Fatalf("two-card group must invalidate the table")
	}
	if got := table.InvalidGroups(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("InvalidGroups() = %v, want [1]", got)
	}
}

func TestTableRemoveFromGroupDeletesEmptyGroup(t *testing.T) {
	table := NewTable()
	_, _ = table.AddGroup(cards("KS"))
	_, _ = table.AddGroup(cards("2D", "3D", "4D"))

	card, err := table.RemoveFromGroup(0, 0)
	if err != nil {
		t.Fatalf("RemoveFromGroup: %v", err)
	}
	if card.Rank != King {
		t.Fatalf("removed %s, want K♠", card)
	}
	if table.Len() != 1 {
		t.Fatalf("group count = %d, want 1", table.Len())
	}
	if table.Groups[0][0].Rank != 2 {
		t.Fatalf("remaining group should have shifted to index 0")
	}
}

func TestTableMutatorErrors(t *testing.T) {
	table := NewTable()
	if err := table.AddToGroup(0, mustCard("5C")); !errors.Is(err, ErrNoSuchGroup) {
		t.Fatalf("AddToGroup on missing group err = %v", err)
	}
	if _, err := table.RemoveFromGroup(3, 0); !errors.Is(err, ErrNoSuchGroup) {
		t.Fatalf("RemoveFromGroup on missing group err = %v", err)
	}
	if _, err := table.RemoveGroup(0); !errors.Is(err, ErrNoSuchGroup) {
		t.Fatalf("RemoveGroup on missing group err = %v", err)
	}
	if _, err := table.AddGroup(nil); err == nil {
		t.Fatalf("AddGroup(nil) should fail")
	}
}

func TestTableCloneIsIndependent(t *testing.T) {
	table := NewTable()
	group := cards("5C", "6C", "7C")
	_, _ = table.AddGroup(group)

	clone := table.Clone()
	if err := clone.AddToGroup(0, mustCard("8C")); err != nil {
		t.Fatalf("AddToGroup: %v", err)
	}
	if len(table.Groups[0]) != 3 {
		t.Fatalf("clone mutation leaked into original table")
	}
	if clone.Groups[0][0] != table.Groups[0][0] {
		t.Fatalf("clone should share card identities")
	}

	gi, ci, ok := clone.Locate(group[2])
	if !ok || gi != 0 || ci != 2 {
		t.Fatalf("Locate() = (%d, %d, %v), want (0, 2, true)", gi, ci, ok)
	}
}
