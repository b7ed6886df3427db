package journal

import (
	"context"
	"fmt"
	"testing"
)

func TestMemoryRepoListsNewestFirstAndEvicts(t *testing.T) {
	repo := NewMemoryRepo(3)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := repo.Create(ctx, Entry{ID: fmt.Sprintf("e-%d", i)}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	entries, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	got := make([]string, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.ID)
	}
	want := []string{"e-4", "e-3", "e-2"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	entries, err = repo.ListRecent(ctx, 1)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "e-4" {
		t.Fatalf("expected only newest entry, got %+v", entries)
	}
}

func TestMemoryRepoHonorsCanceledContext(t *testing.T) {
	repo := NewMemoryRepo(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := repo.Create(ctx, Entry{ID: "e"}); err == nil {
		t.Fatalf("expected error for canceled context")
	}
	if _, err := repo.ListRecent(ctx, 1); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}
