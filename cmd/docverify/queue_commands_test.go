package main

import (
	"context"
	"strings"
	"testing"

	"docverify/internal/queue"
)

func TestQueueListAndHealth(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	if _, err := env.store.NewPerson(ctx, "ravi_kumar", ""); err != nil {
		t.Fatalf("ravi: %v", err)
	}

	anita, err := env.store.NewPerson(ctx, "anita_desai", "")
	if err != nil {
		t.Fatalf("anita: %v", err)
	}
	anita.SetFailed("no readable documents")
	if err := env.store.Update(ctx, anita); err != nil {
		t.Fatalf("anita failed: %v", err)
	}

	out, _, err := runCLI(t, []string{"queue", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	requireContains(t, out, "ravi_kumar")
	requireContains(t, out, "anita_desai")
	requireContains(t, out, "no readable documents")

	out, _, err = runCLI(t, []string{"queue", "list", "--status", "failed"}, env.configPath)
	if err != nil {
		t.Fatalf("queue list --status: %v", err)
	}
	requireContains(t, out, "anita_desai")
	if strings.Contains(out, "ravi_kumar") {
		t.Fatalf("filtered list should not include ravi_kumar:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"queue", "health"}, env.configPath)
	if err != nil {
		t.Fatalf("queue health: %v", err)
	}
	requireContains(t, out, "Total:      2")
	requireContains(t, out, "Pending:    1")
	requireContains(t, out, "Failed:     1")
}

func TestQueueListRejectsUnknownStatus(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"queue", "list", "--status", "levitating"}, env.configPath)
	if err == nil {
		t.Fatal("expected unknown status error")
	}
	requireContains(t, err.Error(), "levitating")
}

func TestQueueRetryAndClear(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	ravi, err := env.store.NewPerson(ctx, "ravi_kumar", "")
	if err != nil {
		t.Fatalf("ravi: %v", err)
	}
	ravi.SetFailed("provider unavailable")
	if err := env.store.Update(ctx, ravi); err != nil {
		t.Fatalf("ravi failed: %v", err)
	}

	out, _, err := runCLI(t, []string{"queue", "retry"}, env.configPath)
	if err != nil {
		t.Fatalf("queue retry: %v", err)
	}
	requireContains(t, out, "Requeued 1 person(s)")

	refreshed, err := env.store.GetByID(ctx, ravi.ID)
	if err != nil {
		t.Fatalf("get ravi: %v", err)
	}
	if refreshed.Status != queue.StatusPending {
		t.Fatalf("status = %s, want %s", refreshed.Status, queue.StatusPending)
	}
	if refreshed.ErrorMessage != "" {
		t.Fatalf("error message should be cleared, got %q", refreshed.ErrorMessage)
	}

	out, _, err = runCLI(t, []string{"queue", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("queue clear: %v", err)
	}
	requireContains(t, out, "Removed 1 person(s)")

	summary, err := env.store.Health(ctx)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if summary.Total != 0 {
		t.Fatalf("queue should be empty, total = %d", summary.Total)
	}
}

func TestQueueClearCompletedOnly(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	done, err := env.store.NewPerson(ctx, "done_person", "")
	if err != nil {
		t.Fatalf("done: %v", err)
	}
	done.Status = queue.StatusCompleted
	if err := env.store.Update(ctx, done); err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	if _, err := env.store.NewPerson(ctx, "waiting_person", ""); err != nil {
		t.Fatalf("waiting: %v", err)
	}

	out, _, err := runCLI(t, []string{"queue", "clear", "--completed"}, env.configPath)
	if err != nil {
		t.Fatalf("queue clear --completed: %v", err)
	}
	requireContains(t, out, "Removed 1 person(s)")

	remaining, err := env.store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 1 || remaining[0].PersonKey != "waiting_person" {
		t.Fatalf("unexpected survivors: %+v", remaining)
	}
}
