package task_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"todo/internal/task"
	"todo/internal/testutil"
)

func TestAdd_AssignsIncreasingIDs(t *testing.T) {
	backend := testutil.NewFakeStorage()
	store := testutil.NewStore(t, backend)

	texts := []string{"Buy milk", "Walk dog", "Write report", "  padded  "}
	maxID := 0
	for i, text := range texts {
		tk, err := store.Add(context.Background(), text)
		if err != nil {
			t.Fatalf("add %q: %v", text, err)
		}
		if tk.ID <= maxID {
			t.Errorf("expected id > %d, got %d", maxID, tk.ID)
		}
		maxID = tk.ID
		if store.Len() != i+1 {
			t.Errorf("expected %d tasks, got %d", i+1, store.Len())
		}
		if tk.Completed {
			t.Errorf("new task %d should not be completed", tk.ID)
		}
	}

	last, _ := store.Get(maxID)
	if last.Text != "padded" {
		t.Errorf("expected trimmed text 'padded', got %q", last.Text)
	}
	if backend.Writes() != len(texts) {
		t.Errorf("expected %d writes, got %d", len(texts), backend.Writes())
	}
}

func TestAdd_BlankTextRejected(t *testing.T) {
	backend := testutil.NewFakeStorage()
	store := testutil.NewStore(t, backend)
	testutil.MustAdd(t, store, "Buy milk")

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := store.Add(context.Background(), text)
		if !errors.Is(err, task.ErrEmptyText) {
			t.Errorf("add(%q): expected ErrEmptyText, got %v", text, err)
		}
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 task, got %d", store.Len())
	}
	if store.NextID() != 2 {
		t.Errorf("expected next id 2, got %d", store.NextID())
	}
	if backend.Writes() != 1 {
		t.Errorf("blank adds should not persist, got %d writes", backend.Writes())
	}
}

func TestAdd_CreatedAtFromClock(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 30, 0, 123456789, time.FixedZone("CEST", 2*60*60))
	store := task.NewStore(testutil.NewFakeStorage(), task.WithClock(func() time.Time { return now }))

	tk, err := store.Add(context.Background(), "Buy milk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 5, 1, 7, 30, 0, 123000000, time.UTC)
	if !tk.CreatedAt.Equal(want) || tk.CreatedAt.Location() != time.UTC {
		t.Errorf("expected CreatedAt %v, got %v", want, tk.CreatedAt)
	}
}

func TestToggleComplete_IsItsOwnInverse(t *testing.T) {
	store := testutil.NewStore(t, testutil.NewFakeStorage())
	added := testutil.MustAdd(t, store, "Buy milk", "Walk dog", "Write report")
	before := store.Tasks()

	tk, err := store.ToggleComplete(context.Background(), added[1].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tk.Completed {
		t.Error("expected task to be completed after first toggle")
	}
	if before[1].Completed {
		t.Error("toggle must replace the record, not mutate earlier copies")
	}

	tk, err = store.ToggleComplete(context.Background(), added[1].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tk.Completed {
		t.Error("expected task to be open after second toggle")
	}

	after := store.Tasks()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("task %d changed: %+v -> %+v", before[i].ID, before[i], after[i])
		}
	}
}

func TestToggleComplete_UnknownID(t *testing.T) {
	backend := testutil.NewFakeStorage()
	store := testutil.NewStore(t, backend)
	testutil.MustAdd(t, store, "Buy milk")

	_, err := store.ToggleComplete(context.Background(), 42)
	if !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if backend.Writes() != 1 {
		t.Errorf("expected no extra write, got %d writes", backend.Writes())
	}
}

func TestDelete_Confirmed(t *testing.T) {
	store := testutil.NewStore(t, testutil.NewFakeStorage())
	added := testutil.MustAdd(t, store, "Buy milk", "Walk dog")

	var asked task.Task
	removed, err := store.Delete(context.Background(), added[0].ID, func(tk task.Task) bool {
		asked = tk
		return true
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !removed {
		t.Fatal("expected task to be removed")
	}
	if asked.ID != added[0].ID || asked.Text != "Buy milk" {
		t.Errorf("confirm got wrong task: %+v", asked)
	}
	if _, ok := store.Get(added[0].ID); ok {
		t.Error("deleted task still found")
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 task, got %d", store.Len())
	}
}

func TestDelete_Declined(t *testing.T) {
	backend := testutil.NewFakeStorage()
	store := testutil.NewStore(t, backend)
	added := testutil.MustAdd(t, store, "Buy milk")

	for name, confirm := range map[string]task.ConfirmFunc{
		"declined": func(task.Task) bool { return false },
		"nil":      nil,
	} {
		removed, err := store.Delete(context.Background(), added[0].ID, confirm)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if removed {
			t.Errorf("%s: task should not be removed", name)
		}
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 task, got %d", store.Len())
	}
	if backend.Writes() != 1 {
		t.Errorf("declined delete should not persist, got %d writes", backend.Writes())
	}
}

func TestDelete_UnknownIDDoesNotAsk(t *testing.T) {
	store := testutil.NewStore(t, testutil.NewFakeStorage())

	_, err := store.Delete(context.Background(), 7, func(task.Task) bool {
		t.Error("confirm should not be called for an unknown task")
		return true
	})
	if !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_IDsNeverReused(t *testing.T) {
	store := testutil.NewStore(t, testutil.NewFakeStorage())
	added := testutil.MustAdd(t, store, "a", "b")

	yes := func(task.Task) bool { return true }
	if _, err := store.Delete(context.Background(), added[1].ID, yes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tk, err := store.Add(context.Background(), "c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tk.ID != 3 {
		t.Errorf("expected id 3, got %d", tk.ID)
	}
}

func TestLoad_AbsentKey(t *testing.T) {
	store := testutil.NewStore(t, testutil.NewFakeStorage())

	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d tasks", store.Len())
	}
	if store.NextID() != 1 {
		t.Errorf("expected next id 1, got %d", store.NextID())
	}
}

func TestLoad_MalformedDataIsEmpty(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":    "{{{",
		"wrong shape": `{"id":1}`,
		"bad field":   `[{"id":"one","text":"x"}]`,
	} {
		backend := testutil.NewFakeStorage()
		backend.Put(task.DefaultKey, raw)

		store := testutil.NewStore(t, backend)
		if store.Len() != 0 {
			t.Errorf("%s: expected empty store, got %d tasks", name, store.Len())
		}
		if store.NextID() != 1 {
			t.Errorf("%s: expected next id 1, got %d", name, store.NextID())
		}
	}
}

func TestLoad_BadCreatedAtKeepsTasks(t *testing.T) {
	backend := testutil.NewFakeStorage()
	backend.Put(task.DefaultKey, `[`+
		`{"id":1,"text":"keep me","completed":false,"createdAt":"2024-05-01T09:30:00.123Z"},`+
		`{"id":2,"text":"no date","completed":false},`+
		`{"id":3,"text":"bad date","completed":true,"createdAt":"yesterday"}]`)

	store := testutil.NewStore(t, backend)

	if store.Len() != 3 {
		t.Fatalf("expected 3 tasks, got %d", store.Len())
	}
	if store.NextID() != 4 {
		t.Errorf("expected next id 4, got %d", store.NextID())
	}
	for _, id := range []int{2, 3} {
		tk, ok := store.Get(id)
		if !ok {
			t.Fatalf("task %d not found", id)
		}
		if !tk.CreatedAt.IsZero() {
			t.Errorf("task %d: expected zero createdAt, got %v", id, tk.CreatedAt)
		}
	}
	if tk, _ := store.Get(3); !tk.Completed || tk.Text != "bad date" {
		t.Errorf("unexpected task 3: %+v", tk)
	}

	// The next save keeps every record.
	testutil.MustAdd(t, store, "new")
	reloaded := testutil.NewStore(t, backend)
	if reloaded.Len() != 4 {
		t.Errorf("expected 4 tasks after reload, got %d", reloaded.Len())
	}
	if tk, ok := reloaded.Get(1); !ok || tk.Text != "keep me" {
		t.Errorf("task 1 lost: %+v", tk)
	}
}

func TestLoad_BackendError(t *testing.T) {
	backend := testutil.NewFakeStorage()
	backend.GetErr = errors.New("disk on fire")

	store := task.NewStore(backend)
	err := store.Load(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, backend.GetErr) {
		t.Errorf("expected wrapped backend error, got %v", err)
	}
}

func TestLoad_OriginalFormat(t *testing.T) {
	backend := testutil.NewFakeStorage()
	backend.Put(task.DefaultKey, `[`+
		`{"id":3,"text":"Buy milk","completed":true,"createdAt":"2024-05-01T09:30:00.123Z"},`+
		`{"id":7,"text":"Walk dog","completed":false,"createdAt":"2024-05-02T18:00:00.000Z"}]`)

	store := testutil.NewStore(t, backend)

	if store.Len() != 2 {
		t.Fatalf("expected 2 tasks, got %d", store.Len())
	}
	if store.NextID() != 8 {
		t.Errorf("expected next id 8, got %d", store.NextID())
	}
	tk, ok := store.Get(3)
	if !ok {
		t.Fatal("task 3 not found")
	}
	want := time.Date(2024, 5, 1, 9, 30, 0, 123000000, time.UTC)
	if !tk.Completed || tk.Text != "Buy milk" || !tk.CreatedAt.Equal(want) {
		t.Errorf("unexpected task: %+v", tk)
	}
}

func TestSave_Format(t *testing.T) {
	backend := testutil.NewFakeStorage()
	store := testutil.NewStore(t, backend)
	testutil.MustAdd(t, store, "Buy milk")

	got, ok := backend.Value(task.DefaultKey)
	if !ok {
		t.Fatal("nothing saved")
	}
	want := `[{"id":1,"text":"Buy milk","completed":false,"createdAt":"2024-05-01T09:00:00.000Z"}]`
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestSave_EmptyCollection(t *testing.T) {
	backend := testutil.NewFakeStorage()
	store := testutil.NewStore(t, backend)

	if err := store.Save(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := backend.Value(task.DefaultKey)
	if got != "[]" {
		t.Errorf("expected [], got %s", got)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	backend := testutil.NewFakeStorage()
	store := testutil.NewStore(t, backend)
	added := testutil.MustAdd(t, store, "Buy milk", "Walk dog", "Write report")
	if _, err := store.ToggleComplete(context.Background(), added[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded := testutil.NewStore(t, backend)

	want := store.Tasks()
	got := reloaded.Tasks()
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	byID := make(map[int]task.Task)
	for _, tk := range got {
		byID[tk.ID] = tk
	}
	for _, w := range want {
		g, ok := byID[w.ID]
		if !ok {
			t.Errorf("task %d missing after reload", w.ID)
			continue
		}
		if g.Text != w.Text || g.Completed != w.Completed || !g.CreatedAt.Equal(w.CreatedAt) {
			t.Errorf("task %d: expected %+v, got %+v", w.ID, w, g)
		}
	}
	if reloaded.NextID() != 4 {
		t.Errorf("expected next id 4, got %d", reloaded.NextID())
	}
}

func TestCustomKey(t *testing.T) {
	backend := testutil.NewFakeStorage()
	store := task.NewStore(backend, task.WithKey("work"))
	if _, err := store.Add(context.Background(), "Ship it"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := backend.Value("work"); !ok {
		t.Error("expected value under key 'work'")
	}
	if _, ok := backend.Value(task.DefaultKey); ok {
		t.Error("default key should be untouched")
	}
}

func TestFailedSaveRollsBack(t *testing.T) {
	backend := testutil.NewFakeStorage()
	store := testutil.NewStore(t, backend)
	added := testutil.MustAdd(t, store, "Buy milk")
	backend.SetErr = errors.New("read-only")

	if _, err := store.Add(context.Background(), "Walk dog"); !errors.Is(err, backend.SetErr) {
		t.Errorf("add: expected storage error, got %v", err)
	}
	if store.Len() != 1 || store.NextID() != 2 {
		t.Errorf("add should roll back: len=%d next=%d", store.Len(), store.NextID())
	}

	if _, err := store.ToggleComplete(context.Background(), added[0].ID); !errors.Is(err, backend.SetErr) {
		t.Errorf("toggle: expected storage error, got %v", err)
	}
	if tk, _ := store.Get(added[0].ID); tk.Completed {
		t.Error("toggle should roll back")
	}

	removed, err := store.Delete(context.Background(), added[0].ID, func(task.Task) bool { return true })
	if !errors.Is(err, backend.SetErr) || removed {
		t.Errorf("delete: expected storage error, got removed=%v err=%v", removed, err)
	}
	if store.Len() != 1 {
		t.Error("delete should roll back")
	}
}

func TestExampleScenario(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeStorage()
	store := testutil.NewStore(t, backend)

	milk, err := store.Add(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dog, err := store.Add(ctx, "Walk dog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.ToggleComplete(ctx, milk.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Delete(ctx, dog.ID, func(task.Task) bool { return true }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tasks := store.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Text != "Buy milk" || !tasks[0].Completed {
		t.Errorf("unexpected task: %+v", tasks[0])
	}
}
