package directory_test

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"modmail/internal/directory"
	"modmail/internal/domain"
)

func TestInsertLookup(t *testing.T) {
	d := directory.New()
	d.Insert("100", "t1")

	thread, ok := d.LookupThread("100")
	if !ok || thread != "t1" {
		t.Fatalf("LookupThread = %q, %v; want t1, true", thread, ok)
	}
	correspondent, ok := d.LookupCorrespondent("t1")
	if !ok || correspondent != "100" {
		t.Fatalf("LookupCorrespondent = %q, %v; want 100, true", correspondent, ok)
	}
	if _, ok := d.LookupThread("200"); ok {
		t.Fatal("unexpected thread for unknown correspondent")
	}
}

func TestInsert_ReplacesStaleThread(t *testing.T) {
	d := directory.New()
	d.Insert("100", "old")
	d.Insert("100", "new")

	if thread, _ := d.LookupThread("100"); thread != "new" {
		t.Fatalf("thread = %q, want new", thread)
	}
	if _, ok := d.LookupCorrespondent("old"); ok {
		t.Fatal("stale thread still maps to a correspondent")
	}
	if d.Len() != 1 {
		t.Fatalf("Len = %d, want 1", d.Len())
	}
	if msg := d.CheckBijection(); msg != "" {
		t.Fatal(msg)
	}
}

func TestInsert_ReassignsThread(t *testing.T) {
	d := directory.New()
	d.Insert("100", "t1")
	d.Insert("200", "t1")

	if _, ok := d.LookupThread("100"); ok {
		t.Fatal("previous owner of t1 should have been evicted")
	}
	if c, _ := d.LookupCorrespondent("t1"); c != "200" {
		t.Fatalf("owner = %q, want 200", c)
	}
	if msg := d.CheckBijection(); msg != "" {
		t.Fatal(msg)
	}
}

func TestRemoveByThread(t *testing.T) {
	d := directory.New()
	d.Insert("100", "t1")
	d.Insert("200", "t2")

	c, ok := d.RemoveByThread("t1")
	if !ok || c != "100" {
		t.Fatalf("RemoveByThread = %q, %v; want 100, true", c, ok)
	}
	if _, ok := d.LookupThread("100"); ok {
		t.Fatal("correspondent entry survived removal")
	}
	if _, ok := d.RemoveByThread("t1"); ok {
		t.Fatal("second removal should be a no-op")
	}
	if d.Len() != 1 {
		t.Fatalf("Len = %d, want 1", d.Len())
	}
}

func TestReplaceAll(t *testing.T) {
	d := directory.New()
	d.Insert("stale", "gone")

	d.ReplaceAll([]domain.Session{
		{Correspondent: "100", Thread: "t1"},
		{Correspondent: "200", Thread: "t2"},
		{Correspondent: "100", Thread: "t3"},
	})

	if _, ok := d.LookupThread("stale"); ok {
		t.Fatal("ReplaceAll kept prior content")
	}
	want := []domain.Session{
		{Correspondent: "100", Thread: "t3"},
		{Correspondent: "200", Thread: "t2"},
	}
	got := d.Snapshot()
	if len(got) != len(want) {
		t.Fatalf("snapshot = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("snapshot[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if msg := d.CheckBijection(); msg != "" {
		t.Fatal(msg)
	}
}

// Random insert/remove sequences over a small key space so collisions are
// frequent. The bijection must hold after every step.
func TestBijection_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 50; run++ {
		d := directory.New()
		for step := 0; step < 200; step++ {
			c := domain.CorrespondentID(fmt.Sprintf("c%d", rng.Intn(8)))
			th := domain.ThreadID(fmt.Sprintf("t%d", rng.Intn(8)))
			switch rng.Intn(4) {
			case 0:
				d.RemoveByThread(th)
			case 1:
				d.ReplaceAll([]domain.Session{{Correspondent: c, Thread: th}})
			default:
				d.Insert(c, th)
			}
			if msg := d.CheckBijection(); msg != "" {
				t.Fatalf("run %d step %d: %s", run, step, msg)
			}
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	d := directory.New()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				c := domain.CorrespondentID(fmt.Sprintf("c%d", (w+i)%16))
				th := domain.ThreadID(fmt.Sprintf("t%d", i%16))
				d.Insert(c, th)
				if got, ok := d.LookupThread(c); ok {
					d.LookupCorrespondent(got)
				}
				if i%7 == 0 {
					d.RemoveByThread(th)
				}
			}
		}(w)
	}
	wg.Wait()

	if msg := d.CheckBijection(); msg != "" {
		t.Fatal(msg)
	}
}
