package recovery_test

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"modmail/internal/directory"
	"modmail/internal/domain"
	"modmail/internal/platform/memory"
	"modmail/internal/protocol/marker"
	"modmail/internal/services/recovery"
)

const (
	forumID domain.ChannelID = "500"
	roleID  domain.RoleID    = "900"
)

func newService(p *memory.Platform, d *directory.Directory) *recovery.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return recovery.New(p, d, recovery.Options{ForumChannelID: forumID}, logger)
}

func newPlatform() *memory.Platform {
	p := memory.New("1", "guild")
	p.AddChannel(forumID, domain.ChannelForum)
	return p
}

func TestRun_RecoversSessions(t *testing.T) {
	p := newPlatform()
	a := p.AddThread(forumID, "Modmail from a", marker.Opening(roleID, "42"), "(User) <@42>: hi")
	b := p.AddThread(forumID, "Modmail from b", marker.Opening(roleID, "43"))
	d := directory.New()

	report, err := newService(p, d).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := domain.RecoveryReport{Scanned: 2, Recovered: 2}
	if report != want {
		t.Fatalf("report = %+v, want %+v", report, want)
	}
	if thread, _ := d.LookupThread("42"); thread != a {
		t.Fatalf("42 -> %q, want %q", thread, a)
	}
	if thread, _ := d.LookupThread("43"); thread != b {
		t.Fatalf("43 -> %q, want %q", thread, b)
	}
}

func TestRun_Idempotent(t *testing.T) {
	p := newPlatform()
	p.AddThread(forumID, "x", marker.Opening(roleID, "42"))
	p.AddThread(forumID, "y", marker.Opening(roleID, "43"))
	d := directory.New()
	svc := newService(p, d)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := d.Snapshot()
	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if second := d.Snapshot(); !reflect.DeepEqual(first, second) {
		t.Fatalf("second run changed directory: %v -> %v", first, second)
	}
}

func TestRun_ReplacesExistingEntries(t *testing.T) {
	p := newPlatform()
	thread := p.AddThread(forumID, "x", marker.Opening(roleID, "42"))
	d := directory.New()
	d.Insert("99", "gone")

	if _, err := newService(p, d).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.LookupThread("99"); ok {
		t.Fatal("stale entry survived recovery")
	}
	if got, _ := d.LookupThread("42"); got != thread {
		t.Fatalf("42 -> %q, want %q", got, thread)
	}
}

func TestScan_MarkerOnly(t *testing.T) {
	p := newPlatform()
	p.AddThread(forumID, "legacy", "New modmail (ID: 77)")

	sessions, _, err := newService(p, directory.New()).Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].Correspondent != "77" {
		t.Fatalf("sessions = %+v", sessions)
	}
}

func TestScan_SkipsOrphansFailuresAndOtherParents(t *testing.T) {
	p := newPlatform()
	p.AddChannel("600", domain.ChannelForum)
	good := p.AddThread(forumID, "good", marker.Opening(roleID, "42"))
	p.AddThread(forumID, "orphan", "just staff talking")
	p.AddThread(forumID, "role only", "<@&900> please look")
	broken := p.AddThread(forumID, "broken", marker.Opening(roleID, "43"))
	p.AddThread("600", "elsewhere", marker.Opening(roleID, "44"))
	p.SetFailFetch(broken, true)

	sessions, report, err := newService(p, directory.New()).Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.Session{{Correspondent: "42", Thread: good}}
	if !reflect.DeepEqual(sessions, want) {
		t.Fatalf("sessions = %+v, want %+v", sessions, want)
	}
	if report.Scanned != 4 || report.Skipped != 3 || report.Recovered != 1 {
		t.Fatalf("report = %+v", report)
	}
}

func TestScan_DuplicateKeepsLaterThread(t *testing.T) {
	p := newPlatform()
	p.AddThread(forumID, "first", marker.Opening(roleID, "42"))
	later := p.AddThread(forumID, "second", marker.Opening(roleID, "42"))

	sessions, report, err := newService(p, directory.New()).Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].Thread != later {
		t.Fatalf("sessions = %+v, want thread %q", sessions, later)
	}
	if report.Duplicates != 1 {
		t.Fatalf("Duplicates = %d, want 1", report.Duplicates)
	}
}

func TestRun_ListFailureLeavesDirectory(t *testing.T) {
	p := newPlatform()
	p.SetFailList(true)
	d := directory.New()
	d.Insert("42", "t1")

	_, err := newService(p, d).Run(context.Background())
	if !domain.IsKind(err, domain.KindRecovery) {
		t.Fatalf("err = %v, want recovery failure", err)
	}
	if thread, _ := d.LookupThread("42"); thread != "t1" {
		t.Fatal("directory modified after failed recovery")
	}
}

func TestScan_ForumMisconfigured(t *testing.T) {
	cases := []struct {
		name  string
		setup func(*memory.Platform)
	}{
		{"missing", func(*memory.Platform) {}},
		{"not a forum", func(p *memory.Platform) { p.AddChannel(forumID, domain.ChannelText) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := memory.New("1", "guild")
			tc.setup(p)
			_, _, err := newService(p, directory.New()).Scan(context.Background())
			if !domain.IsKind(err, domain.KindConfiguration) {
				t.Fatalf("err = %v, want configuration error", err)
			}
		})
	}
}

func TestScan_WindowBoundsHistory(t *testing.T) {
	p := newPlatform()
	p.AddThread(forumID, "x", marker.Opening(roleID, "42"), "a", "b", "c")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := recovery.New(p, directory.New(), recovery.Options{ForumChannelID: forumID, Window: 2}, logger)

	sessions, _, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].Correspondent != "42" {
		t.Fatalf("sessions = %+v", sessions)
	}
}
