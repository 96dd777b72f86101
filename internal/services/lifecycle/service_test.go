package lifecycle_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"modmail/internal/directory"
	"modmail/internal/domain"
	"modmail/internal/platform/memory"
	"modmail/internal/services/lifecycle"
)

func setup(t *testing.T) (*memory.Platform, *directory.Directory, *lifecycle.Service, domain.ThreadID) {
	t.Helper()
	p := memory.New("1", "guild")
	p.AddChannel("500", domain.ChannelForum)
	thread := p.AddThread("500", "Modmail from a", "<@&900> New modmail from <@42> (ID: 42)")
	d := directory.New()
	d.Insert("42", thread)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return p, d, lifecycle.New(p, d, logger), thread
}

func TestClose(t *testing.T) {
	p, d, svc, thread := setup(t)

	reply, err := svc.Close(context.Background(), thread)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if reply != "Thread closed." {
		t.Fatalf("reply = %q", reply)
	}
	if _, ok := p.Thread(thread); ok {
		t.Fatal("thread still exists")
	}
	if _, ok := d.LookupThread("42"); ok {
		t.Fatal("session still tracked")
	}
	dm, ok := p.DMChannel("42")
	if !ok {
		t.Fatal("correspondent was not notified")
	}
	msgs := p.Messages(dm)
	if len(msgs) != 1 || !strings.HasPrefix(msgs[0].Content, "Your modmail thread has been closed") {
		t.Fatalf("dm = %+v", msgs)
	}
}

func TestClose_Untracked(t *testing.T) {
	p, d, svc, _ := setup(t)
	other := p.AddThread("500", "staff", "chatter")

	reply, err := svc.Close(context.Background(), other)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if reply != "This command can only be used inside an active modmail thread." {
		t.Fatalf("reply = %q", reply)
	}
	if _, ok := p.Thread(other); !ok {
		t.Fatal("untracked thread was deleted")
	}
	if d.Len() != 1 {
		t.Fatal("directory changed")
	}
}

func TestClose_DeleteFailure(t *testing.T) {
	p, d, svc, thread := setup(t)
	p.SetFailDelete(thread, true)

	reply, err := svc.Close(context.Background(), thread)
	if !domain.IsKind(err, domain.KindDelivery) {
		t.Fatalf("err = %v, want delivery failure", err)
	}
	if !strings.HasPrefix(reply, "Failed to close thread: ") {
		t.Fatalf("reply = %q", reply)
	}
	if got, _ := d.LookupThread("42"); got != thread {
		t.Fatal("session removed despite failed delete")
	}
}

func TestClose_DMDisabledStillCloses(t *testing.T) {
	p, d, svc, thread := setup(t)
	p.SetDMDisabled("42", true)

	reply, err := svc.Close(context.Background(), thread)
	if err != nil || reply != "Thread closed." {
		t.Fatalf("Close = %q, %v", reply, err)
	}
	if d.Len() != 0 {
		t.Fatal("session still tracked")
	}
}
