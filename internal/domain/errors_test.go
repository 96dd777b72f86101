package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"modmail/internal/domain"
)

func TestIsKind_WrappedError(t *testing.T) {
	base := errors.New("unknown channel")
	err := fmt.Errorf("resolve thread: %w", domain.NotFoundError("resolve channel", base))

	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound through wrapping, got %v", err)
	}
	if domain.IsKind(err, domain.KindDelivery) {
		t.Fatal("did not expect KindDelivery")
	}
	if !errors.Is(err, base) {
		t.Fatal("expected errors.Is to reach the underlying error")
	}
}

func TestIsKind_PlainError(t *testing.T) {
	if domain.IsKind(errors.New("boom"), domain.KindConfiguration) {
		t.Fatal("plain errors carry no kind")
	}
	if domain.IsKind(nil, domain.KindConfiguration) {
		t.Fatal("nil carries no kind")
	}
}

func TestError_Message(t *testing.T) {
	err := domain.DeliveryError("open dm", errors.New("cannot send messages to this user"))
	want := "open dm: delivery failure: cannot send messages to this user"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestClassify(t *testing.T) {
	if domain.Classify(domain.KindDelivery, "post", nil) != nil {
		t.Fatal("Classify(nil) should be nil")
	}

	plain := domain.Classify(domain.KindDelivery, "post message", errors.New("500"))
	if !domain.IsKind(plain, domain.KindDelivery) {
		t.Fatalf("expected plain error to become KindDelivery, got %v", plain)
	}

	notFound := domain.NotFoundError("resolve channel", errors.New("unknown channel"))
	kept := domain.Classify(domain.KindDelivery, "post message", notFound)
	if !domain.IsKind(kept, domain.KindNotFound) {
		t.Fatalf("expected existing kind to be kept, got %v", kept)
	}
	if kept.Error() != "post message: resolve channel: not found: unknown channel" {
		t.Fatalf("unexpected message %q", kept.Error())
	}
}
