package usecase

import (
	"errors"
	"testing"

	"carecoord/internal/domain"
)

func TestFinalizeTrimsAndAppliesRules(t *testing.T) {
	t.Parallel()

	finalizer := newTranscriptFinalizer(&fakeRules{transform: " book an appointment with Dr. Lake "}, &fakeEventSink{})

	got, err := finalizer.Finalize("  book an appointment with doctor lake \n")
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if got != "book an appointment with Dr. Lake" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestFinalizeWithoutRulesOnlyTrims(t *testing.T) {
	t.Parallel()

	finalizer := newTranscriptFinalizer(nil, &fakeEventSink{})

	got, err := finalizer.Finalize("  hello  ")
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if got != "hello" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestFinalizeRulesFailureEmitsError(t *testing.T) {
	t.Parallel()

	events := &fakeEventSink{}
	finalizer := newTranscriptFinalizer(&fakeRules{err: errors.New("bad rule")}, events)

	if _, err := finalizer.Finalize("hello"); err == nil {
		t.Fatalf("expected rules error")
	}
	if !events.hasError(domain.ErrorCodeRules) {
		t.Fatalf("rules error not emitted")
	}
}
