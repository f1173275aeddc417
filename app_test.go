package main

import (
	"errors"
	"testing"

	"carecoord/internal/domain"
)

func TestStateReasonMessagesCovered(t *testing.T) {
	t.Parallel()

	reasons := []domain.StateReason{
		domain.ReasonStartup,
		domain.ReasonRosterLoaded,
		domain.ReasonRosterFailed,
		domain.ReasonPatientSelected,
		domain.ReasonMessageDispatched,
		domain.ReasonReplyReceived,
		domain.ReasonReplyFailed,
		domain.ReasonReplyDiscarded,
		domain.ReasonRecordingStarted,
		domain.ReasonTranscribing,
		domain.ReasonTranscriptReady,
		domain.ReasonTranscriptFailed,
		domain.ReasonTranscriptDiscarded,
		domain.ReasonPlaybackStarted,
		domain.ReasonPlaybackStopped,
		domain.ReasonPlaybackFinished,
	}

	for _, reason := range reasons {
		if stateReasonMessage(reason) == "" {
			t.Errorf("reason %q has no user-facing message", reason)
		}
	}

	if stateReasonMessage(domain.StateReason("bogus")) != "" {
		t.Errorf("unknown reason should map to empty message")
	}
}

func TestErrorMessagesCovered(t *testing.T) {
	t.Parallel()

	codes := []domain.ErrorCode{
		domain.ErrorCodeStartup,
		domain.ErrorCodeRoster,
		domain.ErrorCodePatientDetail,
		domain.ErrorCodeChat,
		domain.ErrorCodeAudioStart,
		domain.ErrorCodeAudioStop,
		domain.ErrorCodeTranscription,
		domain.ErrorCodeSynthesis,
		domain.ErrorCodePlayback,
		domain.ErrorCodeRules,
		domain.ErrorCodeClipboard,
	}

	for _, code := range codes {
		if errorMessage(code, "detail") == "" {
			t.Errorf("code %q has no user-facing message", code)
		}
	}
}

func TestErrorMessageUnknownCodeFallsBackToDetail(t *testing.T) {
	t.Parallel()

	if got := errorMessage(domain.ErrorCode("bogus"), "socket closed"); got != "socket closed" {
		t.Fatalf("expected detail passthrough, got %q", got)
	}
	if got := errorMessage(domain.ErrorCode("bogus"), ""); got != "Unknown error" {
		t.Fatalf("expected fallback message, got %q", got)
	}
}

func TestRequireReady(t *testing.T) {
	t.Parallel()

	app := NewApp()
	if err := app.requireReady(); err == nil {
		t.Fatalf("expected error before startup")
	}

	app.bootErr = errors.New("config exploded")
	if err := app.requireReady(); !errors.Is(err, app.bootErr) {
		t.Fatalf("boot error not surfaced: %v", err)
	}
}

func TestGetSnapshotBeforeStartupIsEmpty(t *testing.T) {
	t.Parallel()

	app := NewApp()
	snapshot := app.GetSnapshot()
	if len(snapshot.Patients) != 0 || len(snapshot.Messages) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snapshot)
	}
}

func TestGetRuntimeInfoReportsBootError(t *testing.T) {
	t.Parallel()

	app := NewApp()
	app.bootErr = errors.New("no config")

	info := app.GetRuntimeInfo()
	if info["error"] != "no config" {
		t.Fatalf("boot error not reported: %+v", info)
	}
}
