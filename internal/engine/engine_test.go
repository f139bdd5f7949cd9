package engine

import (
	"errors"
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// activeState is a mid-round state one minute in, with no opponent pull and
// no recent-burst credit, so player power comes from totalChars alone.
func activeState(totalChars int, at time.Time) State {
	return State{
		Active:          true,
		Winner:          WinnerNone,
		CurrentText:     Sentences[0],
		TotalCharsTyped: totalChars,
		StartedAt:       at.Add(-time.Minute),
		LastKeystrokeAt: at.Add(-10 * time.Second),
	}
}

func TestStartResetsState(t *testing.T) {
	s := State{Position: 50, Active: false, Winner: WinnerPlayer, TotalCharsTyped: 300}

	events, newState, err := Apply(s, Command{Type: CmdStartRound, At: t0})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !ContainsEvent(events, EvtRoundStarted) {
		t.Fatalf("expected EvtRoundStarted")
	}
	if !newState.Active || newState.Winner != WinnerNone || newState.Position != 0 {
		t.Fatalf("start did not reset: %+v", newState)
	}
	if newState.CurrentText != Sentences[0] || newState.TotalCharsTyped != 0 {
		t.Fatalf("typing session not reset: %+v", newState)
	}
}

func TestKeystrokeBeforeStartIsRejected(t *testing.T) {
	s := NewEmptyState()

	_, _, err := Apply(s, Command{Type: CmdTypeInput, Input: "T", At: t0})
	if err == nil || !errors.Is(err, ErrRoundInactive) {
		t.Fatalf("want ErrRoundInactive, got %v", err)
	}
}

func TestOpponentTick(t *testing.T) {
	cases := []struct {
		name      string
		setup     State
		baseSpeed float64
		wantPower float64
	}{
		{
			name:      "base speed 30 maps to power 66",
			setup:     activeState(0, t0),
			baseSpeed: 30,
			wantPower: 66,
		},
		{
			name:      "power is capped at 100",
			setup:     activeState(0, t0),
			baseSpeed: 60,
			wantPower: 100,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, newState, err := Apply(tc.setup, Command{Type: CmdOpponentTick, BaseSpeed: tc.baseSpeed, At: t0})
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if math.Abs(newState.OpponentPower-tc.wantPower) > 1e-9 {
				t.Fatalf("opponent power: got %v, want %v", newState.OpponentPower, tc.wantPower)
			}
		})
	}
}

func TestStaleTickAfterDeactivationIsNoOp(t *testing.T) {
	s := activeState(0, t0)
	s.Active = false
	s.Winner = WinnerPlayer
	s.Position = 96

	events, newState, err := Apply(s, Command{Type: CmdOpponentTick, BaseSpeed: 40, At: t0})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(events) != 0 || newState != s {
		t.Fatalf("stale tick changed state: %+v", newState)
	}
}

func TestSentenceCompletionAdvancesQueue(t *testing.T) {
	at := t0
	s := activeState(0, at)

	events, newState, err := Apply(s, Command{Type: CmdTypeInput, Input: Sentences[0], At: at})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !ContainsEvent(events, EvtSentenceCompleted) {
		t.Fatalf("expected EvtSentenceCompleted")
	}
	if newState.SentenceIndex != 1 || newState.CurrentText != Sentences[1] {
		t.Fatalf("queue did not advance: index=%d text=%q", newState.SentenceIndex, newState.CurrentText)
	}
	if newState.UserInput != "" {
		t.Fatalf("buffer not cleared: %q", newState.UserInput)
	}
	if newState.TotalCharsTyped != len(Sentences[0]) {
		t.Fatalf("totalChars: got %d, want %d", newState.TotalCharsTyped, len(Sentences[0]))
	}
}

func TestNonMatchingFullLengthInputDoesNotAdvance(t *testing.T) {
	s := activeState(0, t0)
	wrong := make([]byte, len(Sentences[0]))
	for i := range wrong {
		wrong[i] = 'x'
	}

	events, newState, err := Apply(s, Command{Type: CmdTypeInput, Input: string(wrong), At: t0})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ContainsEvent(events, EvtSentenceCompleted) {
		t.Fatalf("unexpected EvtSentenceCompleted")
	}
	if newState.SentenceIndex != 0 || newState.TotalCharsTyped != 0 {
		t.Fatalf("queue advanced on non-match: %+v", newState)
	}
	if newState.UserInput != string(wrong) {
		t.Fatalf("buffer not kept: %q", newState.UserInput)
	}
}

func TestSentenceIndexWrapsAround(t *testing.T) {
	s := activeState(0, t0)
	s.SentenceIndex = len(Sentences) - 1
	s.CurrentText = Sentences[len(Sentences)-1]

	_, newState, err := Apply(s, Command{Type: CmdTypeInput, Input: s.CurrentText, At: t0})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if newState.SentenceIndex != 0 || newState.CurrentText != Sentences[0] {
		t.Fatalf("index did not wrap: %d", newState.SentenceIndex)
	}
}

func TestPlayerWinAtThreshold(t *testing.T) {
	// 250 chars in one minute -> overall 50 WPM -> base power 90. Against
	// opponent power 15 the differential is 75, so the delta is exactly 6.
	s := activeState(250, t0)
	s.Position = 90
	s.OpponentPower = 15

	events, newState, err := Apply(s, Command{Type: CmdTypeInput, Input: "T", At: t0})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if math.Abs(newState.Position-96) > 1e-9 {
		t.Fatalf("position: got %v, want 96", newState.Position)
	}
	if newState.Winner != WinnerPlayer {
		t.Fatalf("winner: got %v, want player", newState.Winner)
	}
	if newState.Active {
		t.Fatalf("round still active after win")
	}
	if !ContainsEvent(events, EvtRoundCompleted) {
		t.Fatalf("expected EvtRoundCompleted")
	}
}

func TestOpponentWinAtThreshold(t *testing.T) {
	s := activeState(0, t0)
	s.Position = -90
	s.OpponentPower = 100

	_, newState, err := Apply(s, Command{Type: CmdTypeInput, Input: "T", At: t0})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if newState.Winner != WinnerOpponent {
		t.Fatalf("winner: got %v, want opponent", newState.Winner)
	}
	if newState.Active {
		t.Fatalf("round still active after loss")
	}
}

func TestPositionIsClamped(t *testing.T) {
	s := activeState(0, t0)
	s.Position = -99
	s.OpponentPower = 100

	_, newState, err := Apply(s, Command{Type: CmdTypeInput, Input: "T", At: t0})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if newState.Position != -100 {
		t.Fatalf("position not clamped: got %v", newState.Position)
	}
}

func TestCompletedRoundIsFrozen(t *testing.T) {
	s := activeState(250, t0)
	s.Active = false
	s.Winner = WinnerPlayer
	s.Position = 96

	cases := []struct {
		name string
		cmd  Command
	}{
		{name: "keystroke", cmd: Command{Type: CmdTypeInput, Input: "T", At: t0}},
		{name: "stop", cmd: Command{Type: CmdStopRound, At: t0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, newState, err := Apply(s, tc.cmd)
			if err == nil || !errors.Is(err, ErrRoundCompleted) {
				t.Fatalf("want ErrRoundCompleted, got %v", err)
			}
			if newState != s {
				t.Fatalf("state changed after completion: %+v", newState)
			}
		})
	}
}

func TestStopDeactivatesWithoutWinner(t *testing.T) {
	s := activeState(50, t0)

	events, newState, err := Apply(s, Command{Type: CmdStopRound, At: t0})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !ContainsEvent(events, EvtRoundStopped) {
		t.Fatalf("expected EvtRoundStopped")
	}
	if newState.Active || newState.Winner != WinnerNone {
		t.Fatalf("stop state wrong: %+v", newState)
	}

	// A second stop is rejected, not applied twice.
	_, _, err = Apply(newState, Command{Type: CmdStopRound, At: t0})
	if err == nil || !errors.Is(err, ErrRoundInactive) {
		t.Fatalf("want ErrRoundInactive, got %v", err)
	}
}

func TestUnsupportedCommand(t *testing.T) {
	_, _, err := Apply(NewEmptyState(), Command{Type: "Dance"})
	if err == nil || !errors.Is(err, ErrUnsupportedCommand) {
		t.Fatalf("want ErrUnsupportedCommand, got %v", err)
	}
}
