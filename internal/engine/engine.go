package engine

import (
	"errors"
	"math"
	"time"
)

var ErrRoundInactive = errors.New("round not active")
var ErrRoundCompleted = errors.New("round already completed")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Winner string

const (
	WinnerNone     Winner = "none"
	WinnerPlayer   Winner = "player"
	WinnerOpponent Winner = "opponent"
)

// State is the full authoritative game state for one round. It is a plain
// value: every transition goes through Apply, which returns a new State and
// never mutates its input.
type State struct {
	Position      float64 `json:"position"`       // rope offset, 0 = center
	PlayerPower   float64 `json:"player_power"`   // [0, 100]
	OpponentPower float64 `json:"opponent_power"` // [0, 100]
	Active        bool    `json:"active"`
	Winner        Winner  `json:"winner"`

	CurrentText     string    `json:"current_text"`
	UserInput       string    `json:"user_input"`
	SentenceIndex   int       `json:"sentence_index"`
	TotalCharsTyped int       `json:"total_chars_typed"` // completed sentences only
	StartedAt       time.Time `json:"started_at"`
	LastKeystrokeAt time.Time `json:"-"`
}

type CommandType string

const (
	CmdStartRound   CommandType = "StartRound"
	CmdTypeInput    CommandType = "TypeInput"
	CmdOpponentTick CommandType = "OpponentTick"
	CmdStopRound    CommandType = "StopRound"
)

// Command carries everything a transition needs, including the clock reading
// and any sampled randomness, so Apply stays deterministic.
type Command struct {
	Type      CommandType
	Input     string    // TypeInput: the full transcription buffer
	BaseSpeed float64   // OpponentTick: sampled base speed in words/minute
	At        time.Time // when the event happened
}

type EventType string

const (
	EvtRoundStarted      EventType = "RoundStarted"
	EvtSentenceCompleted EventType = "SentenceCompleted"
	EvtRoundStopped      EventType = "RoundStopped"
	EvtRoundCompleted    EventType = "RoundCompleted"
)

type Event struct {
	Type          EventType
	Winner        Winner
	SentenceIndex int
}

func Apply(s State, cmd Command) ([]Event, State, error) {

	switch cmd.Type {
	case CmdStartRound:
		// Start is also reset: a completed or stopped round can be restarted.
		return []Event{{Type: EvtRoundStarted}}, NewState(cmd.At), nil

	case CmdOpponentTick:
		// A stale tick after deactivation is a no-op, not an error; the
		// ticker may have one tick in flight when the round ends.
		if !s.Active {
			return nil, s, nil
		}
		newState := s
		newState.OpponentPower = math.Min(PowerCap, cmd.BaseSpeed*OpponentPowerMult)
		return nil, newState, nil

	case CmdTypeInput:
		if s.Winner != WinnerNone {
			return nil, s, ErrRoundCompleted
		}
		if !s.Active {
			return nil, s, ErrRoundInactive
		}

		var events []Event
		newState := s
		sinceLast := cmd.At.Sub(s.LastKeystrokeAt)
		newState.UserInput = cmd.Input
		newState.LastKeystrokeAt = cmd.At

		// Exact, case-sensitive match completes the sentence. This is the
		// only path that grows TotalCharsTyped.
		if newState.UserInput == newState.CurrentText {
			newState.TotalCharsTyped += len(newState.CurrentText)
			newState.SentenceIndex = (newState.SentenceIndex + 1) % len(Sentences)
			newState.CurrentText = Sentences[newState.SentenceIndex]
			newState.UserInput = ""
			events = append(events, Event{Type: EvtSentenceCompleted, SentenceIndex: newState.SentenceIndex})
		}

		overall := overallWPM(newState.TotalCharsTyped, cmd.At.Sub(newState.StartedAt))
		recent := recentWPM(len(newState.UserInput), sinceLast)
		newState.PlayerPower = playerPower(overall, recent)

		delta := (newState.PlayerPower - newState.OpponentPower) * PullRate
		newState.Position = clamp(newState.Position+delta, -PositionLimit, PositionLimit)

		// The win check is part of the same transition as the position
		// update, so no later command can move the rope past a decided
		// round.
		switch {
		case newState.Position >= WinThreshold:
			newState.Winner = WinnerPlayer
		case newState.Position <= -WinThreshold:
			newState.Winner = WinnerOpponent
		}
		if newState.Winner != WinnerNone {
			newState.Active = false
			events = append(events, Event{Type: EvtRoundCompleted, Winner: newState.Winner})
		}
		return events, newState, nil

	case CmdStopRound:
		if s.Winner != WinnerNone {
			return nil, s, ErrRoundCompleted
		}
		if !s.Active {
			return nil, s, ErrRoundInactive
		}
		newState := s
		newState.Active = false
		return []Event{{Type: EvtRoundStopped}}, newState, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
