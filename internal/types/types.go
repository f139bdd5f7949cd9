package types

import "github.com/kevinmathew47/typing-tug-backend/internal/engine"

// Client -> Server
// Start: {}                      begin (or restart) the round
// Input: { text }                full transcription buffer after a keystroke
// Stop:  {}                      freeze the round without a winner
//
// Server -> Client
// StateSnapshot: { version, state, words_per_minute, typing_accuracy }
// Error:         { error }

type ClientMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type ServerMessage struct {
	Type           string        `json:"type"` // "StateSnapshot" | "Error"
	Version        int           `json:"version,omitempty"`
	State          *engine.State `json:"state,omitempty"`
	WordsPerMinute int           `json:"words_per_minute"`
	TypingAccuracy float64       `json:"typing_accuracy"`
	Error          string        `json:"error,omitempty"`
}
