package engine

import "time"

// NewState is the state immediately after a round starts: rope centered,
// first sentence loaded, both WPM windows anchored at the start instant.
func NewState(at time.Time) State {
	return State{
		Active:          true,
		Winner:          WinnerNone,
		CurrentText:     Sentences[0],
		StartedAt:       at,
		LastKeystrokeAt: at,
	}
}

// NewEmptyState is the pre-start state a client sees on join: inactive, but
// with the first sentence visible so the UI has something to render.
func NewEmptyState() State {
	return State{
		Winner:      WinnerNone,
		CurrentText: Sentences[0],
	}
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
