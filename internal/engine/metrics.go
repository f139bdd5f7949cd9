package engine

import (
	"math"
	"time"
)

const (
	PositionLimit = 100.0 // rope travel on either side of center
	WinThreshold  = 95.0
	PowerCap      = 100.0
	PullRate      = 0.08 // rope movement per point of power differential

	OpponentTickInterval = 800 * time.Millisecond
	OpponentSpeedMin     = 25.0 // words/minute
	OpponentSpeedMax     = 45.0
	OpponentPowerMult    = 2.2

	BasePowerMult  = 1.8 // sustained pace contribution
	BurstPowerMult = 0.5
	BurstPowerCap  = 50.0
	RecentWindow   = 6 * time.Second // burst only counts inside this window
	RecentWPMCap   = 120.0

	CharsPerWord = 5.0
)

// overallWPM is the sustained words-per-minute since round start, rounded to
// the nearest integer. Zero elapsed time is defined as zero, not a division.
func overallWPM(totalChars int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return math.Round(float64(totalChars) / CharsPerWord / elapsed.Minutes())
}

// recentWPM is the short-burst speed over the in-progress buffer. The window
// bound is strict: a keystroke exactly RecentWindow after the previous one
// contributes nothing.
func recentWPM(bufLen int, sinceLast time.Duration) float64 {
	if sinceLast <= 0 || sinceLast >= RecentWindow {
		return 0
	}
	wpm := float64(bufLen) / CharsPerWord / sinceLast.Minutes()
	return math.Min(wpm, RecentWPMCap)
}

func playerPower(overall, recent float64) float64 {
	base := math.Min(PowerCap, overall*BasePowerMult)
	burst := math.Min(BurstPowerCap, recent*BurstPowerMult)
	return math.Min(PowerCap, base+burst)
}

// OverallWPM reports the player's sustained words-per-minute as of the given
// instant, for display alongside a snapshot.
func OverallWPM(s State, at time.Time) int {
	if s.StartedAt.IsZero() {
		return 0
	}
	return int(overallWPM(s.TotalCharsTyped, at.Sub(s.StartedAt)))
}

// Accuracy is the percentage of typed characters that match the target
// sentence at the same index. An empty buffer counts as 100; characters
// typed past the end of the sentence count as misses. Comparison is per
// rune: the input is free-form and one typed character is one miss at
// most, however many bytes it takes.
func Accuracy(s State) float64 {
	if len(s.UserInput) == 0 {
		return 100
	}
	input := []rune(s.UserInput)
	target := []rune(s.CurrentText)
	matched := 0
	limit := len(input)
	if len(target) < limit {
		limit = len(target)
	}
	for i := 0; i < limit; i++ {
		if input[i] == target[i] {
			matched++
		}
	}
	return float64(matched) / float64(len(input)) * 100
}
