// Package visibility holds the pure time-of-day rules that decide which
// content is servable: the daily fact slots, the evening quiz window, and
// the lock that keeps the full day's facts hidden until the quiz is over.
package visibility

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock returns the current time. Injected so the gate and the scheduler
// can be tested against fixed instants.
type Clock func() time.Time

// Categories are the six fixed daily categories, in slot order. The wire
// values keep the Turkish strings the frontend and the stored rows use.
var Categories = []string{
	"Tarih",
	"Bilim veya İcatlar",
	"Sanat",
	"Coğrafya",
	"Edebiyat veya Dil",
	"Spor veya Sağlık",
}

const (
	// FirstSlotHour is when the first fact becomes visible.
	FirstSlotHour = 8
	// SlotHours is the length of each fact's visibility window.
	SlotHours = 2
)

// Slot is one fact's visibility interval [Start, End) with its category.
type Slot struct {
	Start    time.Time
	End      time.Time
	Category string
}

// DaySlots returns the six two-hour slots of the given day, 08:00-20:00,
// each bound to its fixed category.
func DaySlots(day time.Time) []Slot {
	y, m, d := day.Date()
	loc := day.Location()
	slots := make([]Slot, len(Categories))
	for i, cat := range Categories {
		start := time.Date(y, m, d, FirstSlotHour+i*SlotHours, 0, 0, 0, loc)
		slots[i] = Slot{
			Start:    start,
			End:      start.Add(SlotHours * time.Hour),
			Category: cat,
		}
	}
	return slots
}

// Gate evaluates the quiz-window and fact-lock rules for a wall-clock
// instant. All bounds are minutes of the local day; no I/O.
type Gate struct {
	quizStart int
	quizEnd   int
	genStart  int
	genEnd    int
}

// NewGate parses "HH:MM" bounds. genStart opens the daily generation
// window, which closes when the last fact slot ends.
func NewGate(quizStart, quizEnd, genStart string) (*Gate, error) {
	qs, err := parseClock(quizStart)
	if err != nil {
		return nil, fmt.Errorf("quiz start: %w", err)
	}
	qe, err := parseClock(quizEnd)
	if err != nil {
		return nil, fmt.Errorf("quiz end: %w", err)
	}
	gs, err := parseClock(genStart)
	if err != nil {
		return nil, fmt.Errorf("generation window start: %w", err)
	}
	if qe <= qs {
		return nil, fmt.Errorf("quiz window %s-%s is empty", quizStart, quizEnd)
	}
	return &Gate{
		quizStart: qs,
		quizEnd:   qe,
		genStart:  gs,
		genEnd:    (FirstSlotHour + len(Categories)*SlotHours) * 60,
	}, nil
}

// QuizWindowActive reports whether t falls inside [quizStart, quizEnd).
// Quiz endpoints answer only inside this window.
func (g *Gate) QuizWindowActive(t time.Time) bool {
	m := minuteOfDay(t)
	return m >= g.quizStart && m < g.quizEnd
}

// FactsLocked reports whether the full day's fact list is still hidden.
// It unlocks once the quiz window has ended, for the rest of the day.
// Reading all six facts earlier would hand out the quiz answers.
func (g *Gate) FactsLocked(t time.Time) bool {
	return minuteOfDay(t) < g.quizEnd
}

// ReadRewardBlocked reports whether the fact-read XP endpoint is disabled.
func (g *Gate) ReadRewardBlocked(t time.Time) bool {
	return g.QuizWindowActive(t)
}

// WithinGenerationWindow reports whether a boot-time catch-up run may
// generate content: between the pre-slot lead-in and the last slot's end.
func (g *Gate) WithinGenerationWindow(t time.Time) bool {
	m := minuteOfDay(t)
	return m >= g.genStart && m < g.genEnd
}

// QuizWindowLabel is the human-readable window, e.g. "20:00-20:15".
func (g *Gate) QuizWindowLabel() string {
	return fmt.Sprintf("%s–%s", formatClock(g.quizStart), formatClock(g.quizEnd))
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

func formatClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
