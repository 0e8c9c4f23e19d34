package deck

import (
	"fmt"
	"math"
	"time"
)

// MoonPhase is one of the 8 cyclic lunar states.
type MoonPhase struct {
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	Meaning string `json:"meaning"`
}

// Timing returns the precomputed timing line used in rendered prompts.
func (p MoonPhase) Timing() string {
	return fmt.Sprintf("%s %s — %s", p.Name, p.Icon, p.Meaning)
}

var moonPhases = []MoonPhase{
	{Name: "New Moon", Icon: "🌑", Meaning: "a time for setting intentions and planting seeds"},
	{Name: "Waxing Crescent", Icon: "🌒", Meaning: "a time for gathering momentum and taking first steps"},
	{Name: "First Quarter", Icon: "🌓", Meaning: "a time for decisive action and pushing through resistance"},
	{Name: "Waxing Gibbous", Icon: "🌔", Meaning: "a time for refinement and patient adjustment"},
	{Name: "Full Moon", Icon: "🌕", Meaning: "a time of culmination, clarity, and heightened emotion"},
	{Name: "Waning Gibbous", Icon: "🌖", Meaning: "a time for gratitude and sharing what has been learned"},
	{Name: "Last Quarter", Icon: "🌗", Meaning: "a time for release and letting go of what no longer serves"},
	{Name: "Waning Crescent", Icon: "🌘", Meaning: "a time for rest, reflection, and surrender"},
}

var moonPhaseByName = func() map[string]MoonPhase {
	m := make(map[string]MoonPhase, len(moonPhases))
	for _, p := range moonPhases {
		m[p.Name] = p
	}
	return m
}()

// MoonPhases returns the 8 phases in cycle order starting at New Moon.
func MoonPhases() []MoonPhase {
	return moonPhases
}

// MoonPhaseByName looks up a phase by name.
func MoonPhaseByName(name string) (MoonPhase, bool) {
	p, ok := moonPhaseByName[name]
	return p, ok
}

// synodicMonth is the mean length of a lunation in days.
const synodicMonth = 29.530588853

// referenceNewMoon is a known new moon: 2000-01-06 18:14 UTC.
var referenceNewMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

// MoonPhaseForDate returns the calendar phase for a date using mean synodic
// arithmetic. This is the live-app path; training-time sampling draws phases
// uniformly instead and the two must stay separate.
func MoonPhaseForDate(t time.Time) MoonPhase {
	days := t.Sub(referenceNewMoon).Hours() / 24
	age := math.Mod(days, synodicMonth)
	if age < 0 {
		age += synodicMonth
	}

	// Eight equal windows centered on each phase point, so e.g. Full Moon
	// covers the half-window either side of age = synodicMonth/2.
	window := synodicMonth / 8
	idx := int(math.Floor(age/window+0.5)) % 8
	return moonPhases[idx]
}
