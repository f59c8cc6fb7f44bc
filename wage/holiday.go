/*
holiday.go - Holiday classification and lookup

PURPOSE:
  Maps a calendar date to a holiday classification (regular, special
  non-working, special working, or normal) and an optional display name.
  One capability, two backends: a caller-supplied lookup function or a
  static date-keyed table built once from a holiday list. The function
  backend takes priority when both are supplied.

CLASSIFICATIONS:
  normal:              Not a holiday. Worked hours pay 100%.
  regular:             Pays 100% unworked, 200% worked.
  special_non_working: Pays 0% unworked, 130% worked.
  special_working:     Behaves like a normal day except for rest-day rates.

RESOLUTION ORDER:
  1. Caller-supplied ResolverFunc (if any)
  2. StaticCalendar date table
  3. No match -> {Class: HolidayNormal}

SEE ALSO:
  - rates.go: Multipliers keyed by classification
  - calculator.go: Applies the cutoff-date option before resolving
*/
package wage

import "time"

// =============================================================================
// CLASSIFICATION
// =============================================================================

// HolidayClass identifies the statutory treatment of a calendar date.
type HolidayClass string

const (
	HolidayNormal            HolidayClass = "normal"
	HolidayRegular           HolidayClass = "regular"
	HolidaySpecialNonWorking HolidayClass = "special_non_working"
	HolidaySpecialWorking    HolidayClass = "special_working"
)

// Valid reports whether the class is one of the four known values.
func (c HolidayClass) Valid() bool {
	switch c {
	case HolidayNormal, HolidayRegular, HolidaySpecialNonWorking, HolidaySpecialWorking:
		return true
	}
	return false
}

// Holiday is one entry in a holiday calendar. Used only as a lookup key by
// date; when two holidays share a date the last one loaded wins, and exact
// dates beat recurring entries.
type Holiday struct {
	ID        string
	Date      time.Time
	Class     HolidayClass
	Name      string
	Year      int  // yearly scope, 0 = any
	Recurring bool // same month/day every year
}

// Resolution is what the resolver answers for a date.
type Resolution struct {
	Class HolidayClass
	Name  string
}

// =============================================================================
// RESOLVER - Strategy interface with two backends
// =============================================================================

// HolidayResolver maps a date to its classification. Implementations must be
// safe for concurrent use; the engine calls Resolve once per calendar date
// touched by a shift.
type HolidayResolver interface {
	Resolve(date time.Time) Resolution
}

// ResolverFunc adapts a plain function to HolidayResolver. This is the
// caller-supplied backend and takes priority over a static table.
type ResolverFunc func(date time.Time) Resolution

func (f ResolverFunc) Resolve(date time.Time) Resolution { return f(date) }

// StaticCalendar is the precomputed backend: a date-keyed map built once from
// a holiday list. Lookup is by ISO date, with a second pass over recurring
// entries by month/day.
type StaticCalendar struct {
	byDate    map[string]Holiday
	recurring map[string]Holiday // keyed by MM-DD
}

// NewStaticCalendar builds the lookup table. Entries with an invalid class
// are kept but resolve as normal.
func NewStaticCalendar(holidays []Holiday) *StaticCalendar {
	c := &StaticCalendar{
		byDate:    make(map[string]Holiday, len(holidays)),
		recurring: make(map[string]Holiday),
	}
	for _, h := range holidays {
		if h.Recurring {
			c.recurring[h.Date.Format("01-02")] = h
		} else {
			c.byDate[h.Date.Format(isoDate)] = h
		}
	}
	return c
}

// Resolve implements HolidayResolver.
func (c *StaticCalendar) Resolve(date time.Time) Resolution {
	if h, ok := c.byDate[date.Format(isoDate)]; ok {
		return resolutionFor(h, date)
	}
	if h, ok := c.recurring[date.Format("01-02")]; ok {
		return resolutionFor(h, date)
	}
	return Resolution{Class: HolidayNormal}
}

func resolutionFor(h Holiday, date time.Time) Resolution {
	if h.Year != 0 && h.Year != date.Year() {
		return Resolution{Class: HolidayNormal}
	}
	if !h.Class.Valid() {
		return Resolution{Class: HolidayNormal}
	}
	return Resolution{Class: h.Class, Name: h.Name}
}

// NoHolidays is a resolver that classifies every date as normal. Used when
// holiday logic is disabled.
var NoHolidays HolidayResolver = ResolverFunc(func(time.Time) Resolution {
	return Resolution{Class: HolidayNormal}
})

const isoDate = "2006-01-02"
