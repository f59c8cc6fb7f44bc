/*
segment.go - Midnight segmenter and boundary builder

PURPOSE:
  Two preprocessing stages that turn a raw shift span into atomic intervals:

  1. Midnight segmenter: split the span at local midnight, one sub-span per
     calendar date touched. A shift ending exactly at midnight produces no
     zero-length trailing segment.

  2. Boundary builder: within one date's sub-span, collect split points at
     the span's own start/end, every whole-hour mark strictly inside, and the
     06:00 / 22:00 night-window edges strictly inside.

KEY INSIGHT:
  Every atomic interval between two consecutive boundaries is provably
  uniform in night-differential status (entirely inside or entirely outside
  the 22:00-06:00 window). Later stages can therefore assign one night flag
  per interval and consume them in a single linear pass, with no recursive
  splitting.

SEE ALSO:
  - accumulate.go: Consumes the atomic intervals in chronological order
*/
package wage

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MIDNIGHT SEGMENTER
// =============================================================================

// daySegment is the portion of a shift falling on one calendar date.
type daySegment struct {
	Start time.Time
	End   time.Time
	Date  time.Time // midnight of the segment's calendar date
}

// splitAtMidnight splits [start, end) at each local midnight it crosses.
// Segments are returned in chronological order and are never zero-length.
func splitAtMidnight(start, end time.Time) []daySegment {
	var segments []daySegment

	cursor := start
	for cursor.Before(end) {
		midnight := startOfDay(cursor).AddDate(0, 0, 1)
		segEnd := end
		if midnight.Before(end) {
			segEnd = midnight
		}
		segments = append(segments, daySegment{
			Start: cursor,
			End:   segEnd,
			Date:  startOfDay(cursor),
		})
		cursor = segEnd
	}
	return segments
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// =============================================================================
// BOUNDARY BUILDER
// =============================================================================

// Night-differential window edges, hours of day.
const (
	nightEndHour   = 6  // 06:00 - window closes
	nightStartHour = 22 // 22:00 - window opens
)

// interval is one atomic span between two consecutive boundaries. By
// construction it never crosses a whole-hour mark, so its night status is
// uniform.
type interval struct {
	Start time.Time
	End   time.Time
	Night bool
}

// buildBoundaries returns the sorted, deduplicated split points for one day
// segment: its own start/end, every whole-hour mark strictly inside, and the
// 06:00/22:00 marks if strictly inside. The night-window edges fall on whole
// hours and are inserted explicitly so the guarantee holds even for segments
// shorter than an hour that straddle them.
func buildBoundaries(seg daySegment) []time.Time {
	marks := map[int64]time.Time{
		seg.Start.Unix(): seg.Start,
		seg.End.Unix():   seg.End,
	}

	hour := time.Date(seg.Start.Year(), seg.Start.Month(), seg.Start.Day(), seg.Start.Hour(), 0, 0, 0, seg.Start.Location())
	for !hour.After(seg.End) {
		if hour.After(seg.Start) && hour.Before(seg.End) {
			marks[hour.Unix()] = hour
		}
		hour = hour.Add(time.Hour)
	}

	for _, h := range []int{nightEndHour, nightStartHour} {
		edge := time.Date(seg.Date.Year(), seg.Date.Month(), seg.Date.Day(), h, 0, 0, 0, seg.Date.Location())
		if edge.After(seg.Start) && edge.Before(seg.End) {
			marks[edge.Unix()] = edge
		}
	}

	boundaries := make([]time.Time, 0, len(marks))
	for _, t := range marks {
		boundaries = append(boundaries, t)
	}
	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i].Before(boundaries[j]) })
	return boundaries
}

// atomicIntervals builds the homogeneous intervals for one day segment.
func atomicIntervals(seg daySegment) []interval {
	boundaries := buildBoundaries(seg)

	intervals := make([]interval, 0, len(boundaries)-1)
	for i := 0; i < len(boundaries)-1; i++ {
		start, end := boundaries[i], boundaries[i+1]
		intervals = append(intervals, interval{
			Start: start,
			End:   end,
			Night: isNightHour(start),
		})
	}
	return intervals
}

// isNightHour reports whether a time falls inside the 22:00-06:00 window.
// Because intervals never cross a whole-hour mark, checking the start is
// sufficient for the whole interval.
func isNightHour(t time.Time) bool {
	h := t.Hour()
	return h >= nightStartHour || h < nightEndHour
}

// =============================================================================
// DURATION CONVERSIONS
// =============================================================================

// hoursBetween returns the span's duration in hours as a decimal.
func hoursBetween(start, end time.Time) decimal.Decimal {
	seconds := int64(end.Sub(start) / time.Second)
	return decimal.NewFromInt(seconds).Div(secondsPerHour)
}

// durationOf converts decimal hours back to a time.Duration.
func durationOf(hours decimal.Decimal) time.Duration {
	return time.Duration(hours.Mul(nanosPerHour).IntPart())
}

var (
	secondsPerHour = decimal.NewFromInt(3600)
	nanosPerHour   = decimal.NewFromInt(int64(time.Hour))
)
