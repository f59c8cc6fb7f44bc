package wage

import (
	"testing"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func normalDay() Resolution { return Resolution{Class: HolidayNormal} }

func segFor(startHour, endHour int) daySegment {
	return daySegment{
		Start: at(10, startHour, 0),
		End:   at(10, endHour, 0),
		Date:  at(10, 0, 0),
	}
}

func rate100() decimal.Decimal { return decimal.NewFromInt(100) }

// =============================================================================
// DAILY THRESHOLD
// =============================================================================

func TestAccumulateDay_UnderCap_NoOvertime(t *testing.T) {
	// GIVEN: A 6-hour daytime segment on a normal day
	// WHEN: Accumulating
	// THEN: 6 regular hours, no overtime, pay = hours x rate

	day := accumulateDay(segFor(9, 15), normalDay(), false, rate100(), DefaultOptions(), decimal.Zero)

	if !day.HoursWorked.Equal(d("6")) {
		t.Errorf("hours worked: want 6, got %s", day.HoursWorked)
	}
	if !day.OvertimeHours.IsZero() {
		t.Errorf("overtime: want 0, got %s", day.OvertimeHours)
	}
	if !day.TotalForDate.Equal(d("600")) {
		t.Errorf("total: want 600, got %s", day.TotalForDate)
	}
}

func TestAccumulateDay_CapSplitsInterval(t *testing.T) {
	// GIVEN: A 10-hour segment (08:00-18:00) on a normal day
	// WHEN: Accumulating against the 8-hour cap
	// THEN: 8 regular hours, 2 overtime hours at 1.25

	day := accumulateDay(segFor(8, 18), normalDay(), false, rate100(), DefaultOptions(), decimal.Zero)

	if !day.HoursWorked.Equal(d("8")) {
		t.Errorf("hours worked: want 8, got %s", day.HoursWorked)
	}
	if !day.OvertimeHours.Equal(d("2")) {
		t.Errorf("overtime hours: want 2, got %s", day.OvertimeHours)
	}
	// OT premium portion: 2h x 100 x (1.25 - 1)
	if !day.OvertimePay.Equal(d("50")) {
		t.Errorf("overtime pay: want 50, got %s", day.OvertimePay)
	}
	if !day.TotalForDate.Equal(d("1050")) {
		t.Errorf("total: want 1050, got %s", day.TotalForDate)
	}
}

func TestAccumulateDay_CapSplitMidInterval(t *testing.T) {
	// GIVEN: The cap is crossed at 16:30, mid-way through a 16:00-17:00 hour
	// WHEN: Accumulating a 08:30-17:00 segment
	// THEN: The straddling interval is split into a regular and an OT slice

	seg := daySegment{Start: at(10, 8, 30), End: at(10, 17, 0), Date: at(10, 0, 0)}
	day := accumulateDay(seg, normalDay(), false, rate100(), DefaultOptions(), decimal.Zero)

	if !day.HoursWorked.Equal(d("8")) {
		t.Errorf("hours worked: want 8, got %s", day.HoursWorked)
	}
	if !day.OvertimeHours.Equal(d("0.5")) {
		t.Errorf("overtime hours: want 0.5, got %s", day.OvertimeHours)
	}

	// The 16:00-17:00 interval must appear as two buckets split at 16:30.
	var sawSplit bool
	for _, bk := range day.DetailedHourBreakdown {
		if bk.Start.Equal(at(10, 16, 30)) && bk.Overtime {
			sawSplit = true
		}
	}
	if !sawSplit {
		t.Error("expected an overtime bucket starting at the 16:30 cap crossing")
	}
}

func TestAccumulateDay_PriorHoursSeedConsumesCap(t *testing.T) {
	// GIVEN: 6 prior hours already worked on the date
	// WHEN: Accumulating a 4-hour segment
	// THEN: Only 2 hours are regular, the rest is overtime

	day := accumulateDay(segFor(13, 17), normalDay(), false, rate100(), DefaultOptions(), d("6"))

	if !day.HoursWorked.Equal(d("2")) {
		t.Errorf("hours worked: want 2, got %s", day.HoursWorked)
	}
	if !day.OvertimeHours.Equal(d("2")) {
		t.Errorf("overtime hours: want 2, got %s", day.OvertimeHours)
	}
}

// =============================================================================
// PREMIUM DECOMPOSITION
// =============================================================================

func TestAccumulateDay_PremiumsSumToTotal(t *testing.T) {
	// GIVEN: The worst overlap: regular holiday, rest day, overtime and night
	//        hours in one segment (16:00-02:00 crosses cap at 24:00-wards)
	// WHEN: Accumulating the first date's 16:00-24:00 portion with 2h prior
	// THEN: base + holiday + rest + OT + night premiums == total, exactly

	seg := daySegment{Start: at(10, 16, 0), End: at(11, 0, 0), Date: at(10, 0, 0)}
	res := Resolution{Class: HolidayRegular, Name: "Test Holiday"}

	day := accumulateDay(seg, res, true, rate100(), DefaultOptions(), d("2"))

	sum := day.BasePay.
		Add(day.HolidayPremium).
		Add(day.RestDayPremium).
		Add(day.OvertimePay).
		Add(day.NightDiffPremium)
	if !sum.Equal(day.TotalForDate) {
		t.Errorf("premium decomposition: components sum to %s, total is %s", sum, day.TotalForDate)
	}

	var bucketSum decimal.Decimal
	for _, bk := range day.DetailedHourBreakdown {
		bucketSum = bucketSum.Add(bk.Pay)
	}
	if !bucketSum.Equal(day.TotalForDate) {
		t.Errorf("buckets sum to %s, total is %s", bucketSum, day.TotalForDate)
	}
}

func TestAccumulateDay_HolidayAndRestPremiumsDoNotDoubleCount(t *testing.T) {
	// GIVEN: An 8-hour shift on a regular holiday that is also a rest day
	// WHEN: Accumulating
	// THEN: Holiday premium covers 2.0-1.0, rest premium only the 2.6-2.0
	//       margin above the holiday rate

	day := accumulateDay(segFor(8, 16), Resolution{Class: HolidayRegular}, true, rate100(), DefaultOptions(), decimal.Zero)

	if !day.HolidayPremium.Equal(d("800")) {
		t.Errorf("holiday premium: want 800, got %s", day.HolidayPremium)
	}
	if !day.RestDayPremium.Equal(d("480")) {
		t.Errorf("rest day premium: want 480, got %s", day.RestDayPremium)
	}
	if !day.TotalForDate.Equal(d("2080")) {
		t.Errorf("total: want 2080 (8 x 100 x 2.6), got %s", day.TotalForDate)
	}
}

func TestAccumulateDay_NightPremiumPortionOnly(t *testing.T) {
	// GIVEN: A 22:00-24:00 night segment on a normal day
	// WHEN: Accumulating
	// THEN: Night premium is the 10% portion only

	seg := daySegment{Start: at(10, 22, 0), End: at(11, 0, 0), Date: at(10, 0, 0)}
	day := accumulateDay(seg, normalDay(), false, rate100(), DefaultOptions(), decimal.Zero)

	if !day.NightHours.Equal(d("2")) {
		t.Errorf("night hours: want 2, got %s", day.NightHours)
	}
	if !day.NightDiffPremium.Equal(d("20")) {
		t.Errorf("night premium: want 20, got %s", day.NightDiffPremium)
	}
	if !day.TotalForDate.Equal(d("220")) {
		t.Errorf("total: want 220, got %s", day.TotalForDate)
	}
}

// =============================================================================
// BUCKET INVARIANTS
// =============================================================================

func TestAccumulateDay_BucketsTileTheSegment(t *testing.T) {
	seg := daySegment{Start: at(10, 7, 20), End: at(10, 19, 45), Date: at(10, 0, 0)}
	day := accumulateDay(seg, normalDay(), false, rate100(), DefaultOptions(), decimal.Zero)

	var total decimal.Decimal
	for _, bk := range day.DetailedHourBreakdown {
		total = total.Add(bk.Hours)
	}
	want := hoursBetween(seg.Start, seg.End)
	if !total.Equal(want) {
		t.Errorf("bucket hours sum to %s, segment is %s", total, want)
	}

	worked := day.HoursWorked.Add(day.OvertimeHours)
	if !worked.Equal(want) {
		t.Errorf("hoursWorked+overtime = %s, segment is %s", worked, want)
	}
}

func TestAccumulateDay_Idempotent(t *testing.T) {
	// GIVEN: Identical inputs
	// WHEN: Computing twice
	// THEN: Outputs are identical

	seg := daySegment{Start: at(10, 6, 0), End: at(10, 23, 0), Date: at(10, 0, 0)}
	a := accumulateDay(seg, Resolution{Class: HolidaySpecialNonWorking}, true, rate100(), DefaultOptions(), decimal.Zero)
	b := accumulateDay(seg, Resolution{Class: HolidaySpecialNonWorking}, true, rate100(), DefaultOptions(), decimal.Zero)

	if !a.TotalForDate.Equal(b.TotalForDate) || len(a.DetailedHourBreakdown) != len(b.DetailedHourBreakdown) {
		t.Error("repeated computation diverged")
	}
	for i := range a.DetailedHourBreakdown {
		if !a.DetailedHourBreakdown[i].Pay.Equal(b.DetailedHourBreakdown[i].Pay) {
			t.Errorf("bucket %d pay diverged", i)
		}
	}
}
