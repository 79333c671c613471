package logic

import "time"

// Field is one editable component of the clock draft.
type Field int

const (
	FieldYear Field = iota
	FieldMonth
	FieldDay
	FieldHour
	FieldMinute
	FieldSecond
	numFields
)

// EpochYear is the calendar year of year offset 0.
const EpochYear = 1970

var fieldNames = [numFields]string{"Year", "Month", "Day", "Hour", "Minute", "Second"}

// fieldBounds holds the inclusive [min, max] of each field.
var fieldBounds = [numFields][2]int{
	FieldYear:   {0, 98},
	FieldMonth:  {1, 12},
	FieldDay:    {1, 31},
	FieldHour:   {0, 23},
	FieldMinute: {0, 59},
	FieldSecond: {0, 59},
}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return "Unknown"
	}
	return fieldNames[f]
}

// Next returns the following field, wrapping from second back to year.
func (f Field) Next() Field {
	return (f + 1) % numFields
}

// Bounds returns the inclusive valid range of the field.
func (f Field) Bounds() (lo, hi int) {
	b := fieldBounds[f]
	return b[0], b[1]
}

// Draft is the uncommitted clock value being edited in Timeset mode.
// Day of month is not checked against the month length.
type Draft struct {
	values  [numFields]int
	Current Field
}

// BeginEditing seeds a draft from the wall clock with the year field selected.
// Years outside the editable range are clamped to it.
func BeginEditing(now time.Time) *Draft {
	d := &Draft{Current: FieldYear}
	d.values[FieldYear] = clamp(now.Year()-EpochYear, FieldYear)
	d.values[FieldMonth] = int(now.Month())
	d.values[FieldDay] = now.Day()
	d.values[FieldHour] = now.Hour()
	d.values[FieldMinute] = now.Minute()
	d.values[FieldSecond] = now.Second()
	return d
}

// Value returns the current value of a field. Year is the offset from EpochYear.
func (d *Draft) Value(f Field) int {
	return d.values[f]
}

// AdvanceField selects the next field in the cycle.
func (d *Draft) AdvanceField() {
	d.Current = d.Current.Next()
}

// Increment raises the selected field by one. At the upper bound it is a no-op.
func (d *Draft) Increment() {
	d.adjust(1)
}

// Decrement lowers the selected field by one. At the lower bound it is a no-op.
func (d *Draft) Decrement() {
	d.adjust(-1)
}

func (d *Draft) adjust(delta int) {
	d.values[d.Current] = clamp(d.values[d.Current]+delta, d.Current)
}

// Commit converts the draft into a wall-clock value in loc. An invalid day
// such as 31 February is normalized by time.Date into the following month.
func (d *Draft) Commit(loc *time.Location) time.Time {
	return time.Date(
		EpochYear+d.values[FieldYear],
		time.Month(d.values[FieldMonth]),
		d.values[FieldDay],
		d.values[FieldHour],
		d.values[FieldMinute],
		d.values[FieldSecond],
		0, loc)
}

func clamp(v int, f Field) int {
	lo, hi := f.Bounds()
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
