// Package ingest adapts loosely typed tabular input into revision requests.
package ingest

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/JRocha1994/archi-track/internal/caldate"
)

// DateInput is one recognised raw date encoding. The set of variants is closed:
// ISODate, DayMonthYear, SerialDate, NativeDate and Unparsable.
type DateInput interface {
	normalize() (caldate.Date, bool)
}

// ISODate is a yyyy-mm-dd string, optionally followed by a time part.
type ISODate string

// DayMonthYear is a dd/mm/yyyy string.
type DayMonthYear string

// SerialDate is a spreadsheet day count where day 0 is 1899-12-30. Fractions
// are a time of day and are dropped.
type SerialDate float64

// NativeDate is an already decoded timestamp. Its calendar day in its own
// location is used.
type NativeDate time.Time

// Unparsable is anything else.
type Unparsable struct {
	Raw any
}

var serialEpoch = caldate.New(1899, time.December, 30)

// maxSerial is 9999-12-31.
const maxSerial = 2958465

func (v ISODate) normalize() (caldate.Date, bool) {
	s := string(v)
	if len(s) > len(caldate.Layout) {
		s = s[:len(caldate.Layout)]
	}
	d, err := caldate.Parse(s)
	return d, err == nil
}

func (v DayMonthYear) normalize() (caldate.Date, bool) {
	t, err := time.Parse("2/1/2006", string(v))
	if err != nil {
		return caldate.Date{}, false
	}
	return caldate.Of(t), true
}

func (v SerialDate) normalize() (caldate.Date, bool) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 1 || f > maxSerial {
		return caldate.Date{}, false
	}
	return serialEpoch.AddDays(int(math.Floor(f))), true
}

func (v NativeDate) normalize() (caldate.Date, bool) {
	t := time.Time(v)
	if t.IsZero() {
		return caldate.Date{}, false
	}
	return caldate.Of(t), true
}

func (Unparsable) normalize() (caldate.Date, bool) {
	return caldate.Date{}, false
}

var (
	isoPattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ].*)?$`)
	dmyPattern    = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
	serialPattern = regexp.MustCompile(`^\d+([.,]\d+)?$`)
)

// Classify maps a raw cell value onto its date encoding.
func Classify(raw any) DateInput {
	switch v := raw.(type) {
	case nil:
		return Unparsable{}
	case DateInput:
		return v
	case time.Time:
		return NativeDate(v)
	case *time.Time:
		if v == nil {
			return Unparsable{}
		}
		return NativeDate(*v)
	case caldate.Date:
		if v.IsZero() {
			return Unparsable{Raw: raw}
		}
		return NativeDate(v.Time())
	case int:
		return SerialDate(v)
	case int64:
		return SerialDate(v)
	case float32:
		return SerialDate(v)
	case float64:
		return SerialDate(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Unparsable{Raw: raw}
		}
		return SerialDate(f)
	case string:
		return classifyString(v)
	}
	return Unparsable{Raw: raw}
}

func classifyString(raw string) DateInput {
	s := strings.TrimSpace(raw)
	switch {
	case isoPattern.MatchString(s):
		return ISODate(s)
	case dmyPattern.MatchString(s):
		return DayMonthYear(s)
	case serialPattern.MatchString(s):
		f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		if err != nil {
			return Unparsable{Raw: raw}
		}
		return SerialDate(f)
	}
	return Unparsable{Raw: raw}
}

// Normalize returns the calendar day of in, false when it doesn't hold a valid date.
func Normalize(in DateInput) (caldate.Date, bool) {
	if in == nil {
		return caldate.Date{}, false
	}
	return in.normalize()
}

// NormalizeDate converts any recognised raw value to yyyy-mm-dd, "" when the
// value isn't a valid date.
func NormalizeDate(raw any) string {
	d, ok := Normalize(Classify(raw))
	if !ok {
		return ""
	}
	return d.String()
}
