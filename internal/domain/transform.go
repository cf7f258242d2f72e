package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	// NotAvailable replaces any optional text field that is missing or falsy.
	NotAvailable = "N/A"

	// InvalidDate is the date portion used when INCIDENT DATE is neither a
	// serial number nor text.
	InvalidDate = "Invalid Date"

	// MissingTime stands in for an absent INCIDENT TIME cell.
	MissingTime = NotAvailable

	// serialEpochOffset is the day count between the spreadsheet epoch
	// (1899-12-30) and the Unix epoch.
	serialEpochOffset = 25569
	secondsPerDay     = 86400

	// maxTimestampMillis bounds representable instants to ±100,000,000 days
	// around the Unix epoch.
	maxTimestampMillis = 8.64e15
)

// leadingFloatRe matches the longest decimal prefix of a coordinate string,
// e.g. "6.5abc" -> "6.5".
var leadingFloatRe = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// NormalizeRows converts decoded rows into incidents, preserving order and
// dropping rows whose coordinates do not parse.
func NormalizeRows(rows []RawRow) []Incident {
	out := make([]Incident, 0, len(rows))
	for _, row := range rows {
		if inc, ok := NormalizeRow(row); ok {
			out = append(out, inc)
		}
	}
	return out
}

// NormalizeRow builds an Incident from a single row. It returns false when
// LATITUDE or LONGITUDE is missing, non-numeric or non-finite; no other
// condition rejects a row.
func NormalizeRow(row RawRow) (Incident, bool) {
	lat, ok := parseCoordinate(row.Get(ColLatitude))
	if !ok {
		return Incident{}, false
	}
	lon, ok := parseCoordinate(row.Get(ColLongitude))
	if !ok {
		return Incident{}, false
	}

	return Incident{
		Title:       textOrDefault(row.Get(ColCategory)),
		Description: textOrDefault(row.Get(ColDescription)),
		Time:        composeTime(row.Get(ColDate), row.Get(ColTime)),
		Lat:         lat,
		Lon:         lon,
		County:      textOrDefault(row.Get(ColCounty)),
		Actor:       textOrDefault(row.Get(ColActors)),
	}, true
}

// parseCoordinate reads a finite float from a number cell, or from the
// leading decimal prefix of a text cell after leading whitespace.
func parseCoordinate(c Cell) (float64, bool) {
	var v float64
	switch c.Kind() {
	case KindNumber:
		v, _ = c.Float()
	case KindText:
		s, _ := c.Str()
		prefix := leadingFloatRe.FindString(strings.TrimLeftFunc(s, unicode.IsSpace))
		if prefix == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(prefix, 64)
		if err != nil {
			return 0, false
		}
		v = parsed
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// composeTime joins the date portion and the verbatim time-of-day cell.
func composeTime(date, tod Cell) string {
	timePart := MissingTime
	if tod.Kind() != KindAbsent {
		timePart = tod.String()
	}
	return datePortion(date) + " " + timePart
}

// datePortion resolves INCIDENT DATE: serials become YYYY-MM-DD, text passes
// through untouched, anything else is InvalidDate.
func datePortion(c Cell) string {
	switch c.Kind() {
	case KindNumber:
		v, _ := c.Float()
		return SerialToDate(v)
	case KindText:
		s, _ := c.Str()
		return s
	default:
		return InvalidDate
	}
}

// SerialToDate converts a spreadsheet date serial to a UTC calendar date.
// 44197 -> "2021-01-01". The instant is rounded to the nearest millisecond
// before truncating to the day.
func SerialToDate(serial float64) string {
	ms := math.Floor((serial-serialEpochOffset)*secondsPerDay*1000 + 0.5)
	if math.IsNaN(ms) || math.Abs(ms) > maxTimestampMillis {
		return InvalidDate
	}
	return time.UnixMilli(int64(ms)).UTC().Format(time.DateOnly)
}

func textOrDefault(c Cell) string {
	if c.Falsy() {
		return NotAvailable
	}
	return c.String()
}
