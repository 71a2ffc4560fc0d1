// Copyright (c) 2024 Neomantra Corp

package dbn

import (
	"bytes"
	"time"

	"github.com/neomantra/ymdflag"
)

// FIXED_PRICE_SCALE is the denominator of fixed prices in DBN: every integer
// price unit is 1e-9 of the display currency.
const FIXED_PRICE_SCALE float64 = 1000000000.0

func Fixed9ToFloat64(fixed int64) float64 {
	return float64(fixed) / FIXED_PRICE_SCALE
}

func Float64ToFixed9(f float64) int64 {
	return int64(f * FIXED_PRICE_SCALE)
}

// TrimNullBytes removes trailing nulls from a byte slice and returns a string.
func TrimNullBytes(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}

// TimestampToSecNanos converts a DBN timestamp to seconds and nanoseconds.
func TimestampToSecNanos(dbnTimestamp uint64) (int64, int64) {
	secs := int64(dbnTimestamp / 1e9)
	nano := int64(dbnTimestamp) - int64(secs*1e9)
	return secs, nano
}

// TimestampToTime converts a DBN timestamp to time.Time in UTC.
func TimestampToTime(dbnTimestamp uint64) time.Time {
	secs := int64(dbnTimestamp / 1e9)
	nano := int64(dbnTimestamp) - int64(secs*1e9)
	return time.Unix(secs, nano).UTC()
}

// TimeToYMD returns the YYYYMMDD for the time.Time in that Time's location.
// A zero time returns a 0 value. Delegates to ymdflag for the actual packing
// so the bucket arithmetic used by the symbol index and time splitter shares
// one implementation.
func TimeToYMD(t time.Time) uint32 {
	if t.IsZero() {
		return 0
	}
	return ymdflag.TimeToYMD(t)
}

// YMDToTime unpacks a YYYYMMDD date back into a time.Time at midnight UTC.
// Returns the zero time for a 0 input. Only safe for dates already known to
// be valid (e.g. a computed bucket boundary); wire data must instead go
// through decodeISO8601, since time.Date silently normalizes an
// out-of-range month or day instead of erroring.
func YMDToTime(ymd uint32) time.Time {
	if ymd == 0 {
		return time.Time{}
	}
	year := int(ymd / 10000)
	month := time.Month((ymd / 100) % 100)
	day := int(ymd % 100)
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// decodeISO8601 unpacks a wire YYYYMMDD date, rejecting any value that does
// not name a valid Gregorian calendar date. This is the decode-path entry
// point for dates read off the wire (mapping interval bounds): a month of
// 13 or a day of 32 must fail decode rather than be normalized forward the
// way time.Date would.
func decodeISO8601(ymd uint32) (time.Time, error) {
	year := int(ymd / 10000)
	month := int((ymd / 100) % 100)
	day := int(ymd % 100)

	if month < 1 || month > 12 {
		return time.Time{}, newDecodeErrorf("invalid date %08d: month %d out of range", ymd, month)
	}
	if day < 1 || day > daysInMonth(year, month) {
		return time.Time{}, newDecodeErrorf("invalid date %08d: day %d out of range", ymd, day)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

func daysInMonth(year, month int) int {
	switch time.Month(month) {
	case time.January, time.March, time.May, time.July, time.August, time.October, time.December:
		return 31
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
