package record

import (
	"fmt"
	"strconv"
	"strings"
)

// Header is the first line of every log file, written exactly once at
// creation. The trailing space before CRLF is part of the format.
const Header = "Reading ID, Date, Hour, Temperature \r\n"

// Record is one persisted temperature reading.
type Record struct {
	Sequence int64
	Date     string // YYYY-MM-DD
	Hour     string // HH:MM:SS
	TempC    float64
}

// Line renders the record as one CSV line terminated by CRLF.
// Date and Hour come from a constrained ISO-8601 split and can never
// contain a comma, so no escaping is done.
func (r Record) Line() string {
	return fmt.Sprintf("%d,%s,%s,%s\r\n", r.Sequence, r.Date, r.Hour, FormatTemp(r.TempC))
}

// FormatTemp renders a Celsius value in its shortest exact decimal form.
func FormatTemp(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SplitTimestamp splits a combined ISO-8601 timestamp such as
// "2018-05-28T16:00:13Z" into its date and time-of-day parts, stripping
// the trailing zone designator from the time.
func SplitTimestamp(ts string) (date, hour string, err error) {
	i := strings.IndexByte(ts, 'T')
	if i < 0 {
		return "", "", fmt.Errorf("timestamp %q has no T separator", ts)
	}
	date = ts[:i]
	hour = ts[i+1:]
	if len(hour) > 0 && (hour[len(hour)-1] == 'Z' || hour[len(hour)-1] == 'z') {
		hour = hour[:len(hour)-1]
	}
	if date == "" || hour == "" {
		return "", "", fmt.Errorf("timestamp %q missing date or time", ts)
	}
	return date, hour, nil
}
