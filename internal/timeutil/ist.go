package timeutil

import "time"

// IST is Asia/Kolkata. ERP dates and report stamps are rendered in it.
var IST = loadIST()

func loadIST() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

// StartOfMonth returns 00:00 IST on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.In(IST).Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, IST)
}

func FormatIST(t time.Time, layout string) string {
	return t.In(IST).Format(layout)
}

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
