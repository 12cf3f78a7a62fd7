package dateutil

import "cloud.google.com/go/civil"

// FromCivil converts a civil.Date.
func FromCivil(cd civil.Date) Date {
	return Date{Year: int64(cd.Year), Month: cd.Month, Day: cd.Day}
}

// Civil returns d as a civil.Date, for use with APIs (BigQuery, Spanner,
// Datastore) that exchange dates in that form.
func (d Date) Civil() civil.Date {
	return civil.Date{Year: int(d.Year), Month: d.Month, Day: d.Day}
}

// CivilToDays returns the day offset of a civil.Date.
func CivilToDays(cd civil.Date) int64 {
	return DateToDays(FromCivil(cd))
}

// DaysToCivil converts a day offset directly into a civil.Date.
func DaysToCivil(days int64) civil.Date {
	return DaysToDate(days).Civil()
}
