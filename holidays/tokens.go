package holidays

import "strings"

// aliases maps TransXChange non-operation tokens to the titles used by
// the national dataset. The apostrophe in New Year’s Day is the real
// one from gov.uk, not ASCII.
var aliases = map[string]string{
	"SpringBank":                       "Spring bank holiday",
	"LateSummerBankHolidayNotScotland": "Summer bank holiday",
	"MayDay":                           "Early May bank holiday",
	"GoodFriday":                       "Good Friday",
	"EasterMonday":                     "Easter Monday",
	"BoxingDay":                        "Boxing Day",
	"ChristmasDay":                     "Christmas Day",
	"NewYearsDay":                      "New Year’s Day",
	"BoxingDayHoliday":                 "Boxing Day",
	"ChristmasDayHoliday":              "Christmas Day",
	"NewYearsDayHoliday":               "New Year’s Day",
}

// Recognized reports whether a non-operation token is one the resolver
// understands: an aliased holiday, the catch-all AllBankHolidays, or an
// Eve-suffixed token (eves are not bank holidays and never materialize
// as exception dates, but they are legitimate source vocabulary).
func Recognized(token string) bool {
	if _, ok := aliases[token]; ok {
		return true
	}
	return token == "AllBankHolidays" || strings.HasSuffix(token, "Eve")
}

// TitleFor returns the dataset title an aliased token names. The
// catch-all and Eve tokens have no title of their own.
func TitleFor(token string) (string, bool) {
	title, ok := aliases[token]
	return title, ok
}
