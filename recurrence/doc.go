/*
Package recurrence models a time interval repeated at a fixed calendar cadence.

# Basic Usage

	s, err := recurrence.New(recurrence.Config{
		Start:     time.Date(2018, 3, 6, 12, 0, 0, 0, time.UTC),
		End:       time.Date(2018, 3, 6, 20, 0, 0, 0, time.UTC),
		Frequency: 3,
		Unit:      recurrence.Week,
		Ends:      recurrence.AfterCount{N: 5},
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, occ := range s.Next(10) { // five occurrences
		fmt.Println(occ)
	}
	s.IsValid(time.Now())

# Cadence

Day and week steps keep the wall-clock time of the start. Month and year
steps follow the calendar and clamp to the last day of shorter months: a
series starting on January 31 continues on the last day of February, then on
March 31. Every occurrence lasts exactly End - Start.

# Termination

Ends is one of Never, AfterCount or OnDate. The expiry instant is the start of
occurrence N for AfterCount{N}, or the date itself for OnDate; anything at or
after it is expired.

# Membership

IsValid does not enumerate. It binary searches the occurrence index in
[0, SearchCeiling) for the last occurrence starting at or before the instant and
checks that occurrence's window. Instants at or after Horizon are never valid;
New rejects bounded series that would end past it.

# iCalendar

A Series can be exported as a VEVENT with an RRULE (ToEvent, EncodeICS), and
ConfigFromComponent / DecodeICS read simple DAILY, WEEKLY, MONTHLY and YEARLY
rules back. BY* rule parts and sub-daily frequencies are rejected.
*/
package recurrence
