package checkout

import (
	"errors"
	"time"

	"oakmart-be/internal/qualpay"
)

// ErrMinimumWeekly is returned for day-based cycles shorter than a week;
// the provider cannot bill more often than weekly.
var ErrMinimumWeekly = errors.New("recurring billing supports payments with the minimum frequency of once a week")

// schedule is the provider-vocabulary form of a recurring cycle.
type schedule struct {
	Frequency *qualpay.PlanFrequency
	Interval  *int
	StartDate time.Time
}

func frequencyPtr(f qualpay.PlanFrequency) *qualpay.PlanFrequency { return &f }
func intervalPtr(i int) *int                                      { return &i }

// buildSchedule maps an internal cycle description onto the provider's
// billing-frequency vocabulary.
//
// Day cycles that divide evenly into months bill monthly; other day cycles
// bill weekly and must be at least a week long. Twelve months and one year
// both collapse to an annual plan; longer year cycles are expressed as
// monthly plans with a year-multiple interval.
func buildSchedule(period CyclePeriod, length int, now time.Time) (schedule, error) {
	switch period {
	case PeriodDays:
		if length%30 == 0 || length%31 == 0 {
			return schedule{
				Frequency: frequencyPtr(qualpay.FrequencyMonthly),
				Interval:  intervalPtr(length / 30),
				StartDate: now.AddDate(0, 0, length),
			}, nil
		}
		if length < 7 {
			return schedule{}, ErrMinimumWeekly
		}
		return schedule{
			Frequency: frequencyPtr(qualpay.FrequencyWeekly),
			Interval:  intervalPtr(length / 7),
			StartDate: now.AddDate(0, 0, length),
		}, nil

	case PeriodWeeks:
		return schedule{
			Frequency: frequencyPtr(qualpay.FrequencyWeekly),
			Interval:  intervalPtr(length),
			StartDate: now.AddDate(0, 0, length*7),
		}, nil

	case PeriodMonths:
		if length == 12 {
			return schedule{
				Frequency: frequencyPtr(qualpay.FrequencyAnnual),
				StartDate: now.AddDate(1, 0, 0),
			}, nil
		}
		return schedule{
			Frequency: frequencyPtr(qualpay.FrequencyMonthly),
			Interval:  intervalPtr(length),
			StartDate: now.AddDate(0, length, 0),
		}, nil

	case PeriodYears:
		if length == 1 {
			return schedule{
				Frequency: frequencyPtr(qualpay.FrequencyAnnual),
				StartDate: now.AddDate(1, 0, 0),
			}, nil
		}
		return schedule{
			Frequency: frequencyPtr(qualpay.FrequencyMonthly),
			Interval:  intervalPtr(length * 12),
			StartDate: now.AddDate(length, 0, 0),
		}, nil
	}

	return schedule{StartDate: now}, nil
}
