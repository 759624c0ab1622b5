package weather

import (
	"github.com/Neerajpokala/NextWeather/internal/nws"
)

// DefaultOutlookDays is the number of days DailyOutlook returns by default.
const DefaultOutlookDays = 5

// DailyOutlook combines daytime and nighttime forecast periods into one entry
// per day: the daytime temperature is the high, the following night's the
// low, and the precipitation chance is the larger of the two. A forecast that
// starts at night yields a first day with only a low.
func DailyOutlook(f *nws.Forecast, days int) []DayOutlook {
	if f == nil {
		return nil
	}
	if days <= 0 {
		days = DefaultOutlookDays
	}

	out := make([]DayOutlook, 0, days)
	periods := f.Periods
	for i := 0; i < len(periods) && len(out) < days; i++ {
		p := periods[i]
		d := DayOutlook{
			Name:          p.Name,
			Date:          p.StartTime.Format("2006-01-02"),
			Unit:          p.TemperatureUnit,
			ShortForecast: p.ShortForecast,
			Condition:     ConditionFor(p.ShortForecast),
		}
		d.PrecipChance = maxQuantity(d.PrecipChance, p.ProbabilityOfPrecipitation)

		temp := p.Temperature
		if !p.IsDaytime {
			d.Low = &temp
			out = append(out, d)
			continue
		}
		d.High = &temp

		if i+1 < len(periods) && !periods[i+1].IsDaytime {
			night := periods[i+1]
			low := night.Temperature
			d.Low = &low
			d.PrecipChance = maxQuantity(d.PrecipChance, night.ProbabilityOfPrecipitation)
			i++
		}
		out = append(out, d)
	}
	return out
}

func maxQuantity(cur *float64, q nws.Quantity) *float64 {
	v, ok := q.Number()
	if !ok {
		return cur
	}
	if cur == nil || v > *cur {
		return &v
	}
	return cur
}
