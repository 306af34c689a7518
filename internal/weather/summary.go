package weather

import (
	"sort"
	"time"
)

const (
	dateKeyLayout = "2006-01-02"
	labelLayout   = "Mon, Jan 2"
)

// dayAggregate accumulates the forecast points of one local day.
type dayAggregate struct {
	min    float64
	max    float64
	counts map[string]int
	order  []string
	popMax float64
}

func (d *dayAggregate) add(lo, hi float64, desc string, pop float64) {
	d.min = min(d.min, lo)
	d.max = max(d.max, hi)
	d.popMax = max(d.popMax, pop)

	if _, seen := d.counts[desc]; !seen {
		d.order = append(d.order, desc)
	}
	d.counts[desc]++
}

// dominant returns the most frequent description, preferring the one seen
// first on ties.
func (d *dayAggregate) dominant() string {
	best, bestCount := "", 0
	for _, desc := range d.order {
		if n := d.counts[desc]; n > bestCount {
			best, bestCount = desc, n
		}
	}
	return best
}

// LocalDate returns the YYYY-MM-DD date of t shifted by a fixed UTC offset.
// Daylight saving changes inside the window are not modelled.
func LocalDate(t time.Time, tzOffsetSeconds int) string {
	return time.Unix(t.Unix()+int64(tzOffsetSeconds), 0).UTC().Format(dateKeyLayout)
}

// DayLabel formats a YYYY-MM-DD key as "Mon, Jan 5". Keys that do not parse
// are returned unchanged.
func DayLabel(date string) string {
	d, err := time.Parse(dateKeyLayout, date)
	if err != nil {
		return date
	}
	return d.Format(labelLayout)
}

// Summarize buckets forecast points by local calendar day and returns up to
// days summaries in chronological order. Today's bucket, as seen at now, is
// dropped whenever any other day has data. Points without a usable minimum
// and maximum temperature are skipped.
func Summarize(points []ForecastPoint, tzOffsetSeconds, days int, now time.Time) []DaySummary {
	buckets := make(map[string]*dayAggregate)

	for _, p := range points {
		lo, hi := p.TempMin, p.TempMax
		if lo == nil {
			lo = p.Temp
		}
		if hi == nil {
			hi = p.Temp
		}
		if lo == nil || hi == nil {
			continue
		}

		var pop float64
		if p.Pop != nil {
			pop = *p.Pop
		}

		key := LocalDate(p.Time, tzOffsetSeconds)
		agg, ok := buckets[key]
		if !ok {
			agg = &dayAggregate{min: *lo, max: *hi, counts: make(map[string]int)}
			buckets[key] = agg
		}
		agg.add(*lo, *hi, p.Description, pop)
	}

	today := LocalDate(now, tzOffsetSeconds)
	if _, ok := buckets[today]; ok && len(buckets) > 1 {
		delete(buckets, today)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if days < 0 {
		days = 0
	}
	if len(keys) > days {
		keys = keys[:days]
	}

	summaries := make([]DaySummary, 0, len(keys))
	for _, k := range keys {
		agg := buckets[k]
		summaries = append(summaries, DaySummary{
			Date:        k,
			Label:       DayLabel(k),
			Min:         agg.min,
			Max:         agg.max,
			Description: agg.dominant(),
			Pop:         agg.popMax,
		})
	}

	return summaries
}
