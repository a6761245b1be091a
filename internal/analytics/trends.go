package analytics

// TrendDeltas holds the percentage change per metric between the first
// and second half of a time-ordered grouped series.
type TrendDeltas struct {
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	Conversions float64 `json:"conversions"`
	Cost        float64 `json:"cost"`
	ROI         float64 `json:"roi"`
}

// Trends splits a grouped series at the midpoint index and compares the
// two halves. Input must already be sorted ascending by bucket date.
// Fewer than 2 records yields all-zero deltas.
//
// Impressions, clicks, conversions and cost compare the plain sums of
// each half. ROI instead compares each half's summed per-record roi
// divided by that half's record count. The asymmetry matches the
// historical report output and is covered by tests; changing it changes
// every stored trend comparison.
func Trends(records []GroupedRecord) TrendDeltas {
	if len(records) < 2 {
		return TrendDeltas{}
	}

	mid := len(records) / 2
	first := halfTotals(records[:mid])
	second := halfTotals(records[mid:])

	return TrendDeltas{
		Impressions: Round2(percentChange(first.impressions, second.impressions)),
		Clicks:      Round2(percentChange(first.clicks, second.clicks)),
		Conversions: Round2(percentChange(first.conversions, second.conversions)),
		Cost:        Round2(percentChange(first.cost, second.cost)),
		ROI:         Round2(percentChange(first.roi/float64(first.n), second.roi/float64(second.n))),
	}
}

type halfSums struct {
	impressions float64
	clicks      float64
	conversions float64
	cost        float64
	roi         float64
	n           int
}

func halfTotals(records []GroupedRecord) halfSums {
	h := halfSums{n: len(records)}
	for i := range records {
		h.impressions += float64(records[i].Impressions)
		h.clicks += float64(records[i].Clicks)
		h.conversions += float64(records[i].Conversions)
		h.cost += records[i].Cost
		h.roi += records[i].ROI
	}
	return h
}

func percentChange(first, second float64) float64 {
	if first == 0 {
		if second > 0 {
			return 100
		}
		return 0
	}
	return (second - first) / first * 100
}
