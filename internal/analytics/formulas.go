package analytics

import "math"

// AvgOrderValue is the assumed revenue per conversion, in currency
// units, used for ROI estimation. It is a fixed modelling assumption,
// not derived from real order data.
const AvgOrderValue = 100.0

// Round2 rounds to 2 decimal places, half up. Applied once at
// finalization, never at intermediate steps.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CTR is the click-through rate in percent.
func CTR(impressions, clicks int64) float64 {
	if impressions <= 0 {
		return 0
	}
	return float64(clicks) / float64(impressions) * 100
}

// ConversionRate is conversions per click in percent.
func ConversionRate(clicks, conversions int64) float64 {
	if clicks <= 0 {
		return 0
	}
	return float64(conversions) / float64(clicks) * 100
}

// CPC is the effective cost per click.
func CPC(clicks int64, cost float64) float64 {
	if clicks <= 0 {
		return 0
	}
	return cost / float64(clicks)
}

// CPA is the effective cost per conversion.
func CPA(conversions int64, cost float64) float64 {
	if conversions <= 0 {
		return 0
	}
	return cost / float64(conversions)
}

// ROI estimates return on investment in percent, valuing each
// conversion at AvgOrderValue.
func ROI(cost float64, conversions int64) float64 {
	if cost <= 0 {
		return 0
	}
	return (float64(conversions)*AvgOrderValue - cost) / cost * 100
}
