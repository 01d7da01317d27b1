// Package core holds the domain model and the pure bonus and hours
// calculations shared by reports, exports, and the dashboard.
package core

import "math"

// Round2 rounds to two decimals (currency scale), half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateBonus computes the bonus amount for a split of remote and
// onsite hours. A nil hourly rate counts as zero; a nil onsite rate
// inherits the remote rate. The result is rounded to two decimals and
// the computation never fails: zero hours, a zero bonus rate, or absent
// rates all yield 0.
func CalculateBonus(remoteHours, onsiteHours float64, hourlyRate, onsiteRate *float64, bonusRate float64) float64 {
	rate := 0.0
	if hourlyRate != nil {
		rate = *hourlyRate
	}
	onsite := rate
	if onsiteRate != nil {
		onsite = *onsiteRate
	}
	return Round2(remoteHours*rate*bonusRate + onsiteHours*onsite*bonusRate)
}

// Revenue computes billed value for a split of hours using the same
// rate fallback rules as CalculateBonus, without the bonus fraction.
func Revenue(remoteHours, onsiteHours float64, hourlyRate, onsiteRate *float64) float64 {
	rate := 0.0
	if hourlyRate != nil {
		rate = *hourlyRate
	}
	onsite := rate
	if onsiteRate != nil {
		onsite = *onsiteRate
	}
	return remoteHours*rate + onsiteHours*onsite
}

// BonusForProject is a convenience wrapper applying a project's billing
// configuration to an hours split.
func BonusForProject(p Project, h HoursSplit) float64 {
	return CalculateBonus(h.Remote, h.Onsite, p.HourlyRate, p.OnsiteRate, p.BonusRate)
}

// RevenueForProject applies a project's rates to an hours split.
func RevenueForProject(p Project, h HoursSplit) float64 {
	return Revenue(h.Remote, h.Onsite, p.HourlyRate, p.OnsiteRate)
}
