package control

import "github.com/gr-butler/cornfield/env"

// Rule identifies which threshold rule produced a decision.
type Rule int

const (
	RuleNominal   Rule = iota // everything in range, relay off
	RuleSaturated             // soil is wet enough, relay off whatever else is wrong
	RuleDeficient             // at least one condition out of range, relay on
)

func (r Rule) String() string {
	switch r {
	case RuleSaturated:
		return "saturated"
	case RuleDeficient:
		return "deficient"
	default:
		return "nominal"
	}
}

// Irrigate reports whether the rule turns the relay on.
func (r Rule) Irrigate() bool {
	return r == RuleDeficient
}

// Classify applies the threshold rules in order, the first match wins.
// Unknown humidity takes part in neither humidity comparison, so it only
// irrigates when a nutrient or the pH is also out of range.
func Classify(s Snapshot) Rule {
	if s.HumidityKnown() && s.Humidity >= env.HumiditySaturated {
		return RuleSaturated
	}
	if !s.PhosphorusPresent ||
		!s.PotassiumPresent ||
		!phInRange(s.PH) ||
		(s.HumidityKnown() && s.Humidity < env.HumidityDry) {
		return RuleDeficient
	}
	return RuleNominal
}

// Evaluate returns true when the field should be irrigated.
func Evaluate(s Snapshot) bool {
	return Classify(s).Irrigate()
}

func phInRange(ph float64) bool {
	return ph >= env.PHMin && ph <= env.PHMax
}
