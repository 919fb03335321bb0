package logic

// Insight is a short human-readable message derived from a reading.
type Insight string

const (
	InsightHotFingers   Insight = "Hot fingers babeee! Stay like this!"
	InsightGettingRisky Insight = "It's getting risky, why don't you let that cold thing?"
	InsightLosingTouch  Insight = "You are soon losing touch!"
	InsightTooNumb      Insight = "Too numb, let it go! Let it go!"
	InsightStressed     Insight = "Getting stressed? Does it worth it?"
	InsightWayStressed  Insight = "You look way stressed... Ready for some meditating activities?"
	InsightLuckyWarm    Insight = "Lucky you! So warm!"
	InsightSoooWarm     Insight = "Soooo warm!"
)

// rule pairs a threshold predicate with the insight it produces.
type rule struct {
	match   func(finger, env, obj int) bool
	insight Insight
}

// rules are evaluated top to bottom and the first match wins.
//
// Several rules can never fire: "losing touch" and "too numb" are shadowed by
// "getting risky" (object < 16), "way stressed" by "stressed", and "soooo warm"
// by "hot fingers" (finger > 28). The thresholds are kept as shipped; the
// "way stressed" rule appeared twice upstream and is listed once here.
var rules = []rule{
	{func(f, e, o int) bool { return f > 28 }, InsightHotFingers},
	{func(f, e, o int) bool { return o < 16 }, InsightGettingRisky},
	{func(f, e, o int) bool { return o < 11 && f < 22 }, InsightLosingTouch},
	{func(f, e, o int) bool { return o < 10 && f < 17 }, InsightTooNumb},
	{func(f, e, o int) bool { return f < 19 && o > 22 && e > 20 }, InsightStressed},
	{func(f, e, o int) bool { return f < 18 && o > 24 && e > 23 }, InsightWayStressed},
	{func(f, e, o int) bool { return f > 26 && o > 24 && e > 23 }, InsightLuckyWarm},
	{func(f, e, o int) bool { return f > 28 && o > 28 && e > 26 }, InsightSoooWarm},
}

// Classify maps a reading to the insight of the first matching rule.
// It returns false when no rule matches. Raw values are used as-is, so
// out-of-range or non-positive readings are still classified.
func Classify(r Reading) (Insight, bool) {
	for _, rl := range rules {
		if rl.match(r.Finger, r.Environment, r.Object) {
			return rl.insight, true
		}
	}
	return "", false
}
