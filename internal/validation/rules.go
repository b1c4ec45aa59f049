package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Rule checks a single constraint. It returns the failure message, or ""
// when the value satisfies the rule.
type Rule interface {
	Check(value string, rec Record) string
}

// RuleFunc adapts a plain function to Rule.
type RuleFunc func(value string, rec Record) string

// Check calls f.
func (f RuleFunc) Check(value string, rec Record) string { return f(value, rec) }

// Required fails on values that are empty after trimming.
func Required(msg string) Rule {
	return RuleFunc(func(v string, _ Record) string {
		if strings.TrimSpace(v) == "" {
			return msg
		}
		return ""
	})
}

// Matches fails when the value does not match re.
func Matches(re *regexp.Regexp, msg string) Rule {
	return RuleFunc(func(v string, _ Record) string {
		if !re.MatchString(v) {
			return msg
		}
		return ""
	})
}

// MinLength fails when the value has fewer than n characters.
func MinLength(n int, msg string) Rule {
	return RuleFunc(func(v string, _ Record) string {
		if utf8.RuneCountInString(v) < n {
			return msg
		}
		return ""
	})
}

// MaxLength fails when the value has more than n characters.
func MaxLength(n int, msg string) Rule {
	return RuleFunc(func(v string, _ Record) string {
		if utf8.RuneCountInString(v) > n {
			return msg
		}
		return ""
	})
}

// OneOf fails unless the value is exactly one of allowed.
func OneOf(allowed []string, msg string) Rule {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return RuleFunc(func(v string, _ Record) string {
		if _, ok := set[v]; !ok {
			return msg
		}
		return ""
	})
}

func parseNumber(v string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseInt coerces v the way Integer validates it, so "5.0" and "1e1"
// yield 5 and 10. It reports false for anything Integer rejects.
func ParseInt(v string) (int, bool) {
	f, ok := parseNumber(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int(f), true
}

// Integer coerces the value to a number. Non-numeric input fails with
// typeMsg, a number with a fractional part fails with intMsg.
func Integer(typeMsg, intMsg string) Rule {
	return RuleFunc(func(v string, _ Record) string {
		f, ok := parseNumber(v)
		if !ok {
			return typeMsg
		}
		if f != math.Trunc(f) {
			return intMsg
		}
		return ""
	})
}

// IntRange fails when the numeric value lies outside [min, max]. It assumes
// Integer ran earlier in the chain; unparsable input is left to that rule.
func IntRange(min, max int, minMsg, maxMsg string) Rule {
	return RuleFunc(func(v string, _ Record) string {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return ""
		}
		switch {
		case f < float64(min):
			return minMsg
		case f > float64(max):
			return maxMsg
		}
		return ""
	})
}

// EqualsField fails unless the value equals the value of field other in
// the same record.
func EqualsField(other, msg string) Rule {
	return RuleFunc(func(v string, rec Record) string {
		if v != rec[other] {
			return msg
		}
		return ""
	})
}
