package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var httpURL = regexp.MustCompile(`(?i)^https?://\S+$`)

// first returns the first of paths that holds a non-null value.
func first(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		v := r.Get(p)
		if v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

// number coerces JSON numbers, numeric strings and booleans. NaN, Inf and
// anything else report false.
func number(r gjson.Result) (float64, bool) {
	var f float64
	switch r.Type {
	case gjson.Number:
		f = r.Num
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case gjson.True:
		return 1, true
	case gjson.False:
		return 0, true
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func floatOr(r gjson.Result, fallback float64) float64 {
	if f, ok := number(r); ok {
		return f
	}
	return fallback
}

func intOr(r gjson.Result, fallback int64) int64 {
	f, ok := number(r)
	if !ok {
		return fallback
	}
	f = math.Trunc(f)
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

func stringOr(r gjson.Result, fallback string) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	case gjson.True, gjson.False:
		return strconv.FormatBool(r.Bool())
	default:
		return fallback
	}
}

func boolOr(r gjson.Result, fallback bool) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		if b, err := strconv.ParseBool(strings.TrimSpace(r.Str)); err == nil {
			return b
		}
	}
	return fallback
}

// urlOr accepts r only when it is an http(s) URL.
func urlOr(r gjson.Result, fallback string) string {
	if r.Type != gjson.String {
		return fallback
	}
	s := strings.TrimSpace(r.Str)
	if !httpURL.MatchString(s) {
		return fallback
	}
	return s
}

// absMod returns |seed| mod n without overflowing on math.MinInt64.
func absMod(seed, n int64) int64 {
	u := uint64(seed)
	if seed < 0 {
		u = uint64(-(seed + 1)) + 1
	}
	return int64(u % uint64(n))
}
