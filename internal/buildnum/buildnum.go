// Package buildnum implements ordering for JetBrains build numbers and
// marketplace plugin versions. These are dotted strings ("243.21565.193",
// "2024.1.3.188", sometimes with non-numeric segments) and are not semver.
package buildnum

import (
	"strconv"
	"strings"
)

// Number is a dotted build number or plugin version.
type Number struct {
	segments []segment
	raw      string
}

type segment struct {
	num     int
	text    string
	numeric bool
}

// Parse parses a dotted number. Empty strings parse to a zero Number.
func Parse(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{raw: s}
	}
	parts := strings.Split(s, ".")
	segs := make([]segment, len(parts))
	for i, p := range parts {
		if n, err := strconv.Atoi(p); err == nil {
			segs[i] = segment{num: n, numeric: true}
		} else {
			segs[i] = segment{text: p}
		}
	}
	return Number{segments: segs, raw: s}
}

// String returns the original string form.
func (n Number) String() string { return n.raw }

// IsZero reports whether the number was parsed from an empty string.
func (n Number) IsZero() bool { return len(n.segments) == 0 }

// Compare returns -1, 0 or 1. Segments are compared pairwise: numeric
// segments by value, non-numeric segments lexicographically, a numeric
// segment sorting before a non-numeric one. Missing segments count as zero.
func (n Number) Compare(other Number) int {
	length := len(n.segments)
	if len(other.segments) > length {
		length = len(other.segments)
	}
	for i := 0; i < length; i++ {
		a := segmentAt(n.segments, i)
		b := segmentAt(other.segments, i)
		if c := compareSegment(a, b); c != 0 {
			return c
		}
	}
	return 0
}

// Less reports whether n orders before other.
func (n Number) Less(other Number) bool { return n.Compare(other) < 0 }

func segmentAt(segs []segment, i int) segment {
	if i < len(segs) {
		return segs[i]
	}
	return segment{numeric: true}
}

func compareSegment(a, b segment) int {
	switch {
	case a.numeric && b.numeric:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	case a.numeric:
		return -1
	case b.numeric:
		return 1
	default:
		return strings.Compare(a.text, b.text)
	}
}

// Compare compares two dotted number strings.
func Compare(a, b string) int {
	return Parse(a).Compare(Parse(b))
}

// Range is a compatibility range over build numbers. A zero Since means
// "no lower bound", a zero Until means "no upper bound". Wildcard segments
// in the marketplace's since/until builds ("241.*") are normalized at
// parse time, so bounds here are always concrete numbers.
type Range struct {
	Since Number
	Until Number
}

// ParseRange builds a Range from marketplace since/until build strings.
// A "*" segment means 0 in a lower bound and effectively unbounded in an
// upper bound.
func ParseRange(since, until string) Range {
	return Range{
		Since: Parse(strings.ReplaceAll(since, "*", "0")),
		Until: Parse(strings.ReplaceAll(until, "*", strconv.Itoa(wildcardMax))),
	}
}

// Large enough to dominate any real build segment.
const wildcardMax = 99999999

// Contains reports whether build falls inside the range, bounds inclusive.
func (r Range) Contains(build Number) bool {
	if !r.Since.IsZero() && build.Less(r.Since) {
		return false
	}
	if !r.Until.IsZero() && r.Until.Less(build) {
		return false
	}
	return true
}
