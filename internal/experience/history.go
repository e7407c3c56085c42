package experience

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-matcher/internal/types"
)

var (
	isoMonthRe   = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})`)
	slashMonthRe = regexp.MustCompile(`^(\d{1,2})[/.-](\d{4})`)
	namedMonthRe = regexp.MustCompile(`(?i)^([a-z]{3})[a-z]*\.?\s+(\d{4})`)
	yearRe       = regexp.MustCompile(`\b(\d{4})\b`)

	ongoingWords = []string{"present", "current", "now", "today", "ongoing"}

	monthNames = map[string]int{
		"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
		"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
	}
)

// monthSpan is a half-open range of absolute month indexes (year*12 + month-1)
type monthSpan struct {
	start, end int
}

// WorkHistoryYears sums the months covered by the work experience entries,
// counting overlapping positions once, and returns years rounded to one
// decimal. An entry that is current or has no end date runs until now; entries
// whose dates cannot be read are ignored.
func WorkHistoryYears(entries []types.WorkExperience, now time.Time) float64 {
	nowIdx := now.Year()*12 + int(now.Month()) - 1

	spans := make([]monthSpan, 0, len(entries))
	for _, w := range entries {
		start, ok := parseMonth(w.StartDate, false)
		if !ok {
			continue
		}

		end := nowIdx
		if !w.Current && !isOngoing(w.EndDate) {
			if end, ok = parseMonth(w.EndDate, true); !ok {
				continue
			}
		}
		if end > nowIdx {
			end = nowIdx
		}
		if end < start {
			continue
		}
		spans = append(spans, monthSpan{start: start, end: end + 1})
	}

	months := mergedMonths(spans)
	return math.Round(float64(months)/12*10) / 10
}

func isOngoing(date string) bool {
	date = strings.ToLower(strings.TrimSpace(date))
	if date == "" {
		return true
	}
	for _, w := range ongoingWords {
		if date == w {
			return true
		}
	}
	return false
}

// parseMonth reads "2019-04", "04/2019", "Apr 2019" or a bare year. A bare
// year is January when it opens a range and December when it closes one.
func parseMonth(date string, closing bool) (int, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return 0, false
	}

	if m := isoMonthRe.FindStringSubmatch(date); m != nil {
		return monthIndex(m[1], m[2])
	}
	if m := slashMonthRe.FindStringSubmatch(date); m != nil {
		return monthIndex(m[2], m[1])
	}
	if m := namedMonthRe.FindStringSubmatch(date); m != nil {
		if month, ok := monthNames[strings.ToLower(m[1])]; ok {
			return monthIndex(m[2], strconv.Itoa(month))
		}
	}
	if m := yearRe.FindStringSubmatch(date); m != nil {
		month := "1"
		if closing {
			month = "12"
		}
		return monthIndex(m[1], month)
	}
	return 0, false
}

func monthIndex(year, month string) (int, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return 0, false
	}
	return y*12 + m - 1, true
}

func mergedMonths(spans []monthSpan) int {
	if len(spans) == 0 {
		return 0
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	total := 0
	cur := spans[0]
	for _, s := range spans[1:] {
		if s.start <= cur.end {
			if s.end > cur.end {
				cur.end = s.end
			}
			continue
		}
		total += cur.end - cur.start
		cur = s
	}
	return total + cur.end - cur.start
}
