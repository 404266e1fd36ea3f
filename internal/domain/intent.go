package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DefaultTopic replaces topics that are empty or too generic to search for.
const DefaultTopic = "AI news"

// DefaultLookbackDays is the search window when a query carries no temporal
// signal.
const DefaultLookbackDays = 7

// QueryIntent is the parsed temporal intent of a free-form query. Topic is
// never empty. LookbackDays is at least 1 and is recomputed, never combined,
// when TargetDate is set.
type QueryIntent struct {
	RawQuery     string
	Topic        string
	LookbackDays int
	TargetDate   *time.Time
}

// MatchKind tags which temporal rule class fired for a query.
type MatchKind int

const (
	MatchNone MatchKind = iota
	// MatchKeyword is a named relative keyword such as "yesterday".
	MatchKeyword
	// MatchRelativeCount is an explicit "N days ago" expression.
	MatchRelativeCount
	// MatchRangeCount is an explicit "past N days" expression.
	MatchRangeCount
	// MatchAbsoluteDate is a parseable calendar date expression.
	MatchAbsoluteDate
)

// TemporalMatch is the tagged outcome of scanning a query against the rule
// table.
type TemporalMatch struct {
	Kind MatchKind
	// Days is the lookback window implied by the match.
	Days int
	// Date is set only for MatchAbsoluteDate.
	Date time.Time
	// Text is the matched substring as it appeared in the query.
	Text string
}

type ruleKind int

const (
	ruleKeyword ruleKind = iota
	ruleRelativeCount
	ruleRangeCount
	ruleAbsoluteDate
)

// intentRule pairs a pattern with how its match converts into a lookback
// window. Rules are evaluated in slice order; the first satisfied rule wins,
// regardless of match position or length.
type intentRule struct {
	kind    ruleKind
	pattern *regexp.Regexp
	// days applies to ruleKeyword only.
	days int
}

var intentRules = []intentRule{
	{kind: ruleKeyword, pattern: regexp.MustCompile(`(?i)\btoday\b`), days: 1},
	{kind: ruleKeyword, pattern: regexp.MustCompile(`(?i)\byesterday\b`), days: 2},
	{kind: ruleKeyword, pattern: regexp.MustCompile(`(?i)\b(?:last|past)\s+week\b`), days: 7},
	{kind: ruleKeyword, pattern: regexp.MustCompile(`(?i)\b(?:last|past)\s+month\b`), days: 30},
	{kind: ruleRelativeCount, pattern: regexp.MustCompile(`(?i)\b(\d+)\s+days?\s+ago\b`)},
	{kind: ruleRangeCount, pattern: regexp.MustCompile(`(?i)\bpast\s+(\d+)\s+days?\b`)},
	{kind: ruleAbsoluteDate, pattern: regexp.MustCompile(`(?i)\b(\d{1,2}(?:st|nd|rd|th)?\s+(?:january|february|march|april|may|june|july|august|september|october|november|december)(?:,?\s*\d{4})?)\b`)},
	{kind: ruleAbsoluteDate, pattern: regexp.MustCompile(`(?i)\b((?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s*\d{4})?)\b`)},
	{kind: ruleAbsoluteDate, pattern: regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`)},
	{kind: ruleAbsoluteDate, pattern: regexp.MustCompile(`\b(\d{4}-\d{1,2}-\d{1,2})\b`)},
	{kind: ruleAbsoluteDate, pattern: regexp.MustCompile(`\b(\d{1,2}-\d{1,2}-\d{4})\b`)},
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	yearRe       = regexp.MustCompile(`\d{4}`)
	ordinalRe    = regexp.MustCompile(`(?i)(\d{1,2})(?:st|nd|rd|th)`)

	genericTopics = map[string]struct{}{
		"news":   {},
		"latest": {},
		"recent": {},
	}
)

// IntentExtractor parses temporal intent out of free-form queries. It is
// pure over the query text and the injected clock.
type IntentExtractor struct {
	now func() time.Time
}

// NewIntentExtractor creates an extractor using the wall clock.
func NewIntentExtractor() *IntentExtractor {
	return NewIntentExtractorWithClock(time.Now)
}

// NewIntentExtractorWithClock creates an extractor with an injected clock.
func NewIntentExtractorWithClock(now func() time.Time) *IntentExtractor {
	return &IntentExtractor{now: now}
}

// Extract scans the query against the ordered rule table, removes the
// matched substring once, and normalizes the remaining topic.
func (e *IntentExtractor) Extract(query string) QueryIntent {
	intent := QueryIntent{
		RawQuery:     query,
		LookbackDays: DefaultLookbackDays,
	}

	topic := query
	if match, ok := e.matchTemporal(query); ok {
		intent.LookbackDays = match.Days
		if match.Kind == MatchAbsoluteDate {
			date := match.Date
			intent.TargetDate = &date
		}
		topic = removeOnce(query, match.Text)
	}

	intent.Topic = normalizeTopic(topic)
	return intent
}

// matchTemporal returns the first satisfied rule's tagged match. Absolute
// date rules whose text fails to parse fall through to later rules instead
// of aborting extraction.
func (e *IntentExtractor) matchTemporal(query string) (TemporalMatch, bool) {
	for _, rule := range intentRules {
		loc := rule.pattern.FindStringSubmatchIndex(query)
		if loc == nil {
			continue
		}
		matched := query[loc[0]:loc[1]]

		switch rule.kind {
		case ruleKeyword:
			return TemporalMatch{Kind: MatchKeyword, Days: rule.days, Text: matched}, true

		case ruleRelativeCount:
			n, err := strconv.Atoi(query[loc[2]:loc[3]])
			if err != nil {
				continue
			}
			// +1 so the referenced day itself falls inside the window.
			return TemporalMatch{Kind: MatchRelativeCount, Days: n + 1, Text: matched}, true

		case ruleRangeCount:
			n, err := strconv.Atoi(query[loc[2]:loc[3]])
			if err != nil {
				continue
			}
			return TemporalMatch{Kind: MatchRangeCount, Days: n, Text: matched}, true

		case ruleAbsoluteDate:
			date, err := e.parseAbsoluteDate(query[loc[2]:loc[3]])
			if err != nil {
				continue
			}
			return TemporalMatch{
				Kind: MatchAbsoluteDate,
				Days: e.lookbackTo(date),
				Date: date,
				Text: matched,
			}, true
		}
	}
	return TemporalMatch{Kind: MatchNone}, false
}

// absoluteLayouts resolve ambiguous numeric forms deterministically as
// day-first before the fuzzy parser gets a chance to read them US-style.
var absoluteLayouts = []string{
	"2 January 2006",
	"January 2 2006",
	"January 2, 2006",
	"2/1/2006",
	"2006-1-2",
	"2-1-2006",
}

func (e *IntentExtractor) parseAbsoluteDate(text string) (time.Time, error) {
	normalized := strings.TrimSpace(strings.ToLower(text))
	normalized = strings.ReplaceAll(normalized, ",", "")
	normalized = ordinalRe.ReplaceAllString(normalized, "$1")
	if !yearRe.MatchString(normalized) {
		normalized = fmt.Sprintf("%s %d", normalized, e.now().Year())
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return midnight(t), nil
		}
	}
	t, err := dateparse.ParseAny(normalized)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q: %w", text, err)
	}
	return midnight(t), nil
}

// lookbackTo computes the window from today back to the target date,
// inclusive of the target day.
func (e *IntentExtractor) lookbackTo(target time.Time) int {
	today := midnight(e.now())
	days := int(today.Sub(target).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// removeOnce strips the first case-insensitive occurrence of sub from s.
func removeOnce(s, sub string) string {
	idx := strings.Index(strings.ToLower(s), strings.ToLower(sub))
	if idx < 0 {
		return s
	}
	return s[:idx] + s[idx+len(sub):]
}

// normalizeTopic collapses whitespace and substitutes the default topic when
// nothing but generic filler words ("latest news", "recent") remains.
func normalizeTopic(topic string) string {
	topic = strings.TrimSpace(whitespaceRe.ReplaceAllString(topic, " "))
	if topic == "" {
		return DefaultTopic
	}
	for _, word := range strings.Fields(strings.ToLower(topic)) {
		if _, generic := genericTopics[word]; !generic {
			return topic
		}
	}
	return DefaultTopic
}
