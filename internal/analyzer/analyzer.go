package analyzer

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/mcncl/jsoncodec/internal/models"
	"github.com/mcncl/jsoncodec/internal/serializer"
)

// DefaultTopKeys is how many of the most frequent keys a report lists.
const DefaultTopKeys = 10

// String formats recognised in values
const (
	FormatUUID     = "uuid"
	FormatRFC3339  = "rfc3339"
	FormatDate     = "date"
	FormatDateTime = "datetime"
	FormatUnix     = "unix_seconds"
	FormatUnixMS   = "unix_millis"
)

// Patterns are checked in order, most specific first.
var formatPatterns = []struct {
	name  string
	regex *regexp.Regexp
}{
	{FormatUUID, regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)},
	{FormatRFC3339, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)},
	{FormatDate, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)},
	{FormatDateTime, regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`)},
}

var (
	unixTimestampRegex = regexp.MustCompile(`^1[0-9]{9}$`)
	unixMilliRegex     = regexp.MustCompile(`^1[0-9]{12}$`)
)

// KeyCount pairs an object key with the number of objects using it
type KeyCount struct {
	Key   string
	Count int
}

// Stats summarises a value tree
type Stats struct {
	Kinds         map[models.Kind]int
	MaxDepth      int
	TotalKeys     int
	UniqueKeys    int
	TopKeys       []KeyCount
	Formats       map[string]int
	LongestString int
	LargestArray  int
}

// Analyzer walks value trees and collects Stats
type Analyzer struct {
	topKeys int
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return &Analyzer{topKeys: DefaultTopKeys}
}

// NewAnalyzerWithTopKeys creates an Analyzer listing n keys in TopKeys.
func NewAnalyzerWithTopKeys(n int) *Analyzer {
	return &Analyzer{topKeys: n}
}

// Analyze collects statistics for v
func (a *Analyzer) Analyze(v models.JSONValue) Stats {
	stats := Stats{
		Kinds:   make(map[models.Kind]int),
		Formats: make(map[string]int),
	}
	keyCounts := make(map[string]int)

	models.Walk(v, func(key string, node models.JSONValue, depth int) bool {
		kind := models.KindOf(node)
		stats.Kinds[kind]++
		stats.MaxDepth = max(stats.MaxDepth, depth)
		if key != "" {
			keyCounts[key]++
			stats.TotalKeys++
		}

		switch kind {
		case models.KindString:
			s := node.(string)
			stats.LongestString = max(stats.LongestString, utf8.RuneCountInString(s))
			if f := detectStringFormat(s); f != "" {
				stats.Formats[f]++
			}
		case models.KindInteger:
			if f := detectNumberFormat(node); f != "" {
				stats.Formats[f]++
			}
		case models.KindArray:
			if seq, ok := node.(serializer.Sequence); ok {
				stats.LargestArray = max(stats.LargestArray, seq.Len())
			}
		}
		return true
	})

	stats.UniqueKeys = len(keyCounts)
	stats.TopKeys = topKeys(keyCounts, a.topKeys)
	return stats
}

// detectStringFormat reports the first well-known format s matches
func detectStringFormat(s string) string {
	for _, p := range formatPatterns {
		if p.regex.MatchString(s) {
			return p.name
		}
	}
	return ""
}

// detectNumberFormat recognises integers that look like epoch timestamps
func detectNumberFormat(v models.JSONValue) string {
	n, ok := models.AsInt64(v)
	if !ok || n <= 0 {
		return ""
	}
	text := models.KeyText(n)
	switch {
	case unixTimestampRegex.MatchString(text):
		return FormatUnix
	case unixMilliRegex.MatchString(text):
		return FormatUnixMS
	}
	return ""
}

func topKeys(counts map[string]int, n int) []KeyCount {
	out := make([]KeyCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, KeyCount{Key: k, Count: c})
	}
	slices.SortFunc(out, func(a, b KeyCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Key, b.Key)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Tree renders the statistics as an ordered object for output
func (s Stats) Tree() *models.JSONObject {
	kinds := models.NewObject(true)
	for k := models.KindNull; k <= models.KindUnknown; k++ {
		if n := s.Kinds[k]; n > 0 {
			kinds.Put(k.String(), n)
		}
	}

	top := models.NewArray(len(s.TopKeys))
	for _, kc := range s.TopKeys {
		entry := models.NewObject(true)
		entry.Put("key", kc.Key)
		entry.Put("count", kc.Count)
		top.Add(entry)
	}

	formats := models.NewObject(false)
	for f, n := range s.Formats {
		formats.Put(f, n)
	}

	out := models.NewObject(true)
	out.Put("kinds", kinds)
	out.Put("max_depth", s.MaxDepth)
	out.Put("total_keys", s.TotalKeys)
	out.Put("unique_keys", s.UniqueKeys)
	out.Put("top_keys", top)
	out.Put("formats", formats)
	out.Put("longest_string", s.LongestString)
	out.Put("largest_array", s.LargestArray)
	return out
}
