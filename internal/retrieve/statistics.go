package retrieve

import (
	"regexp"

	"github.com/ebarkova/lede/internal/model"
)

// statContextRadius is how many characters around a match are kept.
const statContextRadius = 50

var (
	percentagePattern  = regexp.MustCompile(`\b\d+(?:\.\d+)?\s?(?:%|percent)`)
	correlationPattern = regexp.MustCompile(`(?i)\br\s*=\s*-?(?:0?\.\d+|1(?:\.0+)?)|\bcorrelation(?:\s+(?:of|coefficient))?\s*(?:=|:|\bof\b)?\s*-?0?\.\d+`)
	pValuePattern      = regexp.MustCompile(`(?i)\bp\s*[<=>]=?\s*0?\.\d+`)
	regressionPattern  = regexp.MustCompile(`(?i)\bregression\b|\bcontrolling\s+for\b|\bcoefficient\b|\br-squared\b|\bR\^?2\b`)
)

// ExtractStatistics scans content for inline statistics: percentages,
// correlation coefficients, p-values, and regression language. Each match
// keeps up to 100 characters of surrounding context.
func ExtractStatistics(content string) []model.ExtractedStatistic {
	var stats []model.ExtractedStatistic
	stats = appendMatches(stats, content, percentagePattern, model.StatPercentage)
	stats = appendMatches(stats, content, correlationPattern, model.StatCorrelation)
	stats = appendMatches(stats, content, pValuePattern, model.StatPValue)
	stats = appendMatches(stats, content, regressionPattern, model.StatRegression)
	return stats
}

func appendMatches(stats []model.ExtractedStatistic, content string,
	pattern *regexp.Regexp, kind model.StatisticKind) []model.ExtractedStatistic {

	for _, loc := range pattern.FindAllStringIndex(content, -1) {
		stats = append(stats, model.ExtractedStatistic{
			Kind:    kind,
			Value:   content[loc[0]:loc[1]],
			Context: contextWindow(content, loc[0], loc[1]),
		})
	}
	return stats
}

// contextWindow slices up to statContextRadius characters either side of
// the match.
func contextWindow(content string, from, to int) string {
	start := from - statContextRadius
	if start < 0 {
		start = 0
	}
	end := to + statContextRadius
	if end > len(content) {
		end = len(content)
	}
	return content[start:end]
}

// HasRegressionStatistic reports whether any extracted statistic indicates a
// regression-type analysis. The causation-correlation check keys off this.
func HasRegressionStatistic(stats []model.ExtractedStatistic) bool {
	for _, s := range stats {
		if s.Kind == model.StatRegression {
			return true
		}
	}
	return false
}
