package documents

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	previewLimit  = 2000
	topWordsLimit = 10
	minTopWordLen = 3
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	wordRe     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// cleanText collapses runs of whitespace into single spaces.
func cleanText(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// computeStats counts words case-insensitively. Ties in the top list keep
// the order in which words first appeared.
func computeStats(text string) TextStats {
	words := wordRe.FindAllString(strings.ToLower(text), -1)

	counts := make(map[string]int, len(words))
	firstSeen := make(map[string]int, len(words))
	for i, w := range words {
		if _, ok := counts[w]; !ok {
			firstSeen[w] = i
		}
		counts[w]++
	}

	candidates := make([]string, 0, len(counts))
	for w := range counts {
		if utf8.RuneCountInString(w) >= minTopWordLen {
			candidates = append(candidates, w)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return firstSeen[a] < firstSeen[b]
	})
	if len(candidates) > topWordsLimit {
		candidates = candidates[:topWordsLimit]
	}

	top := make([]WordCount, 0, len(candidates))
	for _, w := range candidates {
		top = append(top, WordCount{Word: w, Count: counts[w]})
	}
	return TextStats{
		Chars:       utf8.RuneCountInString(text),
		Words:       len(words),
		UniqueWords: len(counts),
		TopWords:    top,
	}
}
