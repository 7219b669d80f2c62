package csv

import "strings"

var candidateDelimiters = []rune{',', ';', '\t'}

// DetectDelimiter picks the delimiter whose per-line counts over the
// first few non-empty lines are highest and most consistent. Defaults
// to comma.
func DetectDelimiter(content string) rune {
	sample := sampleLines(content, 5)
	if len(sample) == 0 {
		return ','
	}

	best := ','
	bestScore := 0.0

	for _, delim := range candidateDelimiters {
		counts := make([]int, 0, len(sample))
		sum := 0
		for _, line := range sample {
			n := strings.Count(line, string(delim))
			counts = append(counts, n)
			sum += n
		}

		avg := float64(sum) / float64(len(counts))
		if avg == 0 {
			continue
		}

		variance := 0.0
		for _, n := range counts {
			d := float64(n) - avg
			variance += d * d
		}
		variance /= float64(len(counts))

		score := avg / (1.0 + variance)
		if score > bestScore {
			bestScore = score
			best = delim
		}
	}

	return best
}

func sampleLines(content string, limit int) []string {
	lines := make([]string, 0, limit)
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
			if len(lines) == limit {
				break
			}
		}
	}
	return lines
}
