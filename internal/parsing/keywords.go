package parsing

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// MaxKeywords bounds the ranked keyword list.
const MaxKeywords = 20

// Plausibility thresholds for speculative keywords. They were tuned by eye
// against noisy PDF output and are kept as named values for recalibration.
const (
	minKeywordLength          = 4
	maxConsonantsPerVowel     = 3.0
	maxWordConsonantsPerVowel = 2.0
	maxPlausibleLength        = 15
	garbleConsonantRun        = 5
	garbleRepeatRun           = 4
)

// abbreviationPatterns detect short technical terms that a plain
// word-boundary match would get wrong.
var abbreviationPatterns = []struct {
	keyword string
	pattern *regexp.Regexp
}{
	{"sql", regexp.MustCompile(`(?i)\b(?:my|postgre|ms|t-|pl/)?sql\b`)},
	{"aws", regexp.MustCompile(`\bAWS\b|(?i:\bamazon web services\b)`)},
	{"azure", regexp.MustCompile(`(?i)\b(?:microsoft\s+)?azure\b`)},
	{"gcp", regexp.MustCompile(`\bGCP\b|(?i:\bgoogle\s+cloud(?:\s+platform)?\b)`)},
	{"git", regexp.MustCompile(`(?i)\bgit\b`)},
	{"ai", regexp.MustCompile(`\bAI\b|(?i:\bartificial\s+intelligence\b)`)},
	{"ml", regexp.MustCompile(`\bML\b`)},
	{"api", regexp.MustCompile(`(?i)\b(?:rest(?:ful)?\s+)?apis?\b`)},
	{"ui", regexp.MustCompile(`\bUI\b|(?i:\buser\s+interface\b)`)},
	{"ux", regexp.MustCompile(`\bUX\b|(?i:\buser\s+experience\b)`)},
}

var (
	yearsOfExperience = regexp.MustCompile(`(?i)\b\d{1,2}\+?\s*(?:years?|yrs?)(?:\s+of)?\s+(?:[a-z]+\s+)?experience\b`)
	yearsShape        = regexp.MustCompile(`^\d{1,2}\+?\s*(?:years?|yrs?)\b.*\bexperience$`)
	capitalizedPhrase = regexp.MustCompile(`\b[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)+\b`)
	consonantRun      = regexp.MustCompile(fmt.Sprintf(`[bcdfghjklmnpqrstvwxz]{%d,}`, garbleConsonantRun))
	hasLetter         = regexp.MustCompile(`[a-z]`)
)

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true, "this": true,
	"that": true, "your": true, "our": true, "have": true, "into": true, "about": true,
	"dear": true, "page": true, "of": true, "in": true, "at": true, "to": true, "a": true,
}

// KeywordExtractor ranks skill and qualification keywords against a vocabulary.
type KeywordExtractor struct {
	vocab  Vocabulary
	skills map[string]bool
}

// NewKeywordExtractor builds an extractor over vocab.
func NewKeywordExtractor(vocab Vocabulary) *KeywordExtractor {
	return &KeywordExtractor{vocab: vocab, skills: vocab.skillSet()}
}

var (
	defaultExtractorOnce sync.Once
	defaultExtractor     *KeywordExtractor
)

// ExtractKeywords ranks keywords using the built-in vocabulary.
func ExtractKeywords(text string) []string {
	defaultExtractorOnce.Do(func() {
		defaultExtractor = NewKeywordExtractor(DefaultVocabulary())
	})
	return defaultExtractor.Extract(text)
}

// Extract returns at most MaxKeywords lower-case keywords, multi-word
// phrases first, then longer strings first.
func (e *KeywordExtractor) Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lower := strings.ToLower(text)
	candidates := map[string]bool{}

	for term := range e.skills {
		if containsTerm(lower, term) {
			candidates[term] = true
		}
	}
	for _, abbr := range abbreviationPatterns {
		if abbr.pattern.MatchString(text) {
			candidates[abbr.keyword] = true
		}
	}
	for _, m := range yearsOfExperience.FindAllString(text, -1) {
		candidates[strings.ToLower(CollapseWhitespace(m))] = true
	}
	for _, verb := range e.vocab.ActionVerbs {
		if containsTerm(lower, verb) {
			candidates[verb] = true
		}
	}
	for _, m := range capitalizedPhrase.FindAllString(text, -1) {
		if phrase := trimStopWords(strings.ToLower(CollapseWhitespace(m))); phrase != "" {
			candidates[phrase] = true
		}
	}

	var kept []string
	for c := range candidates {
		if e.keep(c) {
			kept = append(kept, c)
		}
	}
	rankKeywords(kept)
	if len(kept) > MaxKeywords {
		kept = kept[:MaxKeywords]
	}
	return kept
}

func (e *KeywordExtractor) keep(candidate string) bool {
	if e.skills[candidate] || yearsShape.MatchString(candidate) {
		return true
	}
	for _, abbr := range abbreviationPatterns {
		if abbr.keyword == candidate {
			return true
		}
	}
	return plausibleWord(candidate)
}

// plausibleWord screens speculative keywords for extraction garble.
func plausibleWord(s string) bool {
	if len(s) < minKeywordLength || !hasLetter.MatchString(s) {
		return false
	}
	vowels, consonants := 0, 0
	for _, r := range s {
		switch {
		case strings.ContainsRune("aeiou", r):
			vowels++
		case r >= 'a' && r <= 'z':
			consonants++
		}
	}
	if vowels == 0 {
		return false
	}
	ratio := float64(consonants) / float64(vowels)
	if ratio > maxConsonantsPerVowel {
		return false
	}
	if consonantRun.MatchString(s) || hasRepeatRun(s, garbleRepeatRun) {
		return false
	}
	return ratio <= maxWordConsonantsPerVowel && len(s) <= maxPlausibleLength
}

func hasRepeatRun(s string, n int) bool {
	run := 1
	var prev rune
	for i, r := range s {
		if i > 0 && r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 1
		}
		prev = r
	}
	return false
}

// trimStopWords drops leading and trailing stop words and keeps the phrase
// only if at least two words remain.
func trimStopWords(phrase string) string {
	words := strings.Fields(phrase)
	for len(words) > 0 && stopWords[words[0]] {
		words = words[1:]
	}
	for len(words) > 0 && stopWords[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	if len(words) < 2 {
		return ""
	}
	return strings.Join(words, " ")
}

func rankKeywords(keywords []string) {
	sort.Slice(keywords, func(i, j int) bool {
		mi, mj := strings.Contains(keywords[i], " "), strings.Contains(keywords[j], " ")
		if mi != mj {
			return mi
		}
		if len(keywords[i]) != len(keywords[j]) {
			return len(keywords[i]) > len(keywords[j])
		}
		return keywords[i] < keywords[j]
	})
}
