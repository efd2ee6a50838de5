package parsing

import (
	"path/filepath"
	"regexp"
	"strings"
)

const (
	headerLineLimit   = 8
	maxNameLineLength = 60
)

// jobTitleWords disqualify a header line from being read as a name.
var jobTitleWords = []string{
	"analyst", "developer", "manager", "engineer", "consultant", "officer",
	"assistant", "coordinator", "specialist", "administrator", "director",
	"supervisor", "technician", "designer", "executive", "representative",
	"intern", "architect", "accountant", "nurse", "teacher",
}

var resumeWords = []string{"resume", "résumé", "cv", "curriculum", "vitae"}

// nameDenylist words never appear in a real name line.
var nameDenylist = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"service": true, "desk": true, "pay": true, "ltd": true, "inc": true, "pty": true,
}

var (
	emailMarker     = regexp.MustCompile(`(?i)@|\be-?mail\b`)
	yearToken       = regexp.MustCompile(`\b\d{4}\b`)
	phoneLikeDigits = regexp.MustCompile(`\d[\d\s().+-]{6,}\d`)
	properWord      = regexp.MustCompile(`^[A-Z][a-z]+(?:['’-][A-Za-z][a-z]*)*$|^(?:Mc|Mac|O')[A-Z][a-z]+$`)
	capsWord        = regexp.MustCompile(`^[A-Z][A-Z'’-]*[A-Z]$`)
	spacedLetters   = regexp.MustCompile(`^[A-Z](?: [A-Z])+$`)
	upperRun        = regexp.MustCompile(`^[A-Z]{2,}$`)
	multiSpace      = regexp.MustCompile(`\s{2,}`)
	anyDigit        = regexp.MustCompile(`\d`)
	fileSeparators  = regexp.MustCompile(`[_\-.]+`)
	fileNameStart   = regexp.MustCompile(`^([A-Z][a-z]+)\s+([A-Z][a-z]+)`)
	fileNameTail    = regexp.MustCompile(`([A-Z][a-z]+)\s+([A-Z][a-z]+)\s*(?:(?i:resume|cv|curriculum|vitae)\b|(?:19|20)\d{2}\b|$)`)
	emailLocalSplit = regexp.MustCompile(`[._-]+`)
	lenientPhone    = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
)

type personName struct {
	first string
	last  string
}

func (n personName) full() string {
	return strings.TrimSpace(n.first + " " + n.last)
}

// nameInput carries everything a name stage may consult.
type nameInput struct {
	text     string
	lines    []string
	fileName string
	email    string
}

// nameStage is one step of the name cascade. Stages run in slice order and
// the first one to return ok wins.
type nameStage struct {
	name string
	fn   func(in nameInput) (personName, bool)
}

var nameStages = []nameStage{
	{name: "header-lines", fn: nameFromHeaderLines},
	{name: "spaced-capitals", fn: nameFromSpacedCapitals},
	{name: "all-caps-header", fn: nameFromAllCapsHeader},
	{name: "file-name", fn: nameFromFileName},
	{name: "email-local-part", fn: nameFromEmail},
	{name: "contact-proximity", fn: nameFromContactProximity},
}

// extractName runs the cascade and reports which stage produced the name.
func extractName(in nameInput) (personName, string, bool) {
	for _, stage := range nameStages {
		if n, ok := stage.fn(in); ok {
			return n, stage.name, true
		}
	}
	return personName{}, "", false
}

func nameFromHeaderLines(in nameInput) (personName, bool) {
	for _, line := range firstN(in.lines, headerLineLimit) {
		if skipHeaderLine(line) {
			continue
		}
		if n, ok := properCaseName(line); ok {
			return n, true
		}
	}
	return personName{}, false
}

func skipHeaderLine(line string) bool {
	if len(line) > maxNameLineLength {
		return true
	}
	if emailMarker.MatchString(line) || yearToken.MatchString(line) || phoneLikeDigits.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	return hasAnyTerm(lower, jobTitleWords) || hasAnyTerm(lower, resumeWords)
}

// properCaseName accepts 2-4 Proper-Case words, none denylisted.
func properCaseName(line string) (personName, bool) {
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return personName{}, false
	}
	for _, w := range words {
		if len(w) < 2 || !properWord.MatchString(w) || nameDenylist[strings.ToLower(w)] {
			return personName{}, false
		}
	}
	return personName{first: words[0], last: words[len(words)-1]}, true
}

func nameFromSpacedCapitals(in nameInput) (personName, bool) {
	for _, line := range firstN(in.lines, headerLineLimit) {
		tokens := multiSpace.Split(strings.TrimSpace(line), -1)
		if len(tokens) < 2 {
			continue
		}
		var words []string
		valid, spaced := true, false
		for _, tok := range tokens {
			switch {
			case spacedLetters.MatchString(tok):
				spaced = true
			case upperRun.MatchString(tok):
			default:
				valid = false
			}
			if !valid {
				break
			}
			words = append(words, TitleCase(strings.ReplaceAll(tok, " ", "")))
		}
		// At least one token must carry the inter-letter spacing.
		if !valid || !spaced || len(words) < 2 {
			continue
		}
		joined := strings.ToLower(strings.Join(words, " "))
		if hasAnyTerm(joined, resumeWords) {
			continue
		}
		return personName{first: words[0], last: words[len(words)-1]}, true
	}
	return personName{}, false
}

func nameFromAllCapsHeader(in nameInput) (personName, bool) {
	for _, line := range firstN(in.lines, headerLineLimit) {
		if strings.Contains(line, "@") || anyDigit.MatchString(line) {
			continue
		}
		if hasAnyTerm(strings.ToLower(line), resumeWords) {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		ok := true
		for _, w := range words {
			if !capsWord.MatchString(w) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		titled := strings.Fields(TitleCase(line))
		return personName{first: titled[0], last: titled[len(titled)-1]}, true
	}
	return personName{}, false
}

func nameFromFileName(in nameInput) (personName, bool) {
	if strings.TrimSpace(in.fileName) == "" {
		return personName{}, false
	}
	base := filepath.Base(in.fileName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = CollapseWhitespace(fileSeparators.ReplaceAllString(base, " "))

	if m := fileNameStart.FindStringSubmatch(base); m != nil && !isResumeWord(m[1]) && !isResumeWord(m[2]) {
		return personName{first: m[1], last: m[2]}, true
	}
	for _, m := range fileNameTail.FindAllStringSubmatch(base, -1) {
		if isResumeWord(m[1]) || isResumeWord(m[2]) {
			continue
		}
		return personName{first: m[1], last: m[2]}, true
	}
	return personName{}, false
}

func nameFromEmail(in nameInput) (personName, bool) {
	at := strings.Index(in.email, "@")
	if at <= 0 {
		return personName{}, false
	}
	var parts []string
	for _, p := range emailLocalSplit.Split(in.email[:at], -1) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return personName{}, false
	}
	return personName{first: TitleCase(parts[0]), last: TitleCase(parts[1])}, true
}

func nameFromContactProximity(in nameInput) (personName, bool) {
	idx := -1
	if in.email != "" {
		for i, line := range in.lines {
			if strings.Contains(line, in.email) {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		for i, line := range in.lines {
			if lenientPhone.MatchString(line) {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return personName{}, false
	}
	for i := idx - 1; i >= 0 && i >= idx-2; i-- {
		line := in.lines[i]
		if anyDigit.MatchString(line) || strings.Contains(line, "@") || len(line) > maxNameLineLength {
			continue
		}
		if n, ok := properCaseName(line); ok {
			return n, true
		}
	}
	return personName{}, false
}

func isResumeWord(w string) bool {
	lower := strings.ToLower(w)
	for _, r := range resumeWords {
		if lower == r {
			return true
		}
	}
	return false
}

func hasAnyTerm(lowerText string, terms []string) bool {
	for _, t := range terms {
		if containsTerm(lowerText, t) {
			return true
		}
	}
	return false
}

func firstN(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}
