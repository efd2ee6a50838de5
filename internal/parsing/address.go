package parsing

import (
	"regexp"
	"strings"
)

const maxAddressLength = 120

const (
	streetSuffixes = `Street|St|Road|Rd|Avenue|Ave|Drive|Dr|Court|Ct|Place|Pl|Lane|Ln|Crescent|Cres|Boulevard|Blvd|Parade|Pde|Highway|Hwy|Terrace|Tce|Way|Close|Cl|Circuit|Cct|Grove|Gr|Square|Sq`
	stateCodes     = `NSW|VIC|QLD|WA|SA|TAS|ACT|NT`
	houseNumber    = `\b\d{1,5}[A-Za-z]?(?:/\d{1,5}[A-Za-z]?)?`
	streetWords    = `\s+(?:[A-Za-z'.-]+\s+){0,4}?(?i:` + streetSuffixes + `)\b`
)

// yearPrefix is a leading 1900-2099 year. Wider four-digit numbers are
// left alone because they are common house numbers ("1234 Pacific Highway").
const yearPrefix = `^(?:19|20)\d{2}\b`

// Address holds the pieces recovered from a postal address candidate.
type Address struct {
	Line     string
	City     string
	State    string
	Postcode string
}

// addressCandidates are tried in order; every match of a pattern is
// validated before moving on to the next pattern.
var addressCandidates = []*regexp.Regexp{
	regexp.MustCompile(houseNumber + streetWords + `[^\n]{0,60}?\b(?:` + stateCodes + `)\b,?\s*\d{4}\b`),
	regexp.MustCompile(houseNumber + streetWords + `(?:,?[ \t]+[A-Z][a-zA-Z]+(?:[ \t]+[A-Z][a-zA-Z]+){0,2})?`),
	regexp.MustCompile(`\b[A-Z][a-zA-Z]+(?:[ \t]+[A-Z][a-zA-Z]+){0,2},?[ \t]+(?:` + stateCodes + `)[ \t]+\d{4}\b`),
}

var (
	leadingYear      = regexp.MustCompile(yearPrefix)
	streetPrefix     = regexp.MustCompile(`^` + houseNumber + `[ \t]+(?:[A-Za-z'.-]+[ \t]+){0,4}(?i:` + streetSuffixes + `)\b\.?`)
	streetSuffixWord = regexp.MustCompile(`\b(?i:` + streetSuffixes + `)\b`)
	statePostcode    = regexp.MustCompile(`\b(` + stateCodes + `),?\s*(\d{4})\b`)
	cityBeforeState  = regexp.MustCompile(`([A-Z][a-zA-Z]+(?:[ \t]+[A-Z][a-zA-Z]+)?),?[ \t]+(?:` + stateCodes + `)\b`)
	suburbState      = regexp.MustCompile(`\b([A-Z][a-zA-Z]+(?:[ \t]+[A-Z][a-zA-Z]+){0,2}),[ \t]*(` + stateCodes + `)\b`)
)

// addressNoise marks candidates that are really employer or job lines.
var addressNoise = append([]string{
	"pty", "ltd", "limited", "inc", "corp", "corporation", "company", "llc",
	"group", "solutions", "holdings",
}, jobTitleWords...)

// extractAddress returns the first validated address candidate, falling
// back to a bare "Suburb, STATE" match.
func extractAddress(text string) (Address, bool) {
	for _, pattern := range addressCandidates {
		for _, match := range pattern.FindAllString(text, -1) {
			candidate := CollapseWhitespace(strings.Trim(match, " ,"))
			if !validAddress(candidate) {
				continue
			}
			return splitAddress(candidate), true
		}
	}

	for _, m := range suburbState.FindAllStringSubmatch(text, -1) {
		city := CollapseWhitespace(m[1])
		if hasAnyTerm(strings.ToLower(city), addressNoise) {
			continue
		}
		return Address{Line: city + ", " + m[2], City: city, State: m[2]}, true
	}
	return Address{}, false
}

// validAddress rejects year-led lines, company/job noise, candidates with
// neither a street suffix nor a state+postcode pair, and overlong strings.
func validAddress(candidate string) bool {
	if candidate == "" || len(candidate) > maxAddressLength {
		return false
	}
	if leadingYear.MatchString(candidate) {
		return false
	}
	if hasAnyTerm(strings.ToLower(candidate), addressNoise) {
		return false
	}
	return streetSuffixWord.MatchString(candidate) || statePostcode.MatchString(candidate)
}

func splitAddress(candidate string) Address {
	addr := Address{Line: candidate}
	if m := statePostcode.FindStringSubmatch(candidate); m != nil {
		addr.State = m[1]
		addr.Postcode = m[2]
	}
	// The city is looked for after the street so a suffix such as "Road"
	// never becomes part of it.
	_, locality := SplitStreet(candidate)
	if locality == "" {
		locality = candidate
	}
	if m := cityBeforeState.FindStringSubmatch(locality); m != nil {
		addr.City = strings.TrimSpace(m[1])
	}
	return addr
}

// SplitStreet separates "12 Smith Street, Parramatta NSW 2150" into the
// street ("12 Smith Street") and the rest ("Parramatta NSW 2150"). street is
// empty when the line does not start with a house number and street name.
func SplitStreet(address string) (street, rest string) {
	address = strings.TrimSpace(address)
	loc := streetPrefix.FindStringIndex(address)
	if loc == nil {
		return "", address
	}
	return strings.TrimSpace(address[:loc[1]]), strings.Trim(address[loc[1]:], " \t,")
}

// ExtractAddress exposes the address cascade on its own, for job-ad text.
func ExtractAddress(text string) (Address, bool) {
	return extractAddress(text)
}
