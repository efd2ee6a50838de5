package parsing

import (
	"regexp"
)

// PersonalDetails is the extractor's best-effort view of the applicant.
// Every field may be empty.
type PersonalDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
}

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// phonePatterns are tried in order; the first with any match wins.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+61[ \t]?4\d{2}[ \t]?\d{3}[ \t]?\d{3}`),
	regexp.MustCompile(`\b04\d{2}[ \t]?\d{3}[ \t]?\d{3}\b`),
	regexp.MustCompile(`\(0[2-8]\)[ \t]?\d{4}[ \t]?\d{4}`),
	regexp.MustCompile(`\b0[2-8][ \t]?\d{4}[ \t]?\d{4}\b`),
	regexp.MustCompile(`\+61[ \t]?[2-8][ \t]?\d{4}[ \t]?\d{4}`),
	regexp.MustCompile(`\+\d{1,3}[ \t-]?\(?\d{1,4}\)?[ \t-]?\d{3,4}[ \t-]?\d{3,4}`),
	regexp.MustCompile(`\(?\b\d{3}\)?[ \t.-]?\d{3}[ \t.-]?\d{4}\b`),
}

// ExtractPersonalDetails runs the email, phone, name and address cascades.
// ok is false unless a first name or an email was recovered.
func ExtractPersonalDetails(text, fileName string) (PersonalDetails, bool) {
	var d PersonalDetails

	d.Email = emailPattern.FindString(text)
	d.Phone = extractPhone(text)

	name, _, found := extractName(nameInput{
		text:     text,
		lines:    nonEmptyLines(text, 0),
		fileName: fileName,
		email:    d.Email,
	})
	if found {
		d.FirstName = name.first
		d.LastName = name.last
		d.FullName = name.full()
	}

	if addr, ok := extractAddress(text); ok {
		d.Address = addr.Line
		d.City = addr.City
		d.State = addr.State
		d.Postcode = addr.Postcode
	}

	if d.FirstName == "" && d.Email == "" {
		return PersonalDetails{}, false
	}
	return d, true
}

func extractPhone(text string) string {
	for _, p := range phonePatterns {
		if m := p.FindString(text); m != "" {
			return CollapseWhitespace(m)
		}
	}
	return ""
}
