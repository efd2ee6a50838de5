// Package placeholders resolves [Token] and {Token} markers in paragraph
// text against the current letter's field values.
package placeholders

import (
	"regexp"
	"strings"
)

// Values are the live field values a token can resolve to.
type Values struct {
	Role      string `json:"role"`
	Company   string `json:"company"`
	Contact   string `json:"contact"`
	Reference string `json:"reference"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

type field int

const (
	fieldRole field = iota
	fieldCompany
	fieldContact
	fieldReference
	fieldAddress
	fieldPhone
	fieldEmail
)

// synonyms maps a token's lower-cased inner text to the field it names.
var synonyms = map[string]field{
	"role":             fieldRole,
	"role title":       fieldRole,
	"job title":        fieldRole,
	"position":         fieldRole,
	"position title":   fieldRole,
	"company":          fieldCompany,
	"company name":     fieldCompany,
	"organisation":     fieldCompany,
	"employer":         fieldCompany,
	"employer name":    fieldCompany,
	"contact":          fieldContact,
	"contact person":   fieldContact,
	"hiring manager":   fieldContact,
	"reference":        fieldReference,
	"reference number": fieldReference,
	"ref number":       fieldReference,
	"address":          fieldAddress,
	"business address": fieldAddress,
	"phone":            fieldPhone,
	"phone number":     fieldPhone,
	"email":            fieldEmail,
	"email address":    fieldEmail,
}

var tokenPattern = regexp.MustCompile(`\[([^\[\]\n]+)\]|\{([^{}\n]+)\}`)

func (v Values) lookup(f field) string {
	switch f {
	case fieldRole:
		return v.Role
	case fieldCompany:
		return v.Company
	case fieldContact:
		return v.Contact
	case fieldReference:
		return v.Reference
	case fieldAddress:
		return v.Address
	case fieldPhone:
		return v.Phone
	case fieldEmail:
		return v.Email
	}
	return ""
}

// Apply replaces every recognised token whose value is non-empty. Unknown
// tokens and tokens with an empty value are left verbatim.
func Apply(text string, values Values) string {
	return tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		f, ok := synonyms[innerKey(token)]
		if !ok {
			return token
		}
		if val := strings.TrimSpace(values.lookup(f)); val != "" {
			return val
		}
		return token
	})
}

// Tokens lists the recognised tokens in text, in order of appearance.
func Tokens(text string) []string {
	var out []string
	for _, token := range tokenPattern.FindAllString(text, -1) {
		if _, ok := synonyms[innerKey(token)]; ok {
			out = append(out, token)
		}
	}
	return out
}

func innerKey(token string) string {
	inner := token[1 : len(token)-1]
	return strings.ToLower(strings.TrimSpace(inner))
}
