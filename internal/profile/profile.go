// Package profile holds the letter writer's personal details.
package profile

import (
	"strings"

	"coverletter-backend/internal/parsing"
)

// Profile is the sender block of every letter. All fields are optional.
type Profile struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	PhoneNumber  string `json:"phoneNumber"`
	EmailAddress string `json:"emailAddress"`
}

// FullName joins the non-empty name parts.
func (p Profile) FullName() string {
	return strings.TrimSpace(strings.Join(strings.Fields(p.FirstName+" "+p.LastName), " "))
}

// MergeDetails copies extracted details into fields that are still empty
// and returns the names of the fields it filled.
func MergeDetails(p Profile, d parsing.PersonalDetails) (Profile, []string) {
	var filled []string
	set := func(dst *string, value, name string) {
		value = strings.TrimSpace(value)
		if value == "" || strings.TrimSpace(*dst) != "" {
			return
		}
		*dst = value
		filled = append(filled, name)
	}
	set(&p.FirstName, d.FirstName, "firstName")
	set(&p.LastName, d.LastName, "lastName")
	set(&p.EmailAddress, d.Email, "emailAddress")
	set(&p.PhoneNumber, d.Phone, "phoneNumber")
	line1, line2 := addressLines(d)
	set(&p.AddressLine1, line1, "addressLine1")
	set(&p.AddressLine2, line2, "addressLine2")
	return p, filled
}

// addressLines puts the street on line 1 and the locality on line 2 so the
// sender block never repeats the suburb. An address without a street part
// is a locality on its own and stays on line 1.
func addressLines(d parsing.PersonalDetails) (string, string) {
	street, rest := parsing.SplitStreet(d.Address)
	if street == "" {
		if rest != "" {
			return rest, ""
		}
		return "", localityLine(d)
	}
	if locality := localityLine(d); locality != "" {
		return street, locality
	}
	return street, rest
}

func localityLine(d parsing.PersonalDetails) string {
	parts := make([]string, 0, 3)
	for _, v := range []string{d.City, d.State, d.Postcode} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	if d.City != "" && len(parts) > 1 {
		return parts[0] + ", " + strings.Join(parts[1:], " ")
	}
	return strings.Join(parts, " ")
}
