package jobads

// Form is the job section of the current letter.
type Form struct {
	RoleTitle       string `json:"roleTitle"`
	CompanyName     string `json:"companyName"`
	ContactPerson   string `json:"contactPerson"`
	BusinessAddress string `json:"businessAddress"`
	RefNumber       string `json:"refNumber"`
}

// Merge copies non-empty extracted fields into form. Fields the form already
// holds are kept unless override is set. It returns the updated form and the
// JSON names of the fields that changed.
func Merge(form Form, f Fields, override bool) (Form, []string) {
	var changed []string
	set := func(dst *string, val, name string) {
		if val == "" || *dst == val {
			return
		}
		if *dst != "" && !override {
			return
		}
		*dst = val
		changed = append(changed, name)
	}
	set(&form.RoleTitle, f.RoleTitle, "roleTitle")
	set(&form.CompanyName, f.CompanyName, "companyName")
	set(&form.ContactPerson, f.ContactPerson, "contactPerson")
	set(&form.BusinessAddress, f.BusinessAddress, "businessAddress")
	set(&form.RefNumber, f.RefNumber, "refNumber")
	return form, changed
}
