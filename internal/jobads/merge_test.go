package jobads

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	form := Form{RoleTitle: "Existing"}
	fields := Fields{RoleTitle: "New", CompanyName: "Acme"}

	got, changed := Merge(form, fields, false)
	assert.Equal(t, Form{RoleTitle: "Existing", CompanyName: "Acme"}, got)
	assert.Equal(t, []string{"companyName"}, changed)

	got, changed = Merge(form, fields, true)
	assert.Equal(t, Form{RoleTitle: "New", CompanyName: "Acme"}, got)
	assert.Equal(t, []string{"roleTitle", "companyName"}, changed)
}

func TestMerge_EmptyFieldsNeverClear(t *testing.T) {
	form := Form{RoleTitle: "Chef", RefNumber: "R1"}
	got, changed := Merge(form, Fields{}, true)
	assert.Equal(t, form, got)
	assert.Empty(t, changed)
}
