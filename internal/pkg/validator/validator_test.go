package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestHasEmailDomain(t *testing.T) {
	assert.True(t, HasEmailDomain("a@seunits.com", "seunits.com"))
	assert.True(t, HasEmailDomain("a@SEUnits.com", "seunits.com"))
	assert.True(t, HasEmailDomain("a@other.com", ""))
	assert.False(t, HasEmailDomain("a@seunits.com.evil.io", "seunits.com"))
	assert.False(t, HasEmailDomain("seunits.com", "seunits.com"))
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidDayOrInstant(t *testing.T) {
	valid := []string{"2024-01-15", "2024-01-15T10:30:00Z", "2024-01-15T10:30:00+05:30", "2024-01-15T10:30:00.123Z"}
	invalid := []string{"15-01-2024", "2024-01-15 10:30", "yesterday", ""}
	for _, s := range valid {
		if !IsValidDayOrInstant(s) {
			t.Errorf("IsValidDayOrInstant(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidDayOrInstant(s) {
			t.Errorf("IsValidDayOrInstant(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "date", Message: "required"},
	}
	got := errs.Error()
	want := "email: invalid; date: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "date", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"email": "invalid", "date": "required"}
	assert.Equal(t, want, got)
}

type structUnderTest struct {
	Name  string `json:"name" validate:"required,max=10"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role,omitempty" validate:"omitempty,oneof=admin employee"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(structUnderTest{Name: "Asha", Email: "asha@seunits.com"}))

	err := Struct(structUnderTest{Name: "", Email: "nope", Role: "owner"})
	require.Error(t, err)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	m := errs.ToMap()
	assert.Equal(t, "name is required", m["name"])
	assert.Equal(t, "email must be a valid email address", m["email"])
	assert.Equal(t, "role must be one of: admin, employee", m["role"])
}
