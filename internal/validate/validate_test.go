package validate

import (
	"errors"
	"testing"

	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	id, err := ID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	_, err = ID("abc")
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "id", verr.Field)
}

func TestAge(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"20", 20, false},
		{"1", 1, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"twenty", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Age(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmail(t *testing.T) {
	valid := []string{"a@x.com", "first.last@uni-mail.edu", "b_c@x.io"}
	for _, s := range valid {
		got, err := Email(s)
		assert.NoError(t, err, s)
		assert.Equal(t, s, got)
	}

	invalid := []string{"", "a@x", "no-at.com", "a@x.c", "a b@x.com", "a@x.c0m"}
	for _, s := range invalid {
		_, err := Email(s)
		assert.Error(t, err, s)
	}
}

func TestRequired(t *testing.T) {
	got, err := Required("name", "  Alice ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got)

	_, err = Required("course", "   ")
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "course", verr.Field)
	assert.Equal(t, "invalid course: cannot be empty", verr.Error())
}

func TestRequiredRejectsLineBreaks(t *testing.T) {
	for _, raw := range []string{"Al\nice", "Al\rice", "C\r\nS", "Tab\there", "Nul\x00"} {
		_, err := Required("name", raw)
		var verr *Error
		require.True(t, errors.As(err, &verr), "%q", raw)
		assert.Equal(t, "cannot contain line breaks or control characters", verr.Reason, "%q", raw)
	}

	// Surrounding whitespace, newlines included, is trimmed away first.
	got, err := Required("name", "Alice\n")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got)

	got, err = Required("course", "Génie Civil")
	require.NoError(t, err)
	assert.Equal(t, "Génie Civil", got)
}

func TestStructRejectsLineBreaks(t *testing.T) {
	s := types.Student{ID: 1, Name: "Al\nice", Age: 20, Email: "a@x.com", Course: "C\rS"}

	var verrs validator.ValidationErrors
	require.True(t, errors.As(Struct(s), &verrs))

	var tags []string
	for _, e := range verrs {
		tags = append(tags, e.Field()+":"+e.Tag())
	}
	assert.ElementsMatch(t, []string{"Name:" + SingleLineTag, "Course:" + SingleLineTag}, tags)
}

func TestStruct(t *testing.T) {
	ok := types.Student{ID: 1, Name: "Alice", Age: 20, Email: "a@x.com", Course: "CS"}
	assert.NoError(t, Struct(ok))

	bad := types.Student{ID: 2, Name: "", Age: 0, Email: "nope", Course: "EE"}
	err := Struct(bad)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	var fields []string
	for _, e := range verrs {
		fields = append(fields, e.Field())
	}
	assert.ElementsMatch(t, []string{"Name", "Age", "Email"}, fields)
}
