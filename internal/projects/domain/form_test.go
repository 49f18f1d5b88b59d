package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func validForm() *ProjectForm {
	return &ProjectForm{
		Name:          ptr("PostOne"),
		Desc:          ptr("Smart mailbox attachment"),
		Skills:        ptr(`["Python","AWS"]`),
		Contributions: ptr(`[{"name":"Personal Project"}]`),
	}
}

func TestProjectForm_Validate(t *testing.T) {
	t.Run("accepts a complete form", func(t *testing.T) {
		assert.NoError(t, validForm().Validate())
	})

	t.Run("accepts empty optional fields", func(t *testing.T) {
		f := validForm()
		f.ID = ptr("")
		f.Github = ptr("")
		f.Devpost = ptr("")
		assert.NoError(t, f.Validate())
	})

	tests := []struct {
		name    string
		mutate  func(f *ProjectForm)
		field   string
		message string
	}{
		{"missing name", func(f *ProjectForm) { f.Name = nil }, "name", "name is required"},
		{"short name", func(f *ProjectForm) { f.Name = ptr("ab") }, "name", "name must be at least 3 characters"},
		{"missing desc", func(f *ProjectForm) { f.Desc = nil }, "desc", "desc is required"},
		{"empty desc", func(f *ProjectForm) { f.Desc = ptr("") }, "desc", "desc must not be empty"},
		{"missing skills", func(f *ProjectForm) { f.Skills = nil }, "skills", "skills is required"},
		{"missing contributions", func(f *ProjectForm) { f.Contributions = nil }, "contributions", "contributions is required"},
		{"first failure wins", func(f *ProjectForm) {
			f.Name = ptr("x")
			f.Skills = nil
		}, "name", "name must be at least 3 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(f)

			err := f.Validate()
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.message, ve.Error())
			assert.True(t, IsClientError(err))
		})
	}

	t.Run("skills json is not checked here", func(t *testing.T) {
		f := validForm()
		f.Skills = ptr("not json")
		assert.NoError(t, f.Validate())
	})
}

func TestDecodeStructuredFields(t *testing.T) {
	t.Run("decodes arrays in order", func(t *testing.T) {
		skills, contribs, err := DecodeStructuredFields(`["A","B"]`, `[{"name":"X"},{"name":"Y","url":"https://github.com/y"}]`)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, skills)
		assert.Equal(t, []Contribution{{Name: "X"}, {Name: "Y", URL: "https://github.com/y"}}, contribs)
	})

	t.Run("null becomes empty", func(t *testing.T) {
		skills, contribs, err := DecodeStructuredFields("null", "[]")
		require.NoError(t, err)
		assert.NotNil(t, skills)
		assert.Empty(t, skills)
		assert.NotNil(t, contribs)
	})

	t.Run("malformed skills", func(t *testing.T) {
		_, _, err := DecodeStructuredFields("not json", "[]")
		assert.ErrorIs(t, err, ErrInvalidStructuredField)
		assert.True(t, IsClientError(err))
	})

	t.Run("malformed contributions", func(t *testing.T) {
		_, _, err := DecodeStructuredFields(`["A"]`, `{"name":"X"}`)
		assert.ErrorIs(t, err, ErrInvalidStructuredField)
	})

	t.Run("contribution url must be http or https", func(t *testing.T) {
		for _, u := range []string{"javascript:alert(1)", "data:text/html,hi", "not a url"} {
			_, _, err := DecodeStructuredFields(`[]`, `[{"name":"X","url":"`+u+`"}]`)
			assert.ErrorIs(t, err, ErrInvalidStructuredField, u)
		}

		_, contribs, err := DecodeStructuredFields(`[]`, `[{"name":"X","url":"http://example.com/x"}]`)
		require.NoError(t, err)
		assert.Equal(t, "http://example.com/x", contribs[0].URL)
	})

	t.Run("wrong element type", func(t *testing.T) {
		_, _, err := DecodeStructuredFields(`["A", 2]`, `[]`)
		assert.ErrorIs(t, err, ErrInvalidStructuredField)
	})
}

func TestEncodeStructuredFields(t *testing.T) {
	sk, co, err := EncodeStructuredFields([]string{"Go"}, []Contribution{{Name: "Ann"}})
	require.NoError(t, err)
	assert.Equal(t, `["Go"]`, sk)
	assert.Equal(t, `[{"name":"Ann"}]`, co)

	sk, co, err = EncodeStructuredFields(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", sk)
	assert.Equal(t, "[]", co)
}

func TestProject_ApplyKeepsImageWithoutNewFile(t *testing.T) {
	p := Project{ID: "1", Name: "old", Image: "images/old.png"}
	p.Apply(ProjectPatch{Name: "new", Desc: "d"})

	assert.Equal(t, "new", p.Name)
	assert.Equal(t, "images/old.png", p.Image)
	assert.Equal(t, []string{}, p.Skills)

	img := "images/new.png"
	p.Apply(ProjectPatch{Name: "new", Desc: "d", Image: &img})
	assert.Equal(t, "images/new.png", p.Image)
}

func TestProject_CloneIsDeep(t *testing.T) {
	p := Project{Skills: []string{"Go"}, Contributions: []Contribution{{Name: "A"}}}
	c := p.Clone()
	c.Skills[0] = "Rust"
	c.Contributions[0].Name = "B"

	assert.Equal(t, "Go", p.Skills[0])
	assert.Equal(t, "A", p.Contributions[0].Name)
}

func TestValidateRecord(t *testing.T) {
	valid := Project{Name: "PostOne", Desc: "d", Contributions: []Contribution{{Name: "A", URL: "https://github.com/a"}}}
	assert.NoError(t, ValidateRecord(valid))

	short := valid
	short.Name = "ab"
	var ve *ValidationError
	require.True(t, errors.As(ValidateRecord(short), &ve))
	assert.Equal(t, "name", ve.Field)

	noDesc := valid
	noDesc.Desc = ""
	require.True(t, errors.As(ValidateRecord(noDesc), &ve))
	assert.Equal(t, "desc", ve.Field)

	badURL := valid
	badURL.Contributions = []Contribution{{Name: "A", URL: "javascript:alert(1)"}}
	assert.ErrorIs(t, ValidateRecord(badURL), ErrInvalidStructuredField)
}
