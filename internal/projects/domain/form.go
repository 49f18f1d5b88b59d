package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ProjectForm carries the textual fields of a write request as received.
// A nil pointer means the field was absent; a pointer to "" means it was sent empty.
type ProjectForm struct {
	ID            *string `form:"id"`
	Name          *string `form:"name" validate:"required,min=3"`
	Desc          *string `form:"desc" validate:"required,min=1"`
	Skills        *string `form:"skills" validate:"required"`
	Contributions *string `form:"contributions" validate:"required"`
	Github        *string `form:"github"`
	Devpost       *string `form:"devpost"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	return v
}

// Validate checks the form in field order and reports the first failure.
// It never looks at the uploaded file and never decodes skills/contributions.
func (f *ProjectForm) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Message: messageFor(fe)}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Param() == "1" {
			return fmt.Sprintf("%s must not be empty", fe.Field())
		}
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// Value dereferences an optional form field.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// DecodeStructuredFields parses the JSON-encoded skills and contributions form fields.
// Either both decode or neither is returned.
func DecodeStructuredFields(skills, contributions string) ([]string, []Contribution, error) {
	var sk []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(skills)), &sk); err != nil {
		return nil, nil, fmt.Errorf("%w: skills: %v", ErrInvalidStructuredField, err)
	}

	var co []Contribution
	if err := json.Unmarshal([]byte(strings.TrimSpace(contributions)), &co); err != nil {
		return nil, nil, fmt.Errorf("%w: contributions: %v", ErrInvalidStructuredField, err)
	}

	for i, c := range co {
		if err := validate.Var(c.URL, "omitempty,http_url"); err != nil {
			return nil, nil, fmt.Errorf("%w: contributions[%d].url must be an http(s) URL", ErrInvalidStructuredField, i)
		}
	}

	if sk == nil {
		sk = []string{}
	}
	if co == nil {
		co = []Contribution{}
	}
	return sk, co, nil
}

// ValidateRecord applies the same rules as a write request to an already
// decoded project, such as one read from a seed file.
func ValidateRecord(p Project) error {
	skills, contributions, err := EncodeStructuredFields(p.Skills, p.Contributions)
	if err != nil {
		return err
	}
	f := ProjectForm{Name: &p.Name, Desc: &p.Desc, Skills: &skills, Contributions: &contributions}
	if err := f.Validate(); err != nil {
		return err
	}
	_, _, err = DecodeStructuredFields(skills, contributions)
	return err
}

// EncodeStructuredFields is the inverse of DecodeStructuredFields.
func EncodeStructuredFields(skills []string, contributions []Contribution) (string, string, error) {
	if skills == nil {
		skills = []string{}
	}
	if contributions == nil {
		contributions = []Contribution{}
	}

	sk, err := json.Marshal(skills)
	if err != nil {
		return "", "", fmt.Errorf("encode skills: %w", err)
	}
	co, err := json.Marshal(contributions)
	if err != nil {
		return "", "", fmt.Errorf("encode contributions: %w", err)
	}
	return string(sk), string(co), nil
}
