package form

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names match the JSON keys the API expects.
type Field string

const (
	FieldName            Field = "name"
	FieldURLDocumento    Field = "url_documento"
	FieldNomeSignatario  Field = "nome_signatario"
	FieldEmailSignatario Field = "email_signatario"
)

// Fields lists the form fields in display order.
var Fields = []Field{FieldName, FieldURLDocumento, FieldNomeSignatario, FieldEmailSignatario}

// emailPattern matches local@host where host is one or more
// dot-separated labels of at most 63 chars. A TLD is not required.
var emailPattern = regexp.MustCompile(`^(?:[a-zA-Z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(?:\.[a-zA-Z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*)@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

const (
	maxEmailLength    = 254
	maxEmailLocalPart = 64
	msgRequired       = "is required"
	msgInvalidEmail   = "must be a valid email address"
)

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields map[Field]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[Field(k)])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Has reports whether f failed validation.
func (e *ValidationError) Has(f Field) bool {
	_, ok := e.Fields[f]
	return ok
}

var validate = newValidator()

// newValidator reports fields by their form tag and adds the form_email
// rule.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		return sf.Tag.Get("form")
	})
	if err := v.RegisterValidation("form_email", func(fl validator.FieldLevel) bool {
		return validEmail(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks v and returns a *ValidationError, or nil. A value only
// counts as missing when it is empty; whitespace is accepted.
func Validate(v Values) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[Field]string, len(verrs))
	for _, fe := range verrs {
		msg := msgRequired
		if fe.Tag() == "form_email" {
			msg = msgInvalidEmail
		}
		fields[Field(fe.Field())] = msg
	}
	return &ValidationError{Fields: fields}
}

func validEmail(s string) bool {
	if len(s) > maxEmailLength {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at < 0 || at > maxEmailLocalPart {
		return false
	}
	return emailPattern.MatchString(s)
}
