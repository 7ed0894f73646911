package book

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// present accepts any non-null value, including "" and 0. Null and
	// absent fields never reach the func: a nil interface fails the tag.
	_ = validate.RegisterValidation("present", func(fl validator.FieldLevel) bool {
		return fl.Field().IsValid()
	})
	// text accepts JSON strings only. json.Number has string kind, so the
	// type is compared rather than the kind.
	_ = validate.RegisterValidation("text", func(fl validator.FieldLevel) bool {
		return fl.Field().Type() == stringType
	})
}

var stringType = reflect.TypeOf("")

var fieldMessages = map[string]string{
	"asin.present":     "You should specify the asin",
	"asin.text":        "ASIN should be a string",
	"title.present":    "Title is required",
	"category.present": "Category is required",
	"img.present":      "Img is required",
}

// validateCreate checks the required fields of a new book and returns every
// problem at once.
func validateCreate(req CreateRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		field := fe.Field()
		msg, ok := fieldMessages[field+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", field)
		}
		out.Fields = append(out.Fields, FieldError{Field: field, Message: msg})
	}
	return out
}
