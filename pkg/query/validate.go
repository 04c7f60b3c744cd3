package query

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kraxel/txquery/pkg/db/models"
)

var identPattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,64}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("param"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("txid", func(fl validator.FieldLevel) bool {
		return models.ValidTxID(fl.Field().String())
	})
	_ = v.RegisterValidation("address", func(fl validator.FieldLevel) bool {
		return models.ValidAddress(fl.Field().String())
	})
	_ = v.RegisterValidation("ident", func(fl validator.FieldLevel) bool {
		return identPattern.MatchString(fl.Field().String())
	})
	return v
}

// check validates req and reports the first offending parameter.
func check(req any) *Error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &Error{Kind: KindInternal, Message: "internal error", Err: err}
	}
	fe := verrs[0]
	return invalidArg("%s %s", fe.Field(), errorMsg(fe))
}

func errorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "number":
		return "must be a non-negative integer"
	case "boolean":
		return "must be true or false"
	case "txid":
		return "is not a valid transaction id"
	case "address":
		return "is not a valid address"
	case "ident":
		return "must be a short identifier"
	case "datetime":
		return "must be a date in YYYY-MM-DD form"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}
