package validators

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
	"github.com/angelmondragon/rfqdesk/pkg/types"
)

const (
	msgInvalidBody = "صيغة الطلب غير صالحة"
	msgIncomplete  = "بيانات الطلب غير مكتملة"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	// FlexString fields are validated on their trimmed text so "  " fails required.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if s, ok := field.Interface().(types.FlexString); ok {
			return s.String()
		}
		return nil
	}, types.FlexString(""))
	return v
}

// DecodeJSONBody decodes the request body into dest and runs its validate tags.
// Unknown fields are ignored; the mini-app sends extra display fields.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msgInvalidBody).WithDetails(map[string]any{"error": err.Error()})
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, msgIncomplete).WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msgIncomplete)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "مطلوب"
	case "max":
		return "أطول من المسموح"
	}
	return "غير صالح"
}
