package organogram

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hr-organogram/internal/domain"
)

var recordValidator = newRecordValidator()

func newRecordValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateRecord проверяет обязательные поля записи.
// Ошибка всегда оборачивает domain.ErrMalformedRecord.
func ValidateRecord(p *domain.Person) error {
	err := recordValidator.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}

	reasons := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		reasons = append(reasons, fe.Field()+" "+fe.Tag())
	}
	return fmt.Errorf("%w: %s", domain.ErrMalformedRecord, strings.Join(reasons, ", "))
}
