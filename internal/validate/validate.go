// Package validate runs declarative payload validation. Rules are struct
// tags executed by go-playground/validator; every violated rule is
// collected, so callers always see the full list of problems rather than
// the first one.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Errors is the aggregated list of violated-rule messages.
type Errors []string

func (e Errors) Error() string {
	return strings.Join(e, "; ")
}

// Messages maps "Field.tag" to the message reported when that rule fails.
type Messages map[string]string

// Merge combines message tables; later tables win on duplicate keys.
func Merge(ms ...Messages) Messages {
	out := Messages{}
	for _, m := range ms {
		for k, v := range m {
			out[k] = v
		}
	}

	return out
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	// Money fields are decimals; expose them to the engine as floats so
	// the numeric comparison tags (gt, gte) apply.
	val.RegisterCustomTypeFunc(decimalAsFloat, decimal.Decimal{})

	if err := val.RegisterValidation("notfuture", notFuture); err != nil {
		panic(fmt.Sprintf("registering notfuture rule: %v", err))
	}

	return val
}

func decimalAsFloat(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}

	return nil
}

// notFuture passes for time fields at or before the current instant.
func notFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}

	return !t.After(time.Now().UTC())
}

// Struct validates s against its tags. On failure it returns an Errors
// value with one message per violated rule, looked up by "Field.tag" in
// messages. Rules without a registered message fall back to the engine's
// description.
func Struct(s any, messages Messages) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating payload: %w", err)
	}

	out := make(Errors, 0, len(verrs))

	for _, fe := range verrs {
		key := fe.Field() + "." + fe.Tag()
		if msg, ok := messages[key]; ok {
			out = append(out, msg)
			continue
		}

		out = append(out, fe.Error())
	}

	return out
}
