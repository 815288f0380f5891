package validate_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billable/internal/validate"
)

type payload struct {
	Name   string          `validate:"required,max=5"`
	When   time.Time       `validate:"required,notfuture"`
	Amount decimal.Decimal `validate:"gt=0"`
}

var payloadMessages = validate.Messages{
	"Name.required":  "Name is required",
	"Name.max":       "Name too long",
	"When.required":  "When is required",
	"When.notfuture": "When cannot be in the future",
	"Amount.gt":      "Amount must be positive",
}

func TestStruct_Valid(t *testing.T) {
	err := validate.Struct(payload{
		Name:   "ok",
		When:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(10),
	}, payloadMessages)

	assert.NoError(t, err)
}

func TestStruct_CollectsAllViolations(t *testing.T) {
	err := validate.Struct(payload{}, payloadMessages)
	require.Error(t, err)

	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
	assert.Contains(t, verrs, "Name is required")
	assert.Contains(t, verrs, "When is required")
	assert.Contains(t, verrs, "Amount must be positive")
}

func TestStruct_NotFuture(t *testing.T) {
	err := validate.Struct(payload{
		Name:   "ok",
		When:   time.Now().Add(time.Hour),
		Amount: decimal.NewFromInt(10),
	}, payloadMessages)

	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, validate.Errors{"When cannot be in the future"}, verrs)
}

func TestStruct_DecimalComparison(t *testing.T) {
	err := validate.Struct(payload{
		Name:   "ok",
		When:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(-3),
	}, payloadMessages)

	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "Amount must be positive")
}

func TestStruct_FallbackMessage(t *testing.T) {
	// No message registered for Name.max; the engine's description is used.
	err := validate.Struct(payload{
		Name:   "much too long",
		When:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(10),
	}, validate.Messages{})

	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Contains(t, verrs[0], "Name")
}

func TestErrors_Error(t *testing.T) {
	verrs := validate.Errors{"first", "second"}
	assert.Equal(t, "first; second", verrs.Error())
}

func TestMerge(t *testing.T) {
	a := validate.Messages{"A.required": "a", "B.required": "b"}
	b := validate.Messages{"B.required": "b2", "C.required": "c"}

	got := validate.Merge(a, b)
	assert.Equal(t, validate.Messages{
		"A.required": "a",
		"B.required": "b2",
		"C.required": "c",
	}, got)
}
