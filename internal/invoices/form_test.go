package invoices

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() url.Values {
	return url.Values{
		"customerId": {"3958dc9e-712f-4377-85e9-fec4b6a6442a"},
		"amount":     {"10.50"},
		"status":     {"pending"},
	}
}

func TestParseFormValid(t *testing.T) {
	in, errs := ParseForm(validForm())
	require.Nil(t, errs)
	assert.Equal(t, "3958dc9e-712f-4377-85e9-fec4b6a6442a", in.CustomerID)
	assert.Equal(t, 10.5, in.Amount)
	assert.Equal(t, StatusPending, in.Status)
	assert.Equal(t, int64(1050), Cents(in.Amount))
}

func TestParseFormAmountRules(t *testing.T) {
	cases := map[string]string{
		"zero":        "0",
		"negative":    "-5",
		"blank":       "",
		"not numeric": "ten",
		"sub cent":    "0.001",
		"infinite":    "Inf",
	}
	for name, amount := range cases {
		t.Run(name, func(t *testing.T) {
			form := validForm()
			form.Set("amount", amount)
			_, errs := ParseForm(form)
			require.NotNil(t, errs)
			assert.Equal(t, []string{MsgAmount}, errs["amount"])
			assert.False(t, errs.Has("customerId"))
			assert.False(t, errs.Has("status"))
		})
	}
}

func TestParseFormAmountTooLarge(t *testing.T) {
	form := validForm()
	form.Set("amount", "1e20")
	_, errs := ParseForm(form)
	assert.Equal(t, []string{MsgAmountMax}, errs["amount"])
}

func TestParseFormReportsOnlyFaultyFields(t *testing.T) {
	form := validForm()
	form.Del("customerId")
	form.Set("status", "overdue")

	_, errs := ParseForm(form)
	require.Len(t, errs, 2)
	assert.Equal(t, []string{MsgCustomer}, errs["customerId"])
	assert.Equal(t, []string{MsgStatus}, errs["status"])
	assert.False(t, errs.Has("amount"))
}

func TestParseFormEmptyReportsEveryField(t *testing.T) {
	_, errs := ParseForm(url.Values{})
	assert.Equal(t, FieldErrors{
		"customerId": {MsgCustomer},
		"amount":     {MsgAmount},
		"status":     {MsgStatus},
	}, errs)
}

func TestParseFormIgnoresExtraFields(t *testing.T) {
	form := validForm()
	form.Set("id", "forged")
	form.Set("date", "1999-01-01")
	_, errs := ParseForm(form)
	assert.Nil(t, errs)
}

func TestParseFormAmountUpperBound(t *testing.T) {
	in, errs := ParseForm(url.Values{"customerId": {"c"}, "amount": {"21474836.47"}, "status": {"paid"}})
	require.Nil(t, errs)
	assert.Equal(t, int64(MaxAmountCents), Cents(in.Amount))

	for _, amount := range []string{"21474836.48", "30000000"} {
		_, errs = ParseForm(url.Values{"customerId": {"c"}, "amount": {amount}, "status": {"paid"}})
		assert.Equal(t, FieldErrors{"amount": {MsgAmountMax}}, errs, amount)
	}
}

func TestCentsRoundTripsFormattedAmounts(t *testing.T) {
	check := func(c int64) {
		amount := fmt.Sprintf("%.2f", float64(c)/100)
		in, errs := ParseForm(url.Values{"customerId": {"c"}, "amount": {amount}, "status": {"paid"}})
		require.Nil(t, errs, amount)
		require.Equal(t, c, Cents(in.Amount), amount)
	}
	for c := int64(1); c <= 20000; c++ {
		check(c)
	}
	for c := int64(MaxAmountCents); c > MaxAmountCents-20000; c -= 7 {
		check(c)
	}
}

func TestCentsRounding(t *testing.T) {
	for amount, want := range map[string]int64{
		"1":      100,
		"10.50":  1050,
		"0.01":   1,
		"19.999": 2000,
	} {
		in, errs := ParseForm(url.Values{"customerId": {"c"}, "amount": {amount}, "status": {"paid"}})
		require.Nil(t, errs, amount)
		assert.Equal(t, want, Cents(in.Amount), amount)
	}
}
