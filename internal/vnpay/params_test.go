package vnpay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRawParams() map[string]string {
	return map[string]string{
		FieldTxnRef:       "txn-1",
		FieldAmount:       "24500",
		FieldOrderInfo:    "123##10#20#",
		FieldResponseCode: "00",
		FieldSecureHash:   "deadbeef",
	}
}

func TestParseCallbackParams_Valid(t *testing.T) {
	p, err := ParseCallbackParams(validRawParams())

	require.NoError(t, err)
	assert.Equal(t, "txn-1", p.TxnRef)
	assert.Equal(t, int64(24500), p.Amount)
	assert.Equal(t, "123##10#20#", p.OrderInfo)
	assert.True(t, p.IsPaymentSuccess())
}

func TestParseCallbackParams_AmountCharged(t *testing.T) {
	p, err := ParseCallbackParams(validRawParams())

	require.NoError(t, err)
	// minor units divided by 100
	assert.Equal(t, "245", p.AmountCharged().String())
}

func TestParseCallbackParams_MissingRequiredField(t *testing.T) {
	for _, field := range []string{FieldTxnRef, FieldAmount, FieldOrderInfo, FieldResponseCode, FieldSecureHash} {
		raw := validRawParams()
		delete(raw, field)

		_, err := ParseCallbackParams(raw)

		require.ErrorIs(t, err, ErrMalformedParams, "field %s", field)
	}
}

func TestParseCallbackParams_BadAmount(t *testing.T) {
	for _, amount := range []string{"abc", "12.5", "-100", ""} {
		raw := validRawParams()
		raw[FieldAmount] = amount

		_, err := ParseCallbackParams(raw)

		require.ErrorIs(t, err, ErrMalformedParams, "amount %q", amount)
	}
}

func TestParseCallbackParams_FailedCharge(t *testing.T) {
	raw := validRawParams()
	raw[FieldResponseCode] = "24"

	p, err := ParseCallbackParams(raw)

	require.NoError(t, err)
	assert.False(t, p.IsPaymentSuccess())
}
