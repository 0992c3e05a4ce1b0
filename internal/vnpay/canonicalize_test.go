package vnpay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize_SortsKeysAscending(t *testing.T) {
	params := map[string]string{
		"vnp_TxnRef":  "abc",
		"vnp_Amount":  "24500",
		"vnp_Command": "pay",
	}

	got := Canonicalize(params, ModeSigning)

	assert.Equal(t, "vnp_Amount=24500&vnp_Command=pay&vnp_TxnRef=abc", got)
}

func TestCanonicalize_DropsEmptyValues(t *testing.T) {
	params := map[string]string{
		"vnp_Amount":   "100",
		"vnp_BankCode": "",
	}

	got := Canonicalize(params, ModeSigning)

	assert.Equal(t, "vnp_Amount=100", got)
}

func TestCanonicalize_EncodesValues(t *testing.T) {
	params := map[string]string{
		"vnp_OrderInfo": "123##10#20#",
	}

	assert.Equal(t, "vnp_OrderInfo=123%23%2310%2320%23", Canonicalize(params, ModeSigning))
}

func TestCanonicalize_QueryModeEncodesKeys(t *testing.T) {
	params := map[string]string{
		"weird key": "v",
	}

	assert.Equal(t, "weird key=v", Canonicalize(params, ModeSigning))
	assert.Equal(t, "weird+key=v", Canonicalize(params, ModeQuery))
}

func TestCanonicalize_InsertionOrderIndependent(t *testing.T) {
	a := map[string]string{"b": "2", "a": "1", "c": "3"}
	b := map[string]string{"c": "3", "a": "1", "b": "2"}

	assert.Equal(t, Canonicalize(a, ModeSigning), Canonicalize(b, ModeSigning))
}
