package vnpay

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	FieldVersion       = "vnp_Version"
	FieldCommand       = "vnp_Command"
	FieldTmnCode       = "vnp_TmnCode"
	FieldAmount        = "vnp_Amount"
	FieldCurrCode      = "vnp_CurrCode"
	FieldTxnRef        = "vnp_TxnRef"
	FieldOrderInfo     = "vnp_OrderInfo"
	FieldOrderType     = "vnp_OrderType"
	FieldLocale        = "vnp_Locale"
	FieldReturnURL     = "vnp_ReturnUrl"
	FieldIPAddr        = "vnp_IpAddr"
	FieldCreateDate    = "vnp_CreateDate"
	FieldResponseCode  = "vnp_ResponseCode"
	FieldTransactionNo = "vnp_TransactionNo"
	FieldBankCode      = "vnp_BankCode"
	FieldPayDate       = "vnp_PayDate"
)

// 閘道回應 00 代表扣款成功
const ResponseCodeSuccess = "00"

var ErrMalformedParams = errors.New("malformed callback params")

// CallbackParams 是閘道 callback 的具名欄位 schema。
// 進業務邏輯前先在邊界把鬆散的 string map 驗證成型別化欄位。
type CallbackParams struct {
	TxnRef        string
	Amount        int64 // 最小幣值單位，實際金額要除以100
	OrderInfo     string
	ResponseCode  string
	TransactionNo string
	BankCode      string
	PayDate       string
	SecureHash    string
}

// ParseCallbackParams 驗證必要欄位並解析型別。
// 必要欄位: vnp_TxnRef, vnp_Amount, vnp_OrderInfo, vnp_ResponseCode, vnp_SecureHash
func ParseCallbackParams(raw map[string]string) (*CallbackParams, error) {
	p := &CallbackParams{
		TxnRef:        raw[FieldTxnRef],
		OrderInfo:     raw[FieldOrderInfo],
		ResponseCode:  raw[FieldResponseCode],
		TransactionNo: raw[FieldTransactionNo],
		BankCode:      raw[FieldBankCode],
		PayDate:       raw[FieldPayDate],
		SecureHash:    raw[FieldSecureHash],
	}

	if p.TxnRef == "" || p.OrderInfo == "" || p.ResponseCode == "" || p.SecureHash == "" {
		return nil, fmt.Errorf("%w: missing required field", ErrMalformedParams)
	}

	rawAmount, ok := raw[FieldAmount]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedParams, FieldAmount)
	}
	amount, err := strconv.ParseInt(rawAmount, 10, 64)
	if err != nil || amount < 0 {
		return nil, fmt.Errorf("%w: invalid %s %q", ErrMalformedParams, FieldAmount, rawAmount)
	}
	p.Amount = amount

	return p, nil
}

// AmountCharged 回傳正規單位的實際扣款金額
func (p *CallbackParams) AmountCharged() decimal.Decimal {
	return decimal.NewFromInt(p.Amount).Div(decimal.NewFromInt(100))
}

func (p *CallbackParams) IsPaymentSuccess() bool {
	return p.ResponseCode == ResponseCodeSuccess
}
