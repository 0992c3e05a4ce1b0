package vnpay

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Config 是閘道端設定，由 viper 載入後注入
type Config struct {
	PayURL     string
	TmnCode    string
	HashSecret string
	ReturnURL  string
}

// PaymentRequest 是建立付款導轉網址需要的最小輸入
type PaymentRequest struct {
	TxnRef     string
	Amount     decimal.Decimal // 正規單位，送給閘道前轉成最小幣值單位
	OrderInfo  string          // order context token，原樣走完整個付款來回
	ClientIP   string
	CreateTime time.Time
}

// BuildPaymentURL 組出簽章過的付款導轉網址。
// 簽章用 ModeSigning 的 canonical 字串，query string 本身用 ModeQuery。
func BuildPaymentURL(cfg Config, req PaymentRequest) string {
	params := map[string]string{
		FieldVersion:    "2.1.0",
		FieldCommand:    "pay",
		FieldTmnCode:    cfg.TmnCode,
		FieldAmount:     req.Amount.Shift(2).StringFixed(0),
		FieldCurrCode:   "VND",
		FieldTxnRef:     req.TxnRef,
		FieldOrderInfo:  req.OrderInfo,
		FieldOrderType:  "other",
		FieldLocale:     "vn",
		FieldReturnURL:  cfg.ReturnURL,
		FieldIPAddr:     req.ClientIP,
		FieldCreateDate: req.CreateTime.Format("20060102150405"),
	}

	secureHash := Sign(cfg.HashSecret, Canonicalize(params, ModeSigning))
	query := Canonicalize(params, ModeQuery)
	return fmt.Sprintf("%s?%s&%s=%s", cfg.PayURL, query, FieldSecureHash, secureHash)
}
