package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

const (
	FieldSecureHash     = "vnp_SecureHash"
	FieldSecureHashType = "vnp_SecureHashType"
)

// Sign 以 HMAC-SHA512 計算簽章，回傳 hex 字串
func Sign(secret, data string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyParams 驗證 callback 參數的簽章。
// 簽章欄位會先從參數集合移除再做 canonicalize。
// 任何格式不正確（缺簽章、空參數）都是驗證失敗，回傳 false，不會是系統錯誤。
// 比對必須用常數時間比較，避免 timing side-channel。
func VerifyParams(rawParams map[string]string, secret string) bool {
	if len(rawParams) == 0 {
		return false
	}

	declared, ok := rawParams[FieldSecureHash]
	if !ok || declared == "" {
		return false
	}

	params := make(map[string]string, len(rawParams))
	for k, v := range rawParams {
		if k == FieldSecureHash || k == FieldSecureHashType {
			continue
		}
		params[k] = v
	}
	if len(params) == 0 {
		return false
	}

	expected := Sign(secret, Canonicalize(params, ModeSigning))
	return hmac.Equal([]byte(expected), []byte(declared))
}
