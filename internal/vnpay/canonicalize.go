package vnpay

import (
	"net/url"
	"sort"
	"strings"
)

// CanonicalizeMode 決定 key 是否做 url encode。
// 簽章字串的 key 不編碼，組 redirect URL 時的 key 才編碼。
type CanonicalizeMode int

const (
	ModeSigning CanonicalizeMode = iota
	ModeQuery
)

// Canonicalize 把參數集合序列化成確定性的字串：
// 空值參數剔除，key 依 byte 值遞增排序，以 key=encode(value) 用 & 串接。
func Canonicalize(params map[string]string, mode CanonicalizeMode) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		if mode == ModeQuery {
			sb.WriteString(url.QueryEscape(k))
		} else {
			sb.WriteString(k)
		}
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(params[k]))
	}
	return sb.String()
}
