// Package ordercontext 編解碼走完付款來回的 opaque token：
// 買家ID、購買的課程ID清單、選擇性的折扣ID。
package ordercontext

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalid = errors.New("invalid order context")

type OrderContext struct {
	StudentID  uint
	CourseIDs  []uint // 順序保留
	DiscountID *uint
}

// Encode 產生 "<studentId>##<courseId>#<courseId>#...#"，
// 有折扣時再接上 "#<discountId>"。
func Encode(studentID uint, courseIDs []uint, discountID *uint) string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(uint64(studentID), 10))
	sb.WriteString("##")
	for _, id := range courseIDs {
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
		sb.WriteByte('#')
	}
	if discountID != nil {
		sb.WriteByte('#')
		sb.WriteString(strconv.FormatUint(uint64(*discountID), 10))
	}
	return sb.String()
}

// Decode 以 "##" 切出至多三段。
// 第三段存在但為空（尾端多出的 "##"）解讀為沒有折扣，不是錯誤也不是折扣0。
// 任何非整數 token 一律 fail closed 回傳 ErrInvalid。
func Decode(token string) (*OrderContext, error) {
	segments := strings.SplitN(token, "##", 3)
	if len(segments) < 2 {
		return nil, fmt.Errorf("%w: expected at least 2 segments in %q", ErrInvalid, token)
	}

	studentID, err := parseID(segments[0])
	if err != nil {
		return nil, fmt.Errorf("%w: bad student id %q", ErrInvalid, segments[0])
	}

	var courseIDs []uint
	for _, tok := range strings.Split(segments[1], "#") {
		if tok == "" {
			continue
		}
		id, err := parseID(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: bad course id %q", ErrInvalid, tok)
		}
		courseIDs = append(courseIDs, id)
	}

	oc := &OrderContext{StudentID: studentID, CourseIDs: courseIDs}

	if len(segments) == 3 && segments[2] != "" {
		id, err := parseID(segments[2])
		if err != nil {
			return nil, fmt.Errorf("%w: bad discount id %q", ErrInvalid, segments[2])
		}
		oc.DiscountID = &id
	}
	return oc, nil
}

func parseID(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
