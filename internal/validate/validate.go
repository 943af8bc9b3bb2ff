// Package validate holds the pure answer validators for the intake flow.
// Each function normalizes one raw text answer into a typed value or
// returns a user-facing error describing how to fix the input.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// GridUnitMM is the modular increment all LED dimensions must follow.
const GridUnitMM = 500

const (
	MinStageHeightMM = 0
	MaxStageHeightMM = 10000
)

var (
	sizePattern   = regexp.MustCompile(`^(\d+)\s*(?:mm)?\s*[xX*×,]\s*(\d+)\s*(?:mm)?$`)
	heightPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(mm|cm|m|MM|CM|M)?$`)
	phonePattern  = regexp.MustCompile(`^\d+$`)
	rangePattern  = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s*(?:~|〜|부터|에서|to|,|-)?\s*(\d{4}-\d{2}-\d{2})$`)
)

// LEDSize parses an equipment size answer like "5000x3000". Both sides
// must be positive multiples of the 500mm grid unit.
func LEDSize(raw string) (w, h int, err error) {
	m := sizePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, 0, fmt.Errorf("크기를 인식하지 못했습니다. 예: 5000x3000 형식으로 입력해 주세요")
	}

	w, _ = strconv.Atoi(m[1])
	h, _ = strconv.Atoi(m[2])

	for _, side := range []struct {
		label string
		value int
	}{{"가로", w}, {"세로", h}} {
		if side.value < GridUnitMM || side.value%GridUnitMM != 0 {
			return 0, 0, fmt.Errorf(
				"%s %dmm은 %dmm 단위가 아닙니다. %dmm을 의미하셨나요?",
				side.label, side.value, GridUnitMM, nearestGrid(side.value),
			)
		}
	}

	return w, h, nil
}

// CanonicalSize renders a validated size pair in the canonical form.
func CanonicalSize(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}

func nearestGrid(v int) int {
	n := (v + GridUnitMM/2) / GridUnitMM * GridUnitMM
	if n < GridUnitMM {
		n = GridUnitMM
	}
	return n
}

// StageHeight parses a stage height answer. Bare numbers are millimeters;
// mm/cm/m suffixes are converted. Valid range is 0–10,000mm inclusive.
func StageHeight(raw string) (int, error) {
	m := heightPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, fmt.Errorf("무대 높이를 인식하지 못했습니다. 예: 600 또는 60cm 형식으로 입력해 주세요")
	}

	value, _ := strconv.ParseFloat(m[1], 64)
	switch strings.ToLower(m[2]) {
	case "cm":
		value *= 10
	case "m":
		value *= 1000
	}

	mm := int(value)
	if mm < MinStageHeightMM || mm > MaxStageHeightMM {
		return 0, fmt.Errorf("무대 높이는 %d~%dmm 범위여야 합니다", MinStageHeightMM, MaxStageHeightMM)
	}
	return mm, nil
}

// Count parses a bounded integer answer, used for the equipment count.
func Count(raw string, min, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("%d~%d 사이 숫자로 입력해 주세요", min, max)
	}
	return n, nil
}

// mobile and metro/area prefixes accepted for contact phone numbers.
var phonePrefixes = []string{
	"010", "011", "016", "017", "018", "019",
	"02",
	"031", "032", "033", "041", "042", "043", "044",
	"051", "052", "053", "054", "055", "061", "062", "063", "064",
	"070",
}

// Phone normalizes a Korean phone number to the canonical hyphenated form,
// e.g. "01012345678" → "010-1234-5678".
func Phone(raw string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	if !phonePattern.MatchString(digits) {
		return "", phoneError()
	}

	prefix := ""
	for _, p := range phonePrefixes {
		if strings.HasPrefix(digits, p) && len(p) > len(prefix) {
			prefix = p
		}
	}
	if prefix == "" {
		return "", phoneError()
	}

	rest := digits[len(prefix):]
	if len(rest) < 7 || len(rest) > 8 {
		return "", phoneError()
	}

	return fmt.Sprintf("%s-%s-%s", prefix, rest[:len(rest)-4], rest[len(rest)-4:]), nil
}

func phoneError() error {
	return fmt.Errorf("전화번호 형식이 올바르지 않습니다. 예: 010-1234-5678")
}

// DateRange parses a rental period answer of two ISO dates joined by a
// connector token, returning canonical dates and the inclusive day count.
func DateRange(raw string) (start, end string, days int, err error) {
	m := rangePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", "", 0, fmt.Errorf("기간을 인식하지 못했습니다. 예: 2025-07-09 ~ 2025-07-11 형식으로 입력해 주세요")
	}

	from, err1 := time.Parse("2006-01-02", m[1])
	to, err2 := time.Parse("2006-01-02", m[2])
	if err1 != nil || err2 != nil {
		return "", "", 0, fmt.Errorf("날짜가 올바르지 않습니다. 예: 2025-07-09 ~ 2025-07-11")
	}
	if to.Before(from) {
		return "", "", 0, fmt.Errorf("종료일이 시작일보다 빠를 수 없습니다")
	}

	days = int(to.Sub(from).Hours()/24) + 1
	return m[1], m[2], days, nil
}
