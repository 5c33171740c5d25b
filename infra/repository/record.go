// Package repository holds the record codecs shared by the collection-backed
// repositories. Stored records are loosely typed: numbers may arrive as
// strings and strings as numbers, and any key may be missing.
package repository

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// String normalises a record value to a string. Numbers keep their literal
// form, so 483920174 and "483920174" both yield "483920174".
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// Decimal parses a numeric record value. Missing or unparsable values are
// zero.
func Decimal(v any) decimal.Decimal {
	s := strings.TrimSpace(String(v))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Number renders a decimal as a JSON number literal.
func Number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// Time parses a record value with layout in the local zone. ok is false when
// the value is missing or malformed.
func Time(v any, layout string) (t time.Time, ok bool) {
	s := strings.TrimSpace(String(v))
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(layout, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// StringOr returns the string form of v, or def when it is empty.
func StringOr(v any, def string) string {
	if s := String(v); s != "" {
		return s
	}
	return def
}
