package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "483920174", String(json.Number("483920174")))
	assert.Equal(t, "483920174", String(float64(483920174)))
	assert.Equal(t, "483920174", String("483920174"))
	assert.Equal(t, "42", String(42))
	assert.Equal(t, "", String(nil))
}

func TestDecimal(t *testing.T) {
	assert.True(t, Decimal(json.Number("7421000")).Equal(decimal.NewFromInt(7421000)))
	assert.True(t, Decimal("12.50").Equal(decimal.RequireFromString("12.5")))
	assert.True(t, Decimal(float64(0.1)).Equal(decimal.RequireFromString("0.1")))
	assert.True(t, Decimal("abc").IsZero())
	assert.True(t, Decimal(nil).IsZero())
}

func TestTime(t *testing.T) {
	ts, ok := Time("2023-06-15 09:00:00", "2006-01-02 15:04:05")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2023, 6, 15, 9, 0, 0, 0, time.Local), ts)

	_, ok = Time("15/06/2023", "2006-01-02 15:04:05")
	assert.False(t, ok)
	_, ok = Time(nil, "2006-01-02")
	assert.False(t, ok)
}

func TestStringOr(t *testing.T) {
	assert.Equal(t, "transfer", StringOr(nil, "transfer"))
	assert.Equal(t, "flagged", StringOr("flagged", "completed"))
}
