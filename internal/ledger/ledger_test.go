package ledger

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookups(t *testing.T) {
	t.Parallel()
	reg := DefaultRegistry()

	require.Len(t, append(reg.ForType(Expense), reg.ForType(Income)...), 12)
	require.Equal(t, "charcoal", reg.DefaultFor(Expense).ID)
	require.Equal(t, "alipay", reg.DefaultFor(Income).ID)
	require.Equal(t, "cash", reg.Fallback().ID)

	c := reg.FindByID("flour")
	require.Equal(t, "面粉", c.Name)
	require.Equal(t, Expense, c.Type)
	require.Equal(t, "cash", reg.FindByID("gone").ID)

	_, ok := reg.FindByName("买菜")
	require.False(t, ok)
	c, ok = reg.FindByName("微信")
	require.True(t, ok)
	require.Equal(t, "wechat", c.ID)

	for _, c := range reg.ForType(Income) {
		require.Equal(t, Income, c.Type)
	}
}

func TestNewRegistryRejectsDuplicateIDs(t *testing.T) {
	t.Parallel()
	require.Panics(t, func() {
		NewRegistry([]Category{{ID: "x", Name: "a"}}, []Category{{ID: "x", Name: "b"}})
	})
}

func TestNewTransaction(t *testing.T) {
	t.Parallel()
	reg := DefaultRegistry()
	at := time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)

	tx, err := New(NewID(at), Expense, decimal.RequireFromString("52.5"), reg.FindByID("other"), "超市购物", at)
	require.NoError(t, err)
	require.Equal(t, "other", tx.CategoryID)
	require.Equal(t, "其他", tx.CategoryName)
	require.Equal(t, "2024-05-20T09:30:00.000Z", tx.Date)
	require.Equal(t, at.UnixMilli(), tx.Timestamp)
	require.Equal(t, "-52.5", tx.Signed().String())
	require.NoError(t, tx.Validate())

	_, err = New("1", Expense, decimal.Zero, reg.FindByID("other"), "", at)
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = New("1", Type("transfer"), decimal.NewFromInt(1), reg.FindByID("other"), "", at)
	require.True(t, errors.Is(err, ErrUnknownType))
}

func TestTransactionJSONAcceptsNumericAmount(t *testing.T) {
	t.Parallel()
	raw := `{"id":"1716190200000","amount":52.5,"type":"expense","categoryId":"flour","categoryName":"面粉","note":"","date":"2024-05-20T07:30:00.000Z","timestamp":1716190200000}`
	var tx Transaction
	require.NoError(t, json.Unmarshal([]byte(raw), &tx))
	require.True(t, tx.Amount.Equal(decimal.RequireFromString("52.5")))
	require.Equal(t, Expense, tx.Type)
}

func TestImportIDsAreDistinct(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1716190200000)
	a, b := NewImportID(now), NewImportID(now)
	require.NotEqual(t, a, b)
	require.Len(t, a, len("1716190200000")+9)
	require.Equal(t, "1716190200000", NewID(now))
}

func TestAmountInput(t *testing.T) {
	t.Parallel()
	var in AmountInput
	require.Equal(t, "0", in.String())

	for _, r := range "012" {
		in.Press(r)
	}
	require.Equal(t, "12", in.String())
	require.True(t, in.Press('.'))
	require.False(t, in.Press('.'))
	in.Press('5')
	require.Equal(t, "12.5", in.String())

	v, err := in.Value()
	require.NoError(t, err)
	require.Equal(t, "12.5", v.String())

	in.Clear()
	for _, r := range "123456789" {
		in.Press(r)
	}
	require.Equal(t, "12345678", in.String())
	require.False(t, in.Press('.') && in.Press('9'))

	in.Clear()
	in.Press('7')
	in.Backspace()
	require.Equal(t, "0", in.String())
	_, err = in.Value()
	require.ErrorIs(t, err, ErrInvalidAmount)

	in.Press('.')
	require.Equal(t, "0.", in.String())
	_, err = in.Value()
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestMoneyFormatting(t *testing.T) {
	t.Parallel()
	require.Equal(t, "1,234.50", FormatFull(decimal.RequireFromString("1234.5")))
	require.Equal(t, "0.00", FormatFull(decimal.Zero))
	require.Equal(t, "1,235", FormatWhole(decimal.RequireFromString("1234.5")))
}
