package distribution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/core/types"
)

func newTestBill() *DistributionBill {
	bill := NewDistributionBill("2025-26", id.New(), "A-1001", "Asha Rao", "5")
	bill.ClientTxID = "ctx-001"
	bill.AddLine(id.New(), "Math Book", 2, types.MustMoney("150"))
	return bill
}

func TestSetPayment_ReferenceRule(t *testing.T) {
	tests := []struct {
		name      string
		mode      PayMode
		reference string
		wantErr   bool
	}{
		{"cash needs no reference", PayModeCash, "", false},
		{"cheque without reference", PayModeCheque, "", true},
		{"cheque with reference", PayModeCheque, "CHQ-778", false},
		{"dd without reference", PayModeDD, "", true},
		{"online without reference", PayModeOnline, "", true},
		{"online with reference", PayModeOnline, "TXN-41", false},
		{"bank without reference", PayModeBank, "   ", true},
		{"unknown mode", PayMode("crypto"), "x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := newTestBill()
			err := bill.SetPayment(tt.mode, tt.reference)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.mode, bill.PayMode)
		})
	}
}

func TestSetPayment_MissingReferenceCode(t *testing.T) {
	bill := newTestBill()

	err := bill.SetPayment(PayModeCheque, "")

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeMissingPaymentReference))
}

func TestBillValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid bill", func(t *testing.T) {
		bill := newTestBill()
		assert.NoError(t, bill.Validate(ctx))
	})

	t.Run("missing admission number", func(t *testing.T) {
		bill := newTestBill()
		bill.AdmissionNo = ""
		assert.Error(t, bill.Validate(ctx))
	})

	t.Run("missing client tx id", func(t *testing.T) {
		bill := newTestBill()
		bill.ClientTxID = ""
		assert.Error(t, bill.Validate(ctx))
	})

	t.Run("no lines", func(t *testing.T) {
		bill := NewDistributionBill("2025-26", id.New(), "A-1001", "Asha Rao", "5")
		bill.ClientTxID = "ctx-002"
		assert.Error(t, bill.Validate(ctx))
	})

	t.Run("zero quantity line", func(t *testing.T) {
		bill := newTestBill()
		bill.Lines[0].Quantity = 0
		assert.Error(t, bill.Validate(ctx))
	})

	t.Run("priced cheque without reference", func(t *testing.T) {
		bill := newTestBill()
		bill.TrackPricing = true
		bill.PayMode = PayModeCheque
		err := bill.Validate(ctx)
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeMissingPaymentReference))
	})
}

func TestAddLine_Totals(t *testing.T) {
	bill := NewDistributionBill("2025-26", id.New(), "A-1001", "Asha Rao", "5")
	bill.AddLine(id.New(), "Math Book", 2, types.MustMoney("150"))
	bill.AddLine(id.New(), "Notebook", 4, types.MustMoney("30.50"))

	require.Len(t, bill.Lines, 2)
	assert.Equal(t, 1, bill.Lines[0].LineNo)
	assert.Equal(t, 2, bill.Lines[1].LineNo)
	assert.True(t, bill.Lines[1].Amount.Equal(types.MustMoney("122")))
	assert.True(t, bill.TotalAmount.Equal(types.MustMoney("422")))
}
