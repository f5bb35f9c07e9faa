package payment_test

import (
	"testing"

	"github.com/dawingroup/dawinos-sub007/internal/payment"
	"github.com/dawingroup/dawinos-sub007/internal/payroll"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func record(number, method string, bank *string, netPay int64) payroll.EmployeePayroll {
	return payroll.EmployeePayroll{
		ID:             uuid.New(),
		EmployeeID:     uuid.New(),
		EmployeeNumber: number,
		EmployeeName:   "Employee " + number,
		PaymentMethod:  method,
		BankName:       bank,
		NetPay:         netPay,
	}
}

func strPtr(s string) *string { return &s }

func TestPartition_GroupsByMethodAndBank(t *testing.T) {
	stanbic := strPtr("Stanbic")
	centenary := strPtr("Centenary")

	payrolls := []payroll.EmployeePayroll{
		record("EMP-003", payment.MethodBankTransfer, stanbic, 500_000),
		record("EMP-001", payment.MethodBankTransfer, centenary, 300_000),
		record("EMP-004", payment.MethodMobileMoney, nil, 150_000),
		record("EMP-002", payment.MethodBankTransfer, stanbic, 200_000),
		record("EMP-005", payment.MethodCash, nil, 100_000),
	}

	groups := payment.Partition(payrolls)

	assert.Len(t, groups, 4)

	// Bank transfers come first, banks alphabetically, then the other methods.
	assert.Equal(t, payment.MethodBankTransfer, groups[0].Method)
	assert.Equal(t, "Centenary", *groups[0].BankName)
	assert.Equal(t, payment.MethodBankTransfer, groups[1].Method)
	assert.Equal(t, "Stanbic", *groups[1].BankName)
	assert.Equal(t, payment.MethodMobileMoney, groups[2].Method)
	assert.Equal(t, payment.MethodCash, groups[3].Method)

	// Lines inside a group are ordered by employee number.
	assert.Equal(t, "EMP-002", groups[1].Lines[0].EmployeeNumber)
	assert.Equal(t, "EMP-003", groups[1].Lines[1].EmployeeNumber)
	assert.Equal(t, int64(700_000), groups[1].TotalAmount)
}

func TestPartition_PreservesTotals(t *testing.T) {
	stanbic := strPtr("Stanbic")

	payrolls := []payroll.EmployeePayroll{
		record("EMP-001", payment.MethodBankTransfer, stanbic, 1_000_000),
		record("EMP-002", payment.MethodMobileMoney, nil, 250_000),
		record("EMP-003", payment.MethodCheque, nil, 400_000),
	}

	var want int64
	for _, p := range payrolls {
		want += p.NetPay
	}

	var got int64
	for _, g := range payment.Partition(payrolls) {
		var groupSum int64
		for _, line := range g.Lines {
			groupSum += line.Amount
		}
		assert.Equal(t, g.TotalAmount, groupSum)
		got += g.TotalAmount
	}

	assert.Equal(t, want, got)
}

func TestPartition_DropsZeroNetPay(t *testing.T) {
	payrolls := []payroll.EmployeePayroll{
		record("EMP-001", payment.MethodCash, nil, 0),
		record("EMP-002", payment.MethodCash, nil, 50_000),
	}

	groups := payment.Partition(payrolls)

	assert.Len(t, groups, 1)
	assert.Len(t, groups[0].Lines, 1)
	assert.Equal(t, "EMP-002", groups[0].Lines[0].EmployeeNumber)
}

func TestPartition_Deterministic(t *testing.T) {
	stanbic := strPtr("Stanbic")
	dfcu := strPtr("DFCU")

	payrolls := []payroll.EmployeePayroll{
		record("EMP-002", payment.MethodBankTransfer, dfcu, 100),
		record("EMP-001", payment.MethodBankTransfer, stanbic, 200),
		record("EMP-003", payment.MethodMobileMoney, nil, 300),
	}

	first := payment.Partition(payrolls)
	second := payment.Partition(payrolls)

	assert.Equal(t, first, second)
}
