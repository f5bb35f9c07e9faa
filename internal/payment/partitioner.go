package payment

import (
	"sort"

	"github.com/dawingroup/dawinos-sub007/internal/payroll"
)

// Group is one partition of a batch's payrolls: a payment method, and for
// bank transfers a single bank.
type Group struct {
	Method      string
	BankName    *string
	Lines       TransferLines
	TotalAmount int64
}

// methodOrder fixes the emission order of payment methods so repeated runs
// over the same records produce identical partitions.
var methodOrder = map[string]int{
	MethodBankTransfer: 0,
	MethodMobileMoney:  1,
	MethodCash:         2,
	MethodCheque:       3,
}

// Partition splits payroll records into disbursement groups. Bank transfers
// are sub-grouped per bank; every other method forms one group. Records with
// zero net pay are dropped. The sum of group totals equals the sum of net pay
// over the retained records.
func Partition(payrolls []payroll.EmployeePayroll) []Group {
	type key struct {
		method string
		bank   string
	}

	groups := map[key]*Group{}
	for _, p := range payrolls {
		if p.NetPay <= 0 {
			continue
		}

		k := key{method: p.PaymentMethod}
		var bankName *string
		if p.PaymentMethod == MethodBankTransfer && p.BankName != nil {
			k.bank = *p.BankName
			bankName = p.BankName
		}

		g, ok := groups[k]
		if !ok {
			g = &Group{Method: p.PaymentMethod, BankName: bankName}
			groups[k] = g
		}

		g.Lines = append(g.Lines, TransferLine{
			PayrollID:      p.ID.String(),
			EmployeeID:     p.EmployeeID.String(),
			EmployeeNumber: p.EmployeeNumber,
			EmployeeName:   p.EmployeeName,
			Amount:         p.NetPay,
			BankName:       p.BankName,
			AccountNumber:  p.AccountNumber,
		})
		g.TotalAmount += p.NetPay
	}

	result := make([]Group, 0, len(groups))
	for _, g := range groups {
		sort.Slice(g.Lines, func(i, j int) bool {
			return g.Lines[i].EmployeeNumber < g.Lines[j].EmployeeNumber
		})
		result = append(result, *g)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Method != result[j].Method {
			return methodOrder[result[i].Method] < methodOrder[result[j].Method]
		}
		return bankKey(result[i].BankName) < bankKey(result[j].BankName)
	})

	return result
}

func bankKey(name *string) string {
	if name == nil {
		return ""
	}
	return *name
}
