// Package service exposes the ledger and the recurring payment scheduler as
// Connect RPC services.
package service

import "github.com/mmynk/ledgerly/pkg/api/apiconnect"

// ProtectedProcedures require a wake credential (see middleware.RequireAuth).
var ProtectedProcedures = []string{
	apiconnect.LedgerServiceRecalculateAllProcedure,
	apiconnect.RecurringServiceProcessDuePaymentsProcedure,
	apiconnect.RecurringServiceWakeProcedure,
}
