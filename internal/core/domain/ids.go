package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Deterministic identifiers. The same logical operation must map to the same id across
// process restarts so that replays hit the idempotency gate instead of writing twice.

// SettlementTxID is the ledger id of a request's approval.
func SettlementTxID(requestID string) string { return "settlement-" + requestID }

// RecurringTxID is the ledger id of one scheduled cycle of a recurring expense.
func RecurringTxID(expenseID string, scheduled time.Time) string {
	return fmt.Sprintf("recurring-%s-%d", expenseID, scheduled.Unix())
}

// NotificationID derives a notification id from the event that caused it.
func NotificationID(cause string, recipient UserID) string {
	return "ntf-" + shortHash(cause, string(recipient))
}

// OperationID derives the local queue id of an offline operation. clientRef is the
// caller's handle on the logical operation (for example a form submission id).
func OperationID(opType OperationType, actor UserID, clientRef string, payload []byte) string {
	return "op-" + shortHash(string(opType), string(actor), clientRef, string(payload))
}

func shortHash(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:24]
}
