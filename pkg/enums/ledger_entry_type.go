package enums

// LedgerEntryType tags an immutable ledger fact. Provider events are stored
// under their own event name (for example charge.success).
type LedgerEntryType string

const (
	LedgerEntryBidAccepted   LedgerEntryType = "bid_accepted"
	LedgerEntryHold          LedgerEntryType = "hold"
	LedgerEntryChargeSuccess LedgerEntryType = "charge.success"
	LedgerEntryChargeFailed  LedgerEntryType = "charge.failed"

	// Provider events whose reference matched no charge when they arrived.
	LedgerEntryChargeSuccessUnmatched LedgerEntryType = "charge.success.unmatched"
	LedgerEntryChargeFailedUnmatched  LedgerEntryType = "charge.failed.unmatched"
)

var ledgerEntryTypes = []LedgerEntryType{
	LedgerEntryBidAccepted,
	LedgerEntryHold,
	LedgerEntryChargeSuccess,
	LedgerEntryChargeFailed,
	LedgerEntryChargeSuccessUnmatched,
	LedgerEntryChargeFailedUnmatched,
}

func (t LedgerEntryType) String() string { return string(t) }

func (t LedgerEntryType) IsValid() bool { return known(ledgerEntryTypes, t) }

// Unmatched returns the type recording t against an unknown reference. It is
// empty for types that do not settle charges.
func (t LedgerEntryType) Unmatched() LedgerEntryType {
	switch t {
	case LedgerEntryChargeSuccess:
		return LedgerEntryChargeSuccessUnmatched
	case LedgerEntryChargeFailed:
		return LedgerEntryChargeFailedUnmatched
	}
	return ""
}

func ParseLedgerEntryType(value string) (LedgerEntryType, error) {
	return parse("ledger entry type", ledgerEntryTypes, value)
}
