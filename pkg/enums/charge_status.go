package enums

// ChargeStatus uses the payment provider's vocabulary.
type ChargeStatus string

const (
	ChargeStatusPending ChargeStatus = "pending"
	ChargeStatusSuccess ChargeStatus = "success"
	ChargeStatusFailed  ChargeStatus = "failed"
)

var chargeStatuses = []ChargeStatus{ChargeStatusPending, ChargeStatusSuccess, ChargeStatusFailed}

func (c ChargeStatus) String() string { return string(c) }

func (c ChargeStatus) IsValid() bool { return known(chargeStatuses, c) }

// IsTerminal is true once the provider has settled the charge either way.
func (c ChargeStatus) IsTerminal() bool {
	return c == ChargeStatusSuccess || c == ChargeStatusFailed
}

// ChargeStatusFor maps a provider ledger event to the status it settles a
// charge into. ok is false for entry types that do not settle charges.
func ChargeStatusFor(t LedgerEntryType) (status ChargeStatus, ok bool) {
	switch t {
	case LedgerEntryChargeSuccess:
		return ChargeStatusSuccess, true
	case LedgerEntryChargeFailed:
		return ChargeStatusFailed, true
	}
	return "", false
}

func ParseChargeStatus(value string) (ChargeStatus, error) {
	return parse("charge status", chargeStatuses, value)
}
