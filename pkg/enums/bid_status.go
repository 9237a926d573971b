package enums

// BidStatus tracks a bid through its lifecycle:
//
//	pending -> countered -> accepted | rejected
//	pending -> accepted | rejected
type BidStatus string

const (
	BidStatusPending   BidStatus = "pending"
	BidStatusCountered BidStatus = "countered"
	BidStatusAccepted  BidStatus = "accepted"
	BidStatusRejected  BidStatus = "rejected"
)

var bidStatuses = []BidStatus{BidStatusPending, BidStatusCountered, BidStatusAccepted, BidStatusRejected}

func (s BidStatus) String() string { return string(s) }

func (s BidStatus) IsValid() bool { return known(bidStatuses, s) }

// IsTerminal reports whether no further mutation is allowed.
func (s BidStatus) IsTerminal() bool {
	return s == BidStatusAccepted || s == BidStatusRejected
}

func ParseBidStatus(value string) (BidStatus, error) {
	return parse("bid status", bidStatuses, value)
}
