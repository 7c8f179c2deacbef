package brokerage

// CommissionSchedule computes the commission a broker charges for a trade of
// a given size. It is only consulted when emulating an order that is not yet
// in any statement; parsed trades carry their actual commission.
type CommissionSchedule interface {
	Commission(quantity Quantity, price Money) (Money, error)
}

// FixedCommission is the simplest schedule: a flat fee per order.
type FixedCommission struct {
	Fee Money
}

func (s FixedCommission) Commission(quantity Quantity, price Money) (Money, error) {
	return s.Fee, nil
}

// BrokerInfo describes the broker an account is held with.
type BrokerInfo struct {
	Name     string
	Schedule CommissionSchedule
}

// TradeCommission returns the broker's commission for an emulated trade.
func (b BrokerInfo) TradeCommission(quantity Quantity, price Money) (Money, error) {
	if b.Schedule == nil {
		return M(0, price.Currency()), nil
	}
	return b.Schedule.Commission(quantity, price)
}
