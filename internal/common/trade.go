package common

import "fmt"

// Trade records one execution between a buy and a sell order. Trades are
// emitted to the reporter the moment they happen and never stored; the
// buy/sell fields are populated by role, not by which order arrived last.
type Trade struct {
	ID          string // Execution id, assigned at emission
	Timestamp   int64  // Timestamp of the aggressing instruction
	Price       int64  // Execution price: always the resting order's price
	Quantity    uint64 // Matched quantity
	BuyOrderID  int64
	SellOrderID int64
	BuyTrader   string
	SellTrader  string
}

func (t Trade) String() string {
	return fmt.Sprintf("%d @ %d, buy #%d (%s) vs sell #%d (%s)",
		t.Quantity, t.Price, t.BuyOrderID, t.BuyTrader, t.SellOrderID, t.SellTrader)
}
