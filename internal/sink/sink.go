// Package sink provides trade reporters for the engine: the companion CSV
// wire format, structured logging, and a discard sink for benchmarks.
package sink

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"mimir/internal/common"
)

// CSVSink writes each trade as one line of the companion wire format:
//
//	T,ts,price,qty,buy_id,sell_id,buy_trader,sell_trader
//
// The execution id is engine-internal and not part of the line.
type CSVSink struct {
	w io.Writer
}

func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: w}
}

func (s *CSVSink) ReportTrade(t common.Trade) {
	fmt.Fprintf(s.w, "T,%d,%d,%d,%d,%d,%s,%s\n",
		t.Timestamp, t.Price, t.Quantity,
		t.BuyOrderID, t.SellOrderID, t.BuyTrader, t.SellTrader)
}

// LogSink emits trades through the process logger, for interactive runs.
type LogSink struct{}

func (LogSink) ReportTrade(t common.Trade) {
	log.Info().
		Str("exec", t.ID).
		Int64("ts", t.Timestamp).
		Int64("price", t.Price).
		Uint64("qty", t.Quantity).
		Int64("buy", t.BuyOrderID).
		Int64("sell", t.SellOrderID).
		Str("buy_trader", t.BuyTrader).
		Str("sell_trader", t.SellTrader).
		Msg("trade")
}

// Discard drops every trade. Benchmarks replay with this installed so the
// matching loop is measured without I/O.
type Discard struct{}

func (Discard) ReportTrade(common.Trade) {}
