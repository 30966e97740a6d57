package engine

import "mimir/internal/common"

// Engine owns one book per instrument and fans executed trades out to the
// configured reporter. Routing is a plain map lookup; anything smarter
// belongs to the surrounding system.
type Engine struct {
	Books map[string]*OrderBook

	reporter TradeReporter
}

func New(instruments ...string) *Engine {
	return NewWithConfig(Config{}, instruments...)
}

// NewWithConfig builds every book with the same configuration.
func NewWithConfig(cfg Config, instruments ...string) *Engine {
	engine := &Engine{
		Books: make(map[string]*OrderBook),
	}
	for _, instrument := range instruments {
		engine.Books[instrument] = NewOrderBookWithConfig(engine, cfg)
	}
	return engine
}

// SetReporter installs the trade sink. Matching without one drops trades
// silently, which benchmarks rely on.
func (engine *Engine) SetReporter(r TradeReporter) {
	engine.reporter = r
}

// Book returns the book owned for an instrument.
func (engine *Engine) Book(instrument string) (*OrderBook, bool) {
	book, ok := engine.Books[instrument]
	return book, ok
}

// Trade forwards one execution to the reporter. Books call this inline
// from the matching loop, so reports arrive in matching order.
func (engine *Engine) Trade(trade common.Trade) {
	if engine == nil || engine.reporter == nil {
		return
	}
	engine.reporter.ReportTrade(trade)
}
