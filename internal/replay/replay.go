// Package replay feeds a decoded instruction stream into one book. A book
// has exactly one writer for the whole run, so instructions apply in the
// order the feed delivered them.
package replay

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"mimir/internal/common"
	"mimir/internal/engine"
	"mimir/internal/feed"
)

const instructionBuffer = 256

// Instrument is the book name convenience replays run against.
const Instrument = "SIM"

// Stats summarises one replay run.
type Stats struct {
	Applied  uint64 // Instructions applied to the book
	Trades   uint64 // Executions reported
	Skipped  uint64 // Lines the decoder refused
	Rejected uint64 // Adds the book refused (duplicate id, bad price or qty)
	Missed   uint64 // Cancels for ids not resting
}

// TradeCounter forwards trades to the next reporter while counting them.
type TradeCounter struct {
	Next engine.TradeReporter

	n uint64
}

func (c *TradeCounter) ReportTrade(t common.Trade) {
	c.n++
	if c.Next != nil {
		c.Next.ReportTrade(t)
	}
}

func (c *TradeCounter) Count() uint64 {
	return c.n
}

// Replayer drives one book from a line feed.
type Replayer struct {
	book  *engine.OrderBook
	stats Stats
}

func New(book *engine.OrderBook) *Replayer {
	return &Replayer{book: book}
}

// Run decodes src line by line and applies every instruction, returning
// when the stream ends or the context is cancelled. Lines the decoder
// refuses are skipped and counted, never applied in part.
func (r *Replayer) Run(ctx context.Context, src io.Reader) (Stats, error) {
	r.stats = Stats{}
	t, _ := tomb.WithContext(ctx)
	instructions := make(chan feed.Instruction, instructionBuffer)

	// Decode stage.
	t.Go(func() error {
		defer close(instructions)
		scanner := bufio.NewScanner(src)
		for scanner.Scan() {
			ins, err := feed.Decode(scanner.Text())
			if err != nil {
				r.stats.Skipped++
				log.Warn().Err(err).Msg("skipping feed line")
				continue
			}
			select {
			case instructions <- ins:
			case <-t.Dying():
				return nil
			}
		}
		return scanner.Err()
	})

	// Apply stage: the book's single writer.
	t.Go(func() error {
		for {
			select {
			case <-t.Dying():
				return nil
			case ins, ok := <-instructions:
				if !ok {
					return nil
				}
				r.apply(ins)
			}
		}
	})

	if err := t.Wait(); err != nil {
		return r.stats, fmt.Errorf("replay: %w", err)
	}
	return r.stats, nil
}

func (r *Replayer) apply(ins feed.Instruction) {
	switch ins := ins.(type) {
	case feed.Add:
		if err := r.book.Add(ins.Order()); err != nil {
			r.stats.Rejected++
			log.Warn().Err(err).Int64("id", ins.OrderID).Msg("order rejected")
			return
		}
	case feed.Cancel:
		if !r.book.Cancel(ins.OrderID) {
			// Already filled, already cancelled or never seen; all benign.
			r.stats.Missed++
			return
		}
	}
	r.stats.Applied++
}

// Replay runs a feed stream against a fresh single-instrument book,
// reporting trades to next. Each call starts from an empty book, which is
// what repeated benchmark iterations need.
func Replay(ctx context.Context, src io.Reader, next engine.TradeReporter) (Stats, error) {
	eng := engine.New(Instrument)
	counter := &TradeCounter{Next: next}
	eng.SetReporter(counter)
	book, _ := eng.Book(Instrument)

	stats, err := New(book).Run(ctx, src)
	stats.Trades = counter.Count()
	return stats, err
}

// ReplayFile is Replay for a feed file on disk.
func ReplayFile(ctx context.Context, path string, next engine.TradeReporter) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("open feed: %w", err)
	}
	defer f.Close()
	return Replay(ctx, f, next)
}
