package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mimir/internal/engine"
	"mimir/internal/replay"
	"mimir/internal/sink"
)

func main() {
	input := flag.String("input", "data.csv", "Feed file to replay")
	instrument := flag.String("instrument", "AAPL", "Instrument the feed belongs to")
	quiet := flag.Bool("quiet", false, "Suppress trade output")
	format := flag.String("format", "csv", "Trade output format: 'csv' or 'log'")
	logLevel := flag.String("log-level", "info", "Log level: trace, debug, info, warn, error")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	f, err := os.Open(*input)
	if err != nil {
		log.Fatal().Err(err).Str("input", *input).Msg("unable to open feed")
	}
	defer f.Close()

	var reporter engine.TradeReporter = sink.Discard{}
	var out *bufio.Writer
	if !*quiet {
		switch *format {
		case "log":
			reporter = sink.LogSink{}
		default:
			out = bufio.NewWriter(os.Stdout)
			defer out.Flush()
			reporter = sink.NewCSVSink(out)
		}
	}
	counter := &replay.TradeCounter{Next: reporter}

	eng := engine.New(*instrument)
	eng.SetReporter(counter)
	book, _ := eng.Book(*instrument)

	stats, err := replay.New(book).Run(ctx, f)
	stats.Trades = counter.Count()
	if out != nil {
		out.Flush()
	}
	if err != nil {
		log.Error().Err(err).Msg("replay failed")
		os.Exit(1)
	}

	log.Info().
		Str("instrument", *instrument).
		Uint64("applied", stats.Applied).
		Uint64("trades", stats.Trades).
		Uint64("skipped", stats.Skipped).
		Uint64("rejected", stats.Rejected).
		Uint64("missed_cancels", stats.Missed).
		Int("resting", book.Len()).
		Msg("replay complete")
}
