// Package runner aggregates a stream of Rows in parallel partitions. Each partition owns
// its AggregateFunction outright; partial states leave a partition only as packed envelopes,
// and are merged by a single combiner, as they would be after crossing the network.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/go-sif/aggregate"
	"github.com/go-sif/aggregate/partial"
	"github.com/gofrs/uuid"
	"golang.org/x/sync/errgroup"
)

// RowSource produces Rows until it returns io.EOF
type RowSource interface {
	Next() (aggregate.Row, error)
}

// Options configures a Run
type Options struct {
	Template    aggregate.AggregateFunction // cloned once per partition, and once for the combiner
	Args        []aggregate.ColumnType
	Params      aggregate.Row // may be nil
	Partitions  int
	Compression partial.Compression
	Logger      *slog.Logger // defaults to slog.Default()
}

// Result is the outcome of a Run
type Result struct {
	Function   string
	ReturnType aggregate.ColumnType
	Value      interface{}
	Rows       uint64
	Bytes      int // total size of the envelopes shipped to the combiner
}

type packed struct {
	id   string
	data []byte
}

// Run distributes the rows of src across opts.Partitions workers, then combines their partial states
func Run(ctx context.Context, src RowSource, opts Options) (*Result, error) {
	if opts.Partitions < 1 {
		return nil, fmt.Errorf("partitions must be at least 1, got %d", opts.Partitions)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	// surfaces configuration errors before any goroutine starts
	combined, err := aggregate.NewStates(opts.Template, opts.Args, opts.Params)
	if err != nil {
		return nil, err
	}
	final, err := combined.At(0)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	rows := make(chan aggregate.Row, opts.Partitions*16)
	out := make(chan packed, opts.Partitions)
	var total atomic.Uint64

	g.Go(func() error {
		defer close(rows)
		for {
			r, err := src.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			select {
			case rows <- r:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	for i := 0; i < opts.Partitions; i++ {
		g.Go(func() error {
			id, err := uuid.NewV4()
			if err != nil {
				return fmt.Errorf("failed to generate UUID for partition: %w", err)
			}
			p, n, err := aggregatePartition(gctx, rows, opts)
			if err != nil {
				return fmt.Errorf("partition %s: %w", id, err)
			}
			total.Add(n)
			logger.Debug("Partition aggregated",
				slog.String("partitionID", id.String()),
				slog.Uint64("rows", n),
				slog.Int("bytes", len(p)),
				slog.String("compression", opts.Compression.String()))
			out <- packed{id: id.String(), data: p}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(out)

	res := &Result{Function: final.GetTypeID(), Rows: total.Load()}
	for p := range out {
		env, err := partial.Unpack(p.data, opts.Compression)
		if err != nil {
			return nil, fmt.Errorf("partition %s: %w", p.id, err)
		}
		if err := env.MergeInto(final); err != nil {
			return nil, fmt.Errorf("partition %s: %w", p.id, err)
		}
		res.Bytes += len(p.data)
	}
	if res.ReturnType, err = final.GetReturnType(); err != nil {
		return nil, err
	}
	results, err := combined.Results()
	if err != nil {
		return nil, err
	}
	res.Value = results[0]
	logger.Info("Aggregation complete",
		slog.String("function", res.Function),
		slog.Uint64("rows", res.Rows),
		slog.Int("partitions", opts.Partitions),
		slog.Int("bytes", res.Bytes))
	return res, nil
}

// aggregatePartition adds rows to a fresh instance until rows is closed, then packs its state
func aggregatePartition(ctx context.Context, rows <-chan aggregate.Row, opts Options) ([]byte, uint64, error) {
	states, err := aggregate.NewStates(opts.Template, opts.Args, opts.Params)
	if err != nil {
		return nil, 0, err
	}
	var n uint64
	for {
		select {
		case <-ctx.Done():
			return nil, n, ctx.Err()
		case r, ok := <-rows:
			if !ok {
				fn, err := states.At(0)
				if err != nil {
					return nil, n, err
				}
				env, err := partial.From(fn)
				if err != nil {
					return nil, n, err
				}
				p, err := partial.Pack(env, opts.Compression)
				return p, n, err
			}
			if err := states.Add(0, r); err != nil {
				return nil, n, fmt.Errorf("row %d of partition: %w", n+1, err)
			}
			n++
		}
	}
}
