// Command catalog-ingest bulk-loads supplier product feeds. Each feed is a
// gzip-compressed NDJSON file, one product record per line. Feeds from
// different suppliers overlap heavily, so SKUs already seen during the run
// are filtered out with a bloom filter before hitting the database.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mercatus-io/storefront/internal/domain/product"
	"github.com/mercatus-io/storefront/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

type feedRecord struct {
	SKU         string
	Name        string
	Slug        string
	Description string
	ImageURL    string
	Quantity    int
	Price       decimal.Decimal
	Taxable     bool
}

func main() {
	var (
		feedDir     string
		databaseURL string
	)

	flag.StringVar(&feedDir, "feed-dir", "data", "directory containing *.ndjson.gz product feeds")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, feedDir, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, feedDir, databaseURL string) error {
	feeds, err := filepath.Glob(filepath.Join(feedDir, "*.ndjson.gz"))
	if err != nil {
		return errors.Wrap(err, "glob feeds")
	}
	if len(feeds) == 0 {
		return errors.Errorf("no feeds found in %s", feedDir)
	}

	slog.Info("connecting to database")
	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	products := postgres.NewProductRepository(pool)

	// Readers stream feeds concurrently; a single writer owns the inserts.
	seen := newSKUFilter()
	records := make(chan feedRecord, 1024)

	g, ctx := errgroup.WithContext(ctx)

	readers, readCtx := errgroup.WithContext(ctx)
	for _, feed := range feeds {
		readers.Go(ingestFeed(readCtx, feed, seen, records))
	}
	g.Go(func() error {
		defer close(records)
		return readers.Wait()
	})

	g.Go(func() error {
		inserted := 0
		for rec := range records {
			p := &product.Product{
				ID:          uuid.New(),
				SKU:         rec.SKU,
				Name:        rec.Name,
				Slug:        rec.Slug,
				Description: rec.Description,
				ImageURL:    rec.ImageURL,
				Quantity:    rec.Quantity,
				Price:       rec.Price,
				Taxable:     rec.Taxable,
				IsActive:    true,
			}
			switch err := products.Create(ctx, p); {
			case err == nil:
				inserted++
			case errors.Is(err, product.ErrSKUTaken), errors.Is(err, product.ErrSlugTaken):
				// Already in the catalog from a previous run.
			default:
				return errors.Wrapf(err, "insert product %q", rec.SKU)
			}
			if inserted%progressEvery == 0 && inserted > 0 {
				slog.Info("write progress", slog.Int("inserted", inserted))
			}
		}
		slog.Info("write complete", slog.Int("inserted", inserted))
		return nil
	})

	return g.Wait()
}

// skuFilter is a concurrency-safe bloom filter over SKUs seen this run.
type skuFilter struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
}

func newSKUFilter() *skuFilter {
	return &skuFilter{filter: bloom.NewWithEstimates(bloomCapacity, bloomFPR)}
}

// testAndAdd reports whether sku was possibly seen before, adding it as a
// side effect. A rare false positive only drops a duplicate-looking row.
func (f *skuFilter) testAndAdd(sku string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter.TestAndAddString(sku)
}

func ingestFeed(ctx context.Context, path string, seen *skuFilter, out chan<- feedRecord) func() error {
	return func() error {
		var total, skipped uint64

		err := streamGzFile(ctx, path, func(line []byte) {
			rec, err := parseRecord(line)
			if err != nil || rec.SKU == "" {
				skipped++
				return
			}
			total++
			if total%progressEvery == 0 {
				slog.Info("feed progress",
					slog.String("feed", filepath.Base(path)),
					slog.Uint64("records", total),
				)
			}
			if seen.testAndAdd(rec.SKU) {
				skipped++
				return
			}
			select {
			case out <- rec:
			case <-ctx.Done():
			}
		})
		if err != nil {
			return errors.Wrapf(err, "stream feed %s", path)
		}

		slog.Info("feed complete",
			slog.String("feed", filepath.Base(path)),
			slog.Uint64("records", total),
			slog.Uint64("skipped", skipped),
		)
		return nil
	}
}

// parseRecord decodes one NDJSON feed line. Unknown keys are skipped so
// supplier-specific extras do not break the ingest.
func parseRecord(line []byte) (feedRecord, error) {
	var rec feedRecord
	d := jx.DecodeBytes(line)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "sku":
			rec.SKU, err = d.Str()
		case "name":
			rec.Name, err = d.Str()
		case "slug":
			rec.Slug, err = d.Str()
		case "description":
			rec.Description, err = d.Str()
		case "imageUrl":
			rec.ImageURL, err = d.Str()
		case "quantity":
			rec.Quantity, err = d.Int()
		case "price":
			var num jx.Num
			if num, err = d.Num(); err == nil {
				rec.Price, err = decimal.NewFromString(num.String())
			}
		case "taxable":
			rec.Taxable, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
	return rec, err
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line []byte)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(scanner.Bytes())
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}
