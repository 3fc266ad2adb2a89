// Command catalog-ingest loads gzipped JSON-lines product dumps into the
// catalog table. Dumps from different marketplaces overlap heavily, so ids
// are deduplicated with a bloom filter while streaming; the first occurrence
// of an id wins.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/mmo-storefront/internal/domain/product"
	"github.com/xenking/mmo-storefront/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.jsonl.gz product dumps")
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

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "list dump files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.jsonl.gz files in %s", dataDir)
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

	repo := postgres.NewProductRepository(pool)

	// Readers stream and parse dumps concurrently; a single writer owns the
	// bloom filter and the upsert order.
	products := make(chan product.Product, 1024)

	g, ctx := errgroup.WithContext(ctx)
	readers, ctx := errgroup.WithContext(ctx)
	for _, f := range files {
		readers.Go(ingestFile(ctx, f, products))
	}
	g.Go(func() error {
		defer close(products)
		return readers.Wait()
	})
	g.Go(writeProducts(ctx, repo, products))

	return g.Wait()
}

// ingestFile streams one gzipped dump and sends each parsed product line.
func ingestFile(ctx context.Context, path string, out chan<- product.Product) func() error {
	return func() error {
		var count uint64
		err := streamGzFile(ctx, path, func(line []byte) error {
			if len(line) == 0 {
				return nil
			}
			p, err := parseProduct(line)
			if err != nil {
				// Bad lines are frequent in marketplace dumps; skip and move on.
				slog.Warn("skipping malformed line",
					slog.String("file", filepath.Base(path)),
					slog.String("error", err.Error()),
				)
				return nil
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("ingest progress",
					slog.String("file", filepath.Base(path)),
					slog.Uint64("products", count),
				)
			}

			select {
			case out <- p:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			return errors.Wrapf(err, "ingest %s", path)
		}

		slog.Info("file complete",
			slog.String("file", filepath.Base(path)),
			slog.Uint64("products", count),
		)
		return nil
	}
}

// writeProducts upserts deduplicated products in arrival order.
func writeProducts(ctx context.Context, repo *postgres.ProductRepository, in <-chan product.Product) func() error {
	return func() error {
		seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var written uint64

		for p := range in {
			if seen.TestString(p.ID) {
				continue
			}
			seen.AddString(p.ID)

			if err := repo.Upsert(ctx, p); err != nil {
				return errors.Wrapf(err, "upsert product %s", p.ID)
			}

			written++
			if written%progressEvery == 0 {
				slog.Info("write progress", slog.Uint64("written", written))
			}
		}

		slog.Info("write complete", slog.Uint64("written", written))
		return nil
	}
}

// parseProduct decodes one dump line. Unknown fields are skipped; the dumps
// carry far more than the catalog stores.
func parseProduct(line []byte) (product.Product, error) {
	var p product.Product
	d := jx.DecodeBytes(line)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			p.ID, err = d.Str()
		case "name":
			p.Name, err = d.Str()
		case "category":
			p.Category, err = d.Str()
		case "price":
			p.Price, err = decodeDecimal(d)
		case "originalPrice":
			p.OriginalPrice, err = decodeDecimal(d)
		case "image":
			p.Image, err = d.Str()
		case "icon":
			p.Icon, err = d.Str()
		default:
			return d.Skip()
		}
		return err
	}); err != nil {
		return product.Product{}, err
	}

	if p.ID == "" {
		return product.Product{}, errors.New("missing id")
	}
	if p.Price.IsNegative() {
		return product.Product{}, errors.Errorf("negative price for %s", p.ID)
	}
	return p, nil
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(strings.Trim(string(n), `"`))
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line []byte) error) error {
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
		if err := fn(scanner.Bytes()); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}
