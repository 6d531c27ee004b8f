// Command catalog-sync mirrors the Gumroad catalog into Postgres.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/tsksoundkits/storefront/internal/domain/catalog"
	"github.com/tsksoundkits/storefront/internal/gumroad"
	"github.com/tsksoundkits/storefront/internal/repository"
)

type options struct {
	databaseURL string
	token       string
	baseURL     string
	workers     int
	prune       bool
	dryRun      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&opts.token, "token", "", "Gumroad API access token (or GUMROAD_ACCESS_TOKEN env)")
	flag.StringVar(&opts.baseURL, "base-url", gumroad.DefaultBaseURL, "Gumroad API root")
	flag.IntVar(&opts.workers, "workers", 4, "concurrent product detail requests")
	flag.BoolVar(&opts.prune, "prune", true, "delete mirrored products no longer listed by Gumroad")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "fetch and log products without writing")
	flag.Parse()

	if opts.databaseURL == "" {
		opts.databaseURL = os.Getenv("DATABASE_URL")
	}
	if opts.token == "" {
		opts.token = os.Getenv("GUMROAD_ACCESS_TOKEN")
	}
	if opts.databaseURL == "" && !opts.dryRun {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if opts.token == "" {
		slog.Error("Gumroad token is required: set --token or GUMROAD_ACCESS_TOKEN")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		slog.Error("catalog sync failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("catalog sync completed successfully")
}

func run(ctx context.Context, opts options) error {
	start := time.Now()
	client := gumroad.New(opts.token, gumroad.WithBaseURL(opts.baseURL))

	slog.Info("listing products", slog.String("base_url", opts.baseURL))
	products, err := fetch(ctx, client, opts.workers)
	if err != nil {
		return errors.Wrap(err, "fetch catalog")
	}
	slog.Info("fetched products",
		slog.Int("count", len(products)),
		slog.Duration("elapsed", time.Since(start)),
	)

	if opts.dryRun {
		for _, p := range products {
			slog.Info("product",
				slog.String("id", p.ID),
				slog.String("title", p.Title),
				slog.String("price", p.FormattedPrice()),
				slog.Bool("published", p.Published),
			)
		}
		return nil
	}

	slog.Info("connecting to database")
	pool, err := repository.NewPool(ctx, opts.databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")
	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := repository.NewProductRepository(pool)
	if err := repo.Upsert(ctx, products); err != nil {
		return errors.Wrap(err, "upsert products")
	}
	slog.Info("upserted products", slog.Int("count", len(products)))

	if !opts.prune {
		return nil
	}
	if len(products) == 0 {
		// An empty listing is more likely an API hiccup than an empty store.
		slog.Warn("skipping prune: Gumroad listed no products")
		return nil
	}
	keep := make([]string, len(products))
	for i, p := range products {
		keep[i] = p.ID
	}
	deleted, err := repo.Prune(ctx, keep)
	if err != nil {
		return errors.Wrap(err, "prune products")
	}
	slog.Info("pruned products", slog.Int64("deleted", deleted))
	return nil
}

// fetch lists the catalog and refreshes every entry from the detail
// endpoint, which carries variants the listing may omit. A product that
// vanished between the two calls keeps its listing data.
func fetch(ctx context.Context, src catalog.Source, workers int) ([]catalog.Product, error) {
	listed, err := src.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}

	out := make([]catalog.Product, len(listed))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, p := range listed {
		g.Go(func() error {
			detail, err := src.Get(ctx, p.ID)
			switch {
			case errors.Is(err, catalog.ErrNotFound):
				slog.Warn("product disappeared during sync", slog.String("id", p.ID))
				out[i] = p
				return nil
			case err != nil:
				return errors.Wrapf(err, "get product %q", p.ID)
			}
			out[i] = *detail
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
