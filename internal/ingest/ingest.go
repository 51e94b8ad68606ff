// Package ingest sequences one ingestion run: provision the database,
// fetch a batch from the feed, archive the raw payload, ensure the table,
// then persist the normalized rows in one transaction.
package ingest

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"newsboard/internal/feed"
	"newsboard/internal/normalize"
	"newsboard/internal/store"
)

// Result is the outcome of one run, in the shape the external trigger
// expects: 200 success with data, 204 success without content, 500
// failure with the error text in the body.
type Result struct {
	StatusCode int
	Body       string
}

// Fetcher fetches one batch of raw articles plus the verbatim payload.
type Fetcher interface {
	Fetch(ctx context.Context) (*feed.Payload, []byte, error)
}

// Archiver durably stores a raw payload and returns the key used.
type Archiver interface {
	Store(ctx context.Context, payload []byte) (string, error)
}

// ArticleStore is the persistence surface one run needs.
type ArticleStore interface {
	EnsureTable(ctx context.Context) error
	InsertArticles(ctx context.Context, articles []store.Article) error
	Close()
}

// Orchestrator runs the linear ingestion pipeline. Each invocation is a
// single attempt: no retries, no partial commits. Failed runs are meant
// to be re-invoked wholesale by the external trigger.
type Orchestrator struct {
	fetcher   Fetcher
	archiver  Archiver
	provision func(ctx context.Context) error
	openStore func(ctx context.Context) (ArticleStore, error)
}

// New wires an orchestrator from its components.
func New(
	fetcher Fetcher,
	archiver Archiver,
	provision func(ctx context.Context) error,
	openStore func(ctx context.Context) (ArticleStore, error),
) *Orchestrator {
	return &Orchestrator{
		fetcher:   fetcher,
		archiver:  archiver,
		provision: provision,
		openStore: openStore,
	}
}

// Run executes one ingestion pass.
func (o *Orchestrator) Run(ctx context.Context) Result {
	if err := o.provision(ctx); err != nil {
		return fail(err)
	}

	payload, raw, err := o.fetcher.Fetch(ctx)
	if err != nil {
		return fail(err)
	}

	if len(payload.Articles) == 0 {
		log.Println("No articles found")
		return Result{StatusCode: http.StatusNoContent, Body: "no articles to insert"}
	}

	// Archival failure is fatal: proceeding would leave the batch
	// unrecoverable if a later step fails.
	key, err := o.archiver.Store(ctx, raw)
	if err != nil {
		return fail(err)
	}

	st, err := o.openStore(ctx)
	if err != nil {
		return fail(err)
	}
	defer st.Close()

	if err := st.EnsureTable(ctx); err != nil {
		return fail(err)
	}

	rows := normalize.Articles(payload.Articles)
	if err := st.InsertArticles(ctx, rows); err != nil {
		return fail(err)
	}

	log.Printf("Inserted %d articles", len(rows))
	return Result{
		StatusCode: http.StatusOK,
		Body:       fmt.Sprintf("archived %s, inserted %d articles", key, len(rows)),
	}
}

func fail(err error) Result {
	log.Printf("Ingestion failed: %v", err)
	return Result{StatusCode: http.StatusInternalServerError, Body: err.Error()}
}
