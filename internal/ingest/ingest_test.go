package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"newsboard/internal/feed"
	"newsboard/internal/store"
)

const sampleFeed = `{"status":"ok","totalResults":1,"articles":[{"source":{"id":"techcrunch","name":"TechCrunch"},"title":"A","publishedAt":"2024-01-01T00:00:00Z"}]}`

type stubFetcher struct {
	raw []byte
	err error
}

func (s *stubFetcher) Fetch(ctx context.Context) (*feed.Payload, []byte, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	var payload feed.Payload
	if err := json.Unmarshal(s.raw, &payload); err != nil {
		return nil, nil, err
	}
	return &payload, s.raw, nil
}

type stubArchiver struct {
	payload []byte
	calls   int
	err     error
}

func (s *stubArchiver) Store(ctx context.Context, payload []byte) (string, error) {
	s.calls++
	s.payload = payload
	if s.err != nil {
		return "", s.err
	}
	return "raw_data/news_raw2024-01-01_00-00-00.json", nil
}

type stubStore struct {
	inserted  []store.Article
	ensured   int
	closed    bool
	insertErr error
	ensureErr error
}

func (s *stubStore) EnsureTable(ctx context.Context) error {
	s.ensured++
	return s.ensureErr
}

func (s *stubStore) InsertArticles(ctx context.Context, articles []store.Article) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, articles...)
	return nil
}

func (s *stubStore) Close() { s.closed = true }

func newTestOrchestrator(f *stubFetcher, a *stubArchiver, st *stubStore, provisionErr error) (*Orchestrator, *int) {
	provisionCalls := 0
	return New(f, a,
		func(ctx context.Context) error {
			provisionCalls++
			return provisionErr
		},
		func(ctx context.Context) (ArticleStore, error) {
			return st, nil
		},
	), &provisionCalls
}

func TestRunSuccess(t *testing.T) {
	fetcher := &stubFetcher{raw: []byte(sampleFeed)}
	archiver := &stubArchiver{}
	st := &stubStore{}
	orch, provisionCalls := newTestOrchestrator(fetcher, archiver, st, nil)

	result := orch.Run(context.Background())

	if result.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", result.StatusCode, result.Body)
	}
	if *provisionCalls != 1 {
		t.Errorf("expected one provisioning call, got %d", *provisionCalls)
	}
	if string(archiver.payload) != sampleFeed {
		t.Errorf("expected verbatim payload archived, got %s", archiver.payload)
	}
	if st.ensured != 1 {
		t.Errorf("expected table ensured once, got %d", st.ensured)
	}
	if !st.closed {
		t.Error("expected store closed after run")
	}

	if len(st.inserted) != 1 {
		t.Fatalf("expected exactly one row inserted, got %d", len(st.inserted))
	}
	row := st.inserted[0]
	if row.SourceID == nil || *row.SourceID != "techcrunch" {
		t.Errorf("unexpected source_id: %v", row.SourceID)
	}
	if row.SourceName == nil || *row.SourceName != "TechCrunch" {
		t.Errorf("unexpected source_name: %v", row.SourceName)
	}
	if row.Title == nil || *row.Title != "A" {
		t.Errorf("unexpected title: %v", row.Title)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if row.PublishedAt == nil || !row.PublishedAt.Equal(want) {
		t.Errorf("expected published_at %v, got %v", want, row.PublishedAt)
	}
	if row.SentimentScore != nil {
		t.Errorf("sentiment_score must be nil at write time, got %v", *row.SentimentScore)
	}
}

func TestRunEmptyFeed(t *testing.T) {
	fetcher := &stubFetcher{raw: []byte(`{"status":"ok","totalResults":0,"articles":[]}`)}
	archiver := &stubArchiver{}
	st := &stubStore{}
	orch, _ := newTestOrchestrator(fetcher, archiver, st, nil)

	result := orch.Run(context.Background())

	if result.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d (%s)", result.StatusCode, result.Body)
	}
	if archiver.calls != 0 {
		t.Error("expected no archival for an empty batch")
	}
	if st.ensured != 0 || len(st.inserted) != 0 {
		t.Error("expected no store activity for an empty batch")
	}
}

func TestRunFetchFailure(t *testing.T) {
	fetcher := &stubFetcher{err: &feed.FetchError{StatusCode: 403, Body: "apiKeyInvalid"}}
	archiver := &stubArchiver{}
	st := &stubStore{}
	orch, _ := newTestOrchestrator(fetcher, archiver, st, nil)

	result := orch.Run(context.Background())

	if result.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", result.StatusCode)
	}
	if !strings.Contains(result.Body, "403") || !strings.Contains(result.Body, "apiKeyInvalid") {
		t.Errorf("expected upstream status and body embedded, got %q", result.Body)
	}
	if archiver.calls != 0 {
		t.Error("expected no archival after a fetch failure")
	}
	if st.ensured != 0 || len(st.inserted) != 0 {
		t.Error("expected no persistence after a fetch failure")
	}
}

func TestRunArchivalFailureIsFatal(t *testing.T) {
	fetcher := &stubFetcher{raw: []byte(sampleFeed)}
	archiver := &stubArchiver{err: errors.New("bucket gone")}
	st := &stubStore{}
	orch, _ := newTestOrchestrator(fetcher, archiver, st, nil)

	result := orch.Run(context.Background())

	if result.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", result.StatusCode)
	}
	if st.ensured != 0 || len(st.inserted) != 0 {
		t.Error("ingestion must not proceed to persistence when archival fails")
	}
}

func TestRunProvisioningFailure(t *testing.T) {
	fetcher := &stubFetcher{raw: []byte(sampleFeed)}
	archiver := &stubArchiver{}
	st := &stubStore{}
	orch, _ := newTestOrchestrator(fetcher, archiver, st, errors.New("cannot create database"))

	result := orch.Run(context.Background())

	if result.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", result.StatusCode)
	}
	if archiver.calls != 0 {
		t.Error("expected no fetch or archival after provisioning failure")
	}
}

func TestRunInsertFailure(t *testing.T) {
	fetcher := &stubFetcher{raw: []byte(sampleFeed)}
	archiver := &stubArchiver{}
	st := &stubStore{insertErr: &store.PersistenceError{Err: errors.New("disk full")}}
	orch, _ := newTestOrchestrator(fetcher, archiver, st, nil)

	result := orch.Run(context.Background())

	if result.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", result.StatusCode)
	}
	if !st.closed {
		t.Error("expected store closed on the failure path")
	}
}

func TestRunOpenStoreFailure(t *testing.T) {
	fetcher := &stubFetcher{raw: []byte(sampleFeed)}
	archiver := &stubArchiver{}
	orch := New(fetcher, archiver,
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) (ArticleStore, error) {
			return nil, &store.ConnectError{Err: errors.New("connection refused")}
		},
	)

	result := orch.Run(context.Background())
	if result.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", result.StatusCode)
	}
}
