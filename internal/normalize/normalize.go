// Package normalize maps raw feed records into the fixed row shape.
package normalize

import (
	"time"

	"newsboard/internal/feed"
	"newsboard/internal/store"
)

// Article maps one raw record to one row ready for insertion. Missing
// fields become nil; a record with nothing populated still normalizes to
// an all-null row. Never fails.
func Article(raw feed.Article) store.Article {
	return store.Article{
		SourceID:    raw.Source.ID,
		SourceName:  raw.Source.Name,
		Author:      raw.Author,
		Title:       raw.Title,
		Description: raw.Description,
		URL:         raw.URL,
		URLToImage:  raw.URLToImage,
		PublishedAt: ParsePublishedAt(raw.PublishedAt),
		Content:     raw.Content,
	}
}

// Articles normalizes a whole batch, preserving order.
func Articles(raw []feed.Article) []store.Article {
	rows := make([]store.Article, len(raw))
	for i, r := range raw {
		rows[i] = Article(r)
	}
	return rows
}

// ParsePublishedAt parses an ISO-8601 timestamp, accepting a trailing Z
// as UTC offset and a zone-less form. Absent or unparseable values yield
// nil rather than an error.
func ParsePublishedAt(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}
