package store

import "time"

// Article is one persisted row of my_articles. Nullable columns map to
// pointers. SentimentScore is reserved in the schema but never written;
// sentiment is derived at display time.
type Article struct {
	ID             int64
	SourceID       *string
	SourceName     *string
	Author         *string
	Title          *string
	Description    *string
	URL            *string
	URLToImage     *string
	PublishedAt    *time.Time
	Content        *string
	CreatedAt      time.Time
	SentimentScore *float64
}

// Stats contains aggregate table statistics.
type Stats struct {
	TotalArticles int64
	NewestAt      *time.Time
}
