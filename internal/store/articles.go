package store

import (
	"context"
)

const insertArticleSQL = `
INSERT INTO my_articles (
	source_id, source_name, author, title, description, url, url_to_image, published_at, content, sentiment_score
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULL)`

const listArticlesSQL = `
SELECT id, source_id, source_name, author, title, description, url, url_to_image, published_at, content, created_at, sentiment_score
FROM my_articles`

// InsertArticles inserts the batch in one transaction: all rows commit
// together or none do. sentiment_score is always NULL at write time.
func (s *Store) InsertArticles(ctx context.Context, articles []Article) error {
	if len(articles) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return &PersistenceError{Err: err}
	}

	for _, a := range articles {
		_, err := tx.Exec(ctx, insertArticleSQL,
			a.SourceID, a.SourceName, a.Author, a.Title, a.Description,
			a.URL, a.URLToImage, a.PublishedAt, a.Content,
		)
		if err != nil {
			tx.Rollback(ctx) //nolint: errcheck
			return &PersistenceError{Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &PersistenceError{Err: err}
	}
	return nil
}

// ListArticles returns every persisted row in the table's natural order.
func (s *Store) ListArticles(ctx context.Context) ([]Article, error) {
	rows, err := s.db.Query(ctx, listArticlesSQL)
	if err != nil {
		return nil, &QueryError{Err: err}
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		err := rows.Scan(
			&a.ID, &a.SourceID, &a.SourceName, &a.Author, &a.Title,
			&a.Description, &a.URL, &a.URLToImage, &a.PublishedAt,
			&a.Content, &a.CreatedAt, &a.SentimentScore,
		)
		if err != nil {
			return nil, &QueryError{Err: err}
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Err: err}
	}
	return articles, nil
}

// GetStats returns aggregate statistics for the status command.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	err := s.db.QueryRow(ctx,
		"SELECT COUNT(*), MAX(created_at) FROM my_articles",
	).Scan(&stats.TotalArticles, &stats.NewestAt)
	if err != nil {
		return nil, &QueryError{Err: err}
	}
	return &stats, nil
}
