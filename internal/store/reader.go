package store

import "context"

// CycleReader opens one connection per read cycle and closes it on every
// path. The dashboard uses it so a dead database at render time costs one
// failed dial, not a wedged pool.
type CycleReader struct {
	DSN string
}

// Articles loads every persisted row.
func (r CycleReader) Articles(ctx context.Context) ([]Article, error) {
	st, err := Open(ctx, r.DSN)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	return st.ListArticles(ctx)
}
