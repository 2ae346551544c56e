package source

import (
	"context"
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lmfdb/latticeview/pkg/errors"
	pkgio "github.com/lmfdb/latticeview/pkg/io"
)

// Postgres reads documents from a table with an ambient text column and a
// diagram json or jsonb column.
type Postgres struct {
	pool  *pgxpool.Pool
	query string
}

// NewPostgres opens a pool for dsn and pings the server.
func NewPostgres(ctx context.Context, dsn, table string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "postgres dsn")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping postgres")
	}
	return &Postgres{pool: pool, query: selectQuery(table)}, nil
}

func selectQuery(table string) string {
	return "SELECT diagram FROM " + pgx.Identifier{table}.Sanitize() + " WHERE ambient = $1"
}

// Load implements Source.
func (p *Postgres) Load(ctx context.Context, ambient string) (*pkgio.Document, error) {
	if err := validAmbient(ambient); err != nil {
		return nil, err
	}
	var data []byte
	err := p.pool.QueryRow(ctx, p.query, ambient).Scan(&data)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.New(errors.ErrCodeNotFound, "no diagram for %s", ambient)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query diagram %s", ambient)
	}
	doc, err := pkgio.ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return withAmbient(doc, ambient), nil
}

// Close closes the pool.
func (p *Postgres) Close(context.Context) error {
	p.pool.Close()
	return nil
}

var _ Source = (*Postgres)(nil)
