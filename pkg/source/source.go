// Package source looks up diagram documents by ambient identifier.
//
// Three backends exist: a directory of JSON files, a MongoDB collection and
// a Postgres table. All of them hold the same document format that
// [pkgio.ParseDocument] reads; the database backends store it as a BSON
// document or a JSON column keyed by the ambient label.
package source

import (
	"context"
	"strings"

	"github.com/lmfdb/latticeview/pkg/errors"
	pkgio "github.com/lmfdb/latticeview/pkg/io"
)

// Source loads the diagram document of an ambient object.
type Source interface {
	Load(ctx context.Context, ambient string) (*pkgio.Document, error)
	Close(ctx context.Context) error
}

// Config selects and configures a backend. The first backend with its
// required field set wins, in the order Mongo, Postgres, Dir.
type Config struct {
	Dir string `toml:"dir" json:"dir" envconfig:"SOURCE_DIR"`

	MongoURI        string `toml:"mongo_uri" json:"mongo_uri" envconfig:"MONGO_URI"`
	MongoDatabase   string `toml:"mongo_database" json:"mongo_database" envconfig:"MONGO_DATABASE"`
	MongoCollection string `toml:"mongo_collection" json:"mongo_collection" envconfig:"MONGO_COLLECTION"`

	PostgresDSN   string `toml:"postgres_dsn" json:"postgres_dsn" envconfig:"POSTGRES_DSN"`
	PostgresTable string `toml:"postgres_table" json:"postgres_table" envconfig:"POSTGRES_TABLE"`
}

const (
	DefaultMongoDatabase   = "lmfdb"
	DefaultMongoCollection = "subgroup_diagrams"
	DefaultPostgresTable   = "subgroup_diagrams"
)

// Open connects to the configured backend.
func Open(ctx context.Context, cfg Config) (Source, error) {
	switch {
	case cfg.MongoURI != "":
		return NewMongo(ctx, cfg.MongoURI, orDefault(cfg.MongoDatabase, DefaultMongoDatabase), orDefault(cfg.MongoCollection, DefaultMongoCollection))
	case cfg.PostgresDSN != "":
		return NewPostgres(ctx, cfg.PostgresDSN, orDefault(cfg.PostgresTable, DefaultPostgresTable))
	case cfg.Dir != "":
		return NewDir(cfg.Dir)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "no diagram source configured")
}

// Kind names the backend cfg selects, for log output.
func (cfg Config) Kind() string {
	switch {
	case cfg.MongoURI != "":
		return "mongo"
	case cfg.PostgresDSN != "":
		return "postgres"
	case cfg.Dir != "":
		return "dir"
	}
	return "none"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// validAmbient rejects identifiers that could escape a directory or are
// empty.
func validAmbient(ambient string) error {
	if ambient == "" || strings.ContainsAny(ambient, `/\`) || strings.HasPrefix(ambient, ".") {
		return errors.New(errors.ErrCodeInvalidInput, "invalid ambient identifier %q", ambient)
	}
	return nil
}

// withAmbient fills in the ambient of a document stored without one.
func withAmbient(doc *pkgio.Document, ambient string) *pkgio.Document {
	if doc.Ambient == "" {
		doc.Ambient = ambient
	}
	return doc
}
