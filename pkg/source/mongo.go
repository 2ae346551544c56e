package source

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lmfdb/latticeview/pkg/errors"
	pkgio "github.com/lmfdb/latticeview/pkg/io"
)

// Mongo reads documents from a collection, one per ambient label.
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongo connects to uri and pings the server.
func NewMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}
	return &Mongo{client: client, collection: client.Database(database).Collection(collection)}, nil
}

// Load implements Source. The stored document is converted to relaxed
// extended JSON and decoded like a file.
func (m *Mongo) Load(ctx context.Context, ambient string) (*pkgio.Document, error) {
	if err := validAmbient(ambient); err != nil {
		return nil, err
	}
	raw, err := m.collection.FindOne(ctx, bson.M{"ambient": ambient}).Raw()
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "no diagram for %s", ambient)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "find diagram %s", ambient)
	}
	return decodeBSON(raw, ambient)
}

func decodeBSON(raw bson.Raw, ambient string) (*pkgio.Document, error) {
	data, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "convert diagram %s", ambient)
	}
	doc, err := pkgio.ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return withAmbient(doc, ambient), nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var _ Source = (*Mongo)(nil)
