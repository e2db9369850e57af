package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

// MongoConfig configures a MongoBackend.
type MongoConfig struct {
	URI        string // default "mongodb://localhost:27017"
	Database   string // default "sceneforge"
	Collection string // default "projects"
}

// MongoBackend keeps one document per project, keyed by path.
type MongoBackend struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// projectDocument is the stored form. The project JSON is kept verbatim so
// the document round-trips byte for byte with the file format.
type projectDocument struct {
	Path      string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// ConnectMongo connects and pings the server.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*MongoBackend, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "sceneforge"
	}
	if cfg.Collection == "" {
		cfg.Collection = "projects"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoBackend{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Name implements Backend.
func (b *MongoBackend) Name() string { return "mongo" }

// Read implements Backend.
func (b *MongoBackend) Read(ctx context.Context, path string) ([]byte, error) {
	var doc projectDocument
	err := b.coll.FindOne(ctx, bson.M{"_id": path}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, sferrors.New(sferrors.ErrCodeProjectNotFound, "no project at %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	return doc.Data, nil
}

// Write implements Backend.
func (b *MongoBackend) Write(ctx context.Context, path string, data []byte) error {
	doc := projectDocument{Path: path, Data: data, UpdatedAt: time.Now().UTC()}
	_, err := b.coll.ReplaceOne(ctx, bson.M{"_id": path}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace project: %w", err)
	}
	return nil
}

// Exists implements Backend.
func (b *MongoBackend) Exists(ctx context.Context, path string) (bool, error) {
	n, err := b.coll.CountDocuments(ctx, bson.M{"_id": path}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count project: %w", err)
	}
	return n > 0, nil
}

// List implements Backend.
func (b *MongoBackend) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := b.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer cur.Close(ctx)

	var out []string
	for cur.Next(ctx) {
		var doc struct {
			Path string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode project id: %w", err)
		}
		out = append(out, doc.Path)
	}
	return out, cur.Err()
}

// Close disconnects the client.
func (b *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return b.client.Disconnect(ctx)
}

var _ Backend = (*MongoBackend)(nil)
