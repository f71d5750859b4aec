package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/sessionstack/pkg/session"
)

// DefaultCollection holds frame records when no collection name is configured.
const DefaultCollection = "session_frames"

// frameDocument is the stored form of session.Record. The lookup key is the
// document id.
type frameDocument struct {
	LookupKey string     `bson:"_id"`
	ID        string     `bson:"sid"`
	Key       []byte     `bson:"key"`
	IV        []byte     `bson:"iv"`
	Stack     []string   `bson:"stack"`
	Parent    string     `bson:"parent,omitempty"`
	Active    bool       `bson:"active"`
	CreatedAt time.Time  `bson:"created_at"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// Store implements session.AtomicStore on a MongoDB collection. Run
// EnsureIndexes once so the server drops expired frames by itself.
type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewStore(db *mongo.Database, collection string) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Store{
		coll: db.Collection(collection),
		now:  time.Now,
	}
}

// EnsureIndexes creates the TTL index on expires_at.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_at_ttl"),
	})
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

// Ping checks the client behind the collection, for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.coll.Database().Client().Ping(ctx, nil); err != nil {
		return errors.Join(ErrUnhealthy, err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, s.liveFilter(key), options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Join(ErrStoreFailed, err)
	}
	return n > 0, nil
}

// Get ignores documents past their expiry that the TTL monitor has not
// removed yet.
func (s *Store) Get(ctx context.Context, key string) (*session.Record, error) {
	var doc frameDocument
	if err := s.coll.FindOne(ctx, s.liveFilter(key)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, session.ErrRecordNotFound
		}
		return nil, errors.Join(ErrStoreFailed, err)
	}

	record := doc.record()
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Store) Put(ctx context.Context, key string, record *session.Record) error {
	doc, err := newFrameDocument(key, record)
	if err != nil {
		return err
	}
	_, err = s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: key}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

// PutIfAbsent inserts the document; a duplicate id only loses when the
// existing document is still live.
func (s *Store) PutIfAbsent(ctx context.Context, key string, record *session.Record) (bool, error) {
	doc, err := newFrameDocument(key, record)
	if err != nil {
		return false, err
	}

	_, err = s.coll.InsertOne(ctx, doc)
	if err == nil {
		return true, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return false, errors.Join(ErrStoreFailed, err)
	}

	res, err := s.coll.ReplaceOne(ctx, bson.D{
		{Key: "_id", Value: key},
		{Key: "expires_at", Value: bson.D{{Key: "$lte", Value: s.now().UTC()}}},
	}, doc)
	if err != nil {
		return false, errors.Join(ErrStoreFailed, err)
	}
	return res.MatchedCount == 1, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: key}}); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

func (s *Store) liveFilter(key string) bson.D {
	return bson.D{
		{Key: "_id", Value: key},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "expires_at", Value: nil}},
			bson.D{{Key: "expires_at", Value: bson.D{{Key: "$gt", Value: s.now().UTC()}}}},
		}},
	}
}

func newFrameDocument(key string, record *session.Record) (*frameDocument, error) {
	if key == "" || record == nil {
		return nil, session.ErrInvalidRecord
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	stack := make([]string, len(record.Stack))
	for i, id := range record.Stack {
		stack[i] = id.String()
	}

	doc := &frameDocument{
		LookupKey: key,
		ID:        record.ID.String(),
		Key:       record.Key,
		IV:        record.IV,
		Stack:     stack,
		Parent:    record.Parent,
		Active:    record.Active,
		CreatedAt: record.CreatedAt.UTC(),
	}
	if !record.ExpiresAt.IsZero() {
		t := record.ExpiresAt.UTC()
		doc.ExpiresAt = &t
	}
	return doc, nil
}

func (d *frameDocument) record() *session.Record {
	stack := make(session.Stack, len(d.Stack))
	for i, id := range d.Stack {
		stack[i] = session.ID(id)
	}

	r := &session.Record{
		LookupKey: d.LookupKey,
		ID:        session.ID(d.ID),
		Key:       d.Key,
		IV:        d.IV,
		Stack:     stack,
		Parent:    d.Parent,
		Active:    d.Active,
		CreatedAt: d.CreatedAt,
	}
	if d.ExpiresAt != nil {
		r.ExpiresAt = *d.ExpiresAt
	}
	return r
}
