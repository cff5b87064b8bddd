// Package mongo is the MongoDB store backend. Users keep their token
// collection embedded in the user document, so issuing and revoking a token is
// a single-document update.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"TODOAPP_BACK-END/internal/common"
	"TODOAPP_BACK-END/internal/store"
)

const (
	usersCollection = "users"
	todosCollection = "todos"
)

// Store implements store.Store on one MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	users  *UserRepository
	todos  *TodoRepository
}

var _ store.Store = (*Store)(nil)

// Open connects, pings the primary and makes sure the indexes exist.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client: client,
		db:     db,
		users:  &UserRepository{coll: db.Collection(usersCollection)},
		todos:  &TodoRepository{coll: db.Collection(todosCollection)},
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	_, err = s.todos.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "_creator", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create todos index: %w", err)
	}
	return nil
}

func (s *Store) Users() store.UserRepository { return s.users }
func (s *Store) Todos() store.TodoRepository { return s.todos }

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// objectID parses a hex id. Ids that cannot exist in the database are
// reported as not found.
func objectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, common.ErrNotFound
	}
	return oid, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return common.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return common.ErrDuplicateEmail
	default:
		return fmt.Errorf("db error: %w", err)
	}
}
