// Package mongodb implements the repository contracts on MongoDB. Embedded
// list changes are single atomic updates.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"devconnector/internal/observability"
	"devconnector/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	UsersCollection    = "users"
	ProfilesCollection = "profiles"
	PostsCollection    = "posts"
)

// Store implements repository.Store on one MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	users    *userRepository
	profiles *profileRepository
	posts    *postRepository
}

// NewStore wraps a connected client.
func NewStore(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	t := &tracker{metrics: observability.NewStoreMetrics("mongo")}
	return &Store{
		client: client,
		db:     db,
		users: &userRepository{
			coll: db.Collection(UsersCollection), t: t, log: observability.NewRepoLogger(UsersCollection),
		},
		profiles: &profileRepository{
			coll: db.Collection(ProfilesCollection), t: t, log: observability.NewRepoLogger(ProfilesCollection),
		},
		posts: &postRepository{
			coll: db.Collection(PostsCollection), t: t, log: observability.NewRepoLogger(PostsCollection),
		},
	}
}

// Connect dials uri and verifies the deployment answers.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique and ordering indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string]mongo.IndexModel{
		UsersCollection: {
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		ProfilesCollection: {
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		PostsCollection: {
			Keys: bson.D{{Key: "date", Value: -1}},
		},
	}
	for coll, model := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", coll, err)
		}
	}
	return nil
}

func (s *Store) Users() repository.UserRepository       { return s.users }
func (s *Store) Profiles() repository.ProfileRepository { return s.profiles }
func (s *Store) Posts() repository.PostRepository       { return s.posts }
func (s *Store) Driver() string                         { return "mongo" }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Reset empties every collection while keeping indexes.
func (s *Store) Reset(ctx context.Context) error {
	for _, coll := range []string{PostsCollection, ProfilesCollection, UsersCollection} {
		if _, err := s.db.Collection(coll).DeleteMany(ctx, bson.D{}); err != nil {
			return fmt.Errorf("reset %s: %w", coll, err)
		}
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// tracker wraps each call in a span and a latency observation.
type tracker struct {
	metrics *observability.StoreMetrics
}

func (t *tracker) start(ctx context.Context, op, coll string) (context.Context, func()) {
	ctx, span := observability.StartStoreSpan(ctx, "mongodb", op, coll)
	done := t.metrics.TrackQuery(op, coll)
	return ctx, func() {
		done()
		span.End()
	}
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	default:
		return err
	}
}

func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// pushFront prepends value to the array at field.
func pushFront(field string, value any) bson.M {
	return bson.M{"$push": bson.M{field: bson.M{"$each": bson.A{value}, "$position": 0}}}
}
