package mongodb

import (
	"context"
	"strings"

	"devconnector/internal/models"
	"devconnector/internal/observability"
	"devconnector/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRepository struct {
	coll *mongo.Collection
	t    *tracker
	log  *observability.RepoLogger
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	ctx, done := r.t.start(ctx, "create", UsersCollection)
	defer done()

	doc := userDoc{
		ID:       primitive.NewObjectID(),
		Name:     user.Name,
		Email:    strings.ToLower(strings.TrimSpace(user.Email)),
		Password: user.Password,
		Avatar:   user.Avatar,
		Date:     user.Date,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		err = translate(err)
		if err != repository.ErrDuplicate {
			r.log.LogError(ctx, "create", err, nil)
		}
		return err
	}

	user.ID = doc.ID.Hex()
	user.Email = doc.Email
	r.log.LogCreate(ctx, map[string]any{"user_id": user.ID})
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, done := r.t.start(ctx, "get_by_id", UsersCollection)
	defer done()

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, done := r.t.start(ctx, "get_by_email", UsersCollection)
	defer done()

	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.model(), nil
}

func (r *userRepository) Summaries(ctx context.Context, ids []string) (map[string]*models.UserSummary, error) {
	ctx, done := r.t.start(ctx, "summaries", UsersCollection)
	defer done()

	out := make(map[string]*models.UserSummary, len(ids))
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := parseID(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return out, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, translate(err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate(err)
	}
	for i := range docs {
		out[docs[i].ID.Hex()] = docs[i].model().Summary()
	}
	return out, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	ctx, done := r.t.start(ctx, "delete", UsersCollection)
	defer done()

	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		r.log.LogError(ctx, "delete", err, map[string]any{"user_id": id})
		return translate(err)
	}
	r.log.LogDelete(ctx, map[string]any{"user_id": id})
	return nil
}
