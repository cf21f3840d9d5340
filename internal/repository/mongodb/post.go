package mongodb

import (
	"context"

	"devconnector/internal/models"
	"devconnector/internal/observability"
	"devconnector/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type postRepository struct {
	coll *mongo.Collection
	t    *tracker
	log  *observability.RepoLogger
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	ctx, done := r.t.start(ctx, "create", PostsCollection)
	defer done()

	uid, err := parseID(post.UserID)
	if err != nil {
		return err
	}
	doc := postDoc{
		ID:       primitive.NewObjectID(),
		User:     uid,
		Text:     post.Text,
		Name:     post.Name,
		Avatar:   post.Avatar,
		Likes:    []likeDoc{},
		Comments: []commentDoc{},
		Date:     post.Date,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		r.log.LogError(ctx, "create", err, map[string]any{"user_id": post.UserID})
		return translate(err)
	}

	post.ID = doc.ID.Hex()
	post.Normalize()
	r.log.LogCreate(ctx, map[string]any{"post_id": post.ID, "user_id": post.UserID})
	return nil
}

func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	ctx, done := r.t.start(ctx, "list", PostsCollection)
	defer done()

	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, translate(err)
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate(err)
	}

	out := make([]*models.Post, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].model())
	}
	return out, nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	ctx, done := r.t.start(ctx, "get_by_id", PostsCollection)
	defer done()

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc postDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.model(), nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	ctx, done := r.t.start(ctx, "delete", PostsCollection)
	defer done()

	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.log.LogError(ctx, "delete", err, map[string]any{"post_id": id})
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	r.log.LogDelete(ctx, map[string]any{"post_id": id})
	return nil
}

func (r *postRepository) AddLike(ctx context.Context, postID, userID string) ([]models.Like, error) {
	pid, uid, err := parseIDs(postID, userID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": pid, "likes.user": bson.M{"$ne": uid}}
	doc, err := r.conditional(ctx, "add_like", pid, filter, pushFront("likes", likeDoc{ID: primitive.NewObjectID(), User: uid}))
	if err != nil {
		return nil, err
	}
	return likesModel(doc.Likes), nil
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID string) ([]models.Like, error) {
	pid, uid, err := parseIDs(postID, userID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": pid, "likes.user": uid}
	doc, err := r.conditional(ctx, "remove_like", pid, filter, bson.M{"$pull": bson.M{"likes": bson.M{"user": uid}}})
	if err != nil {
		return nil, err
	}
	return likesModel(doc.Likes), nil
}

func (r *postRepository) AddComment(ctx context.Context, postID string, comment models.Comment) ([]models.Comment, error) {
	pid, uid, err := parseIDs(postID, comment.UserID)
	if err != nil {
		return nil, err
	}
	entry := commentDoc{
		ID:     primitive.NewObjectID(),
		User:   uid,
		Text:   comment.Text,
		Name:   comment.Name,
		Avatar: comment.Avatar,
		Date:   comment.Date,
	}
	doc, err := r.conditional(ctx, "add_comment", pid, bson.M{"_id": pid}, pushFront("comments", entry))
	if err != nil {
		return nil, err
	}
	return commentsModel(doc.Comments), nil
}

func (r *postRepository) RemoveComment(ctx context.Context, postID, commentID string) ([]models.Comment, error) {
	pid, err := parseID(postID)
	if err != nil {
		return nil, err
	}
	cid, err := parseID(commentID)
	if err != nil {
		post, err := r.GetByID(ctx, postID)
		if err != nil {
			return nil, err
		}
		return post.Comments, nil
	}
	doc, err := r.conditional(ctx, "remove_comment", pid, bson.M{"_id": pid},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": cid}}})
	if err != nil {
		return nil, err
	}
	return commentsModel(doc.Comments), nil
}

// conditional applies update to the post matching filter. When nothing
// matched it tells a missing post (ErrNotFound) from a failed condition
// (ErrConflict).
func (r *postRepository) conditional(ctx context.Context, op string, pid primitive.ObjectID, filter, update bson.M) (*postDoc, error) {
	ctx, done := r.t.start(ctx, op, PostsCollection)
	defer done()

	var doc postDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, update, returnAfter()).Decode(&doc)
	if err == nil {
		r.log.LogUpdate(ctx, map[string]any{"post_id": pid.Hex(), "change": op})
		return &doc, nil
	}
	if translate(err) != repository.ErrNotFound {
		r.log.LogError(ctx, op, err, map[string]any{"post_id": pid.Hex()})
		return nil, translate(err)
	}

	exists := r.coll.FindOne(ctx, bson.M{"_id": pid}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	switch translate(exists) {
	case nil:
		return nil, repository.ErrConflict
	case repository.ErrNotFound:
		return nil, repository.ErrNotFound
	default:
		return nil, translate(exists)
	}
}

func parseIDs(postID, userID string) (primitive.ObjectID, primitive.ObjectID, error) {
	pid, err := parseID(postID)
	if err != nil {
		return pid, primitive.NilObjectID, err
	}
	uid, err := parseID(userID)
	if err != nil {
		return pid, uid, err
	}
	return pid, uid, nil
}
