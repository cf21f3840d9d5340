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

type profileRepository struct {
	coll *mongo.Collection
	t    *tracker
	log  *observability.RepoLogger
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	ctx, done := r.t.start(ctx, "get_by_user", ProfilesCollection)
	defer done()

	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	return r.findByUser(ctx, uid)
}

func (r *profileRepository) findByUser(ctx context.Context, uid primitive.ObjectID) (*models.Profile, error) {
	var doc profileDoc
	if err := r.coll.FindOne(ctx, bson.M{"user": uid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.model(), nil
}

func (r *profileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	ctx, done := r.t.start(ctx, "list", ProfilesCollection)
	defer done()

	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, translate(err)
	}
	var docs []profileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate(err)
	}

	out := make([]*models.Profile, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].model())
	}
	return out, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	ctx, done := r.t.start(ctx, "create", ProfilesCollection)
	defer done()

	uid, err := parseID(profile.UserID)
	if err != nil {
		return err
	}

	doc := profileDoc{
		ID:             primitive.NewObjectID(),
		User:           uid,
		Company:        profile.Company,
		Website:        profile.Website,
		Location:       profile.Location,
		Bio:            profile.Bio,
		Status:         profile.Status,
		GitHubUsername: profile.GitHubUsername,
		Skills:         profile.Skills,
		Social:         socialDoc(profile.Social),
		Experience:     []experienceDoc{},
		Education:      []educationDoc{},
		Date:           profile.Date,
	}
	if doc.Skills == nil {
		doc.Skills = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		err = translate(err)
		if err != repository.ErrDuplicate {
			r.log.LogError(ctx, "create", err, map[string]any{"user_id": profile.UserID})
		}
		return err
	}

	profile.ID = doc.ID.Hex()
	profile.Normalize()
	r.log.LogCreate(ctx, map[string]any{"profile_id": profile.ID, "user_id": profile.UserID})
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	ctx, done := r.t.start(ctx, "update", ProfilesCollection)
	defer done()

	oid, err := parseID(profile.ID)
	if err != nil {
		return err
	}
	skills := profile.Skills
	if skills == nil {
		skills = []string{}
	}

	set := bson.M{
		"company":        profile.Company,
		"website":        profile.Website,
		"location":       profile.Location,
		"bio":            profile.Bio,
		"status":         profile.Status,
		"githubusername": profile.GitHubUsername,
		"skills":         skills,
		"social":         socialDoc(profile.Social),
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		r.log.LogError(ctx, "update", err, map[string]any{"profile_id": profile.ID})
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	r.log.LogUpdate(ctx, map[string]any{"profile_id": profile.ID})
	return nil
}

func (r *profileRepository) DeleteByUserID(ctx context.Context, userID string) error {
	ctx, done := r.t.start(ctx, "delete", ProfilesCollection)
	defer done()

	uid, err := parseID(userID)
	if err != nil {
		return err
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"user": uid}); err != nil {
		r.log.LogError(ctx, "delete", err, map[string]any{"user_id": userID})
		return translate(err)
	}
	r.log.LogDelete(ctx, map[string]any{"user_id": userID})
	return nil
}

func (r *profileRepository) AddExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error) {
	return r.update(ctx, "add_experience", userID, pushFront("experience", experienceToDoc(exp)))
}

func (r *profileRepository) RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	return r.pull(ctx, "remove_experience", userID, "experience", expID)
}

func (r *profileRepository) AddEducation(ctx context.Context, userID string, edu models.Education) (*models.Profile, error) {
	return r.update(ctx, "add_education", userID, pushFront("education", educationToDoc(edu)))
}

func (r *profileRepository) RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	return r.pull(ctx, "remove_education", userID, "education", eduID)
}

// pull removes the entry with id from field. A malformed id cannot match
// anything, so the current profile is returned unchanged.
func (r *profileRepository) pull(ctx context.Context, op, userID, field, id string) (*models.Profile, error) {
	entryID, err := parseID(id)
	if err != nil {
		return r.GetByUserID(ctx, userID)
	}
	return r.update(ctx, op, userID, bson.M{"$pull": bson.M{field: bson.M{"_id": entryID}}})
}

func (r *profileRepository) update(ctx context.Context, op, userID string, update bson.M) (*models.Profile, error) {
	ctx, done := r.t.start(ctx, op, ProfilesCollection)
	defer done()

	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	var doc profileDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"user": uid}, update, returnAfter()).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	r.log.LogUpdate(ctx, map[string]any{"profile_id": doc.ID.Hex(), "change": op})
	return doc.model(), nil
}
