package mongodb

import (
	"time"

	"devconnector/internal/models"
	"devconnector/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
	Avatar   string             `bson:"avatar"`
	Date     time.Time          `bson:"date"`
}

type socialDoc struct {
	YouTube   string `bson:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty"`
}

type experienceDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Company     string             `bson:"company"`
	Location    string             `bson:"location,omitempty"`
	From        time.Time          `bson:"from"`
	To          *time.Time         `bson:"to,omitempty"`
	Current     bool               `bson:"current"`
	Description string             `bson:"description,omitempty"`
}

type educationDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	School       string             `bson:"school"`
	Degree       string             `bson:"degree"`
	FieldOfStudy string             `bson:"fieldofstudy"`
	From         time.Time          `bson:"from"`
	To           *time.Time         `bson:"to,omitempty"`
	Current      bool               `bson:"current"`
	Description  string             `bson:"description,omitempty"`
}

type profileDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	User           primitive.ObjectID `bson:"user"`
	Company        string             `bson:"company,omitempty"`
	Website        string             `bson:"website,omitempty"`
	Location       string             `bson:"location,omitempty"`
	Bio            string             `bson:"bio,omitempty"`
	Status         string             `bson:"status"`
	GitHubUsername string             `bson:"githubusername,omitempty"`
	Skills         []string           `bson:"skills"`
	Social         socialDoc          `bson:"social"`
	Experience     []experienceDoc    `bson:"experience"`
	Education      []educationDoc     `bson:"education"`
	Date           time.Time          `bson:"date"`
}

type likeDoc struct {
	ID   primitive.ObjectID `bson:"_id"`
	User primitive.ObjectID `bson:"user"`
}

type commentDoc struct {
	ID     primitive.ObjectID `bson:"_id"`
	User   primitive.ObjectID `bson:"user"`
	Text   string             `bson:"text"`
	Name   string             `bson:"name"`
	Avatar string             `bson:"avatar"`
	Date   time.Time          `bson:"date"`
}

type postDoc struct {
	ID       primitive.ObjectID `bson:"_id"`
	User     primitive.ObjectID `bson:"user"`
	Text     string             `bson:"text"`
	Name     string             `bson:"name"`
	Avatar   string             `bson:"avatar"`
	Likes    []likeDoc          `bson:"likes"`
	Comments []commentDoc       `bson:"comments"`
	Date     time.Time          `bson:"date"`
}

// parseID converts a hex identifier, mapping failures to ErrInvalidID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrInvalidID
	}
	return oid, nil
}

func hex(oid primitive.ObjectID) string {
	if oid.IsZero() {
		return ""
	}
	return oid.Hex()
}

func (d *userDoc) model() *models.User {
	return &models.User{
		ID:       hex(d.ID),
		Name:     d.Name,
		Email:    d.Email,
		Password: d.Password,
		Avatar:   d.Avatar,
		Date:     d.Date,
	}
}

func (d *profileDoc) model() *models.Profile {
	p := &models.Profile{
		ID:             hex(d.ID),
		UserID:         hex(d.User),
		Company:        d.Company,
		Website:        d.Website,
		Location:       d.Location,
		Bio:            d.Bio,
		Status:         d.Status,
		GitHubUsername: d.GitHubUsername,
		Skills:         d.Skills,
		Social:         models.Social(d.Social),
		Date:           d.Date,
	}
	for _, e := range d.Experience {
		p.Experience = append(p.Experience, models.Experience{
			ID: hex(e.ID), Title: e.Title, Company: e.Company, Location: e.Location,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		})
	}
	for _, e := range d.Education {
		p.Education = append(p.Education, models.Education{
			ID: hex(e.ID), School: e.School, Degree: e.Degree, FieldOfStudy: e.FieldOfStudy,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		})
	}
	p.Normalize()
	return p
}

func experienceToDoc(e models.Experience) experienceDoc {
	return experienceDoc{
		ID: primitive.NewObjectID(), Title: e.Title, Company: e.Company, Location: e.Location,
		From: e.From, To: e.To, Current: e.Current, Description: e.Description,
	}
}

func educationToDoc(e models.Education) educationDoc {
	return educationDoc{
		ID: primitive.NewObjectID(), School: e.School, Degree: e.Degree, FieldOfStudy: e.FieldOfStudy,
		From: e.From, To: e.To, Current: e.Current, Description: e.Description,
	}
}

func likesModel(docs []likeDoc) []models.Like {
	out := make([]models.Like, 0, len(docs))
	for _, l := range docs {
		out = append(out, models.Like{ID: hex(l.ID), UserID: hex(l.User)})
	}
	return out
}

func commentsModel(docs []commentDoc) []models.Comment {
	out := make([]models.Comment, 0, len(docs))
	for _, c := range docs {
		out = append(out, models.Comment{
			ID: hex(c.ID), UserID: hex(c.User), Text: c.Text, Name: c.Name, Avatar: c.Avatar, Date: c.Date,
		})
	}
	return out
}

func (d *postDoc) model() *models.Post {
	return &models.Post{
		ID:       hex(d.ID),
		UserID:   hex(d.User),
		Text:     d.Text,
		Name:     d.Name,
		Avatar:   d.Avatar,
		Likes:    likesModel(d.Likes),
		Comments: commentsModel(d.Comments),
		Date:     d.Date,
	}
}
