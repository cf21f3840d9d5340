// Package seed fills a store with fake users, profiles and posts for local
// development.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"devconnector/internal/auth"
	"devconnector/internal/models"
	"devconnector/internal/observability"
	"devconnector/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
)

// Password is shared by every seeded account.
const Password = "password123"

var (
	statuses = []string{"Developer", "Junior Developer", "Senior Developer", "Manager", "Student or Learning", "Instructor", "Intern"}
	skills   = []string{"Go", "JavaScript", "TypeScript", "React", "Node.js", "PostgreSQL", "MongoDB", "Docker", "Kubernetes", "Python", "Rust", "GraphQL"}
	degrees  = []string{"BSc", "MSc", "PhD", "Bootcamp Certificate"}
)

type Seeder struct {
	store      repository.Store
	faker      *gofakeit.Faker
	bcryptCost int
}

// NewSeeder returns a Seeder whose output is reproducible for a given seed.
func NewSeeder(store repository.Store, seed int64, bcryptCost int) *Seeder {
	return &Seeder{store: store, faker: gofakeit.New(seed), bcryptCost: bcryptCost}
}

// Clean deletes everything in the store.
func (s *Seeder) Clean(ctx context.Context) error {
	observability.Logger.InfoContext(ctx, "cleaning store", slog.String("driver", s.store.Driver()))
	return s.store.Reset(ctx)
}

// SeedUsers creates n accounts, each with a profile.
func (s *Seeder) SeedUsers(ctx context.Context, n int) ([]*models.User, error) {
	hash, err := auth.HashPassword(Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		name := s.faker.Name()
		email := fmt.Sprintf("%s.%d@%s", strings.ToLower(s.faker.Username()), i, s.faker.DomainName())
		user := &models.User{
			Name:     name,
			Email:    email,
			Password: hash,
			Avatar:   auth.GravatarURL(email),
			Date:     s.pastDate(),
		}
		if err := s.store.Users().Create(ctx, user); err != nil {
			return nil, fmt.Errorf("seed user %d: %w", i, err)
		}
		if err := s.seedProfile(ctx, user); err != nil {
			return nil, fmt.Errorf("seed profile %d: %w", i, err)
		}
		users = append(users, user)
	}

	observability.Logger.InfoContext(ctx, "seeded users", slog.Int("count", len(users)))
	return users, nil
}

func (s *Seeder) seedProfile(ctx context.Context, user *models.User) error {
	handle := strings.ToLower(strings.ReplaceAll(user.Name, " ", ""))
	profile := &models.Profile{
		UserID:         user.ID,
		Company:        s.faker.Company(),
		Website:        s.faker.URL(),
		Location:       s.faker.City(),
		Bio:            s.faker.Sentence(12),
		Status:         s.faker.RandomString(statuses),
		GitHubUsername: handle,
		Skills:         s.pickSkills(),
		Social: models.Social{
			Twitter:  "https://twitter.com/" + handle,
			LinkedIn: "https://linkedin.com/in/" + handle,
		},
		Date: user.Date,
	}
	if err := s.store.Profiles().Create(ctx, profile); err != nil {
		return err
	}

	for i := s.faker.Number(0, 2); i > 0; i-- {
		from := s.pastDate()
		exp := models.Experience{
			Title:       s.faker.JobTitle(),
			Company:     s.faker.Company(),
			Location:    s.faker.City(),
			From:        from,
			Current:     i == 1,
			Description: s.faker.Sentence(8),
		}
		if !exp.Current {
			to := from.AddDate(1, 0, 0)
			exp.To = &to
		}
		if _, err := s.store.Profiles().AddExperience(ctx, user.ID, exp); err != nil {
			return err
		}
	}

	if s.faker.Bool() {
		from := s.pastDate()
		to := from.AddDate(4, 0, 0)
		edu := models.Education{
			School:       s.faker.Company() + " University",
			Degree:       s.faker.RandomString(degrees),
			FieldOfStudy: "Computer Science",
			From:         from,
			To:           &to,
		}
		if _, err := s.store.Profiles().AddEducation(ctx, user.ID, edu); err != nil {
			return err
		}
	}
	return nil
}

// SeedPosts creates n posts by random authors with likes and comments from
// random other users.
func (s *Seeder) SeedPosts(ctx context.Context, users []*models.User, n int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}

	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.faker.Number(0, len(users)-1)]
		post := &models.Post{
			UserID: author.ID,
			Text:   s.faker.Paragraph(1, 3, 8, " "),
			Name:   author.Name,
			Avatar: author.Avatar,
			Date:   s.pastDate(),
		}
		if err := s.store.Posts().Create(ctx, post); err != nil {
			return nil, fmt.Errorf("seed post %d: %w", i, err)
		}

		likers := s.faker.Number(0, min(5, len(users)))
		for _, idx := range s.faker.Rand.Perm(len(users))[:likers] {
			if _, err := s.store.Posts().AddLike(ctx, post.ID, users[idx].ID); err != nil {
				return nil, fmt.Errorf("seed like: %w", err)
			}
		}

		for c := s.faker.Number(0, 3); c > 0; c-- {
			commenter := users[s.faker.Number(0, len(users)-1)]
			_, err := s.store.Posts().AddComment(ctx, post.ID, models.Comment{
				UserID: commenter.ID,
				Text:   s.faker.Sentence(10),
				Name:   commenter.Name,
				Avatar: commenter.Avatar,
				Date:   post.Date.Add(time.Duration(c) * time.Hour),
			})
			if err != nil {
				return nil, fmt.Errorf("seed comment: %w", err)
			}
		}
		posts = append(posts, post)
	}

	observability.Logger.InfoContext(ctx, "seeded posts", slog.Int("count", len(posts)))
	return posts, nil
}

func (s *Seeder) pickSkills() []string {
	n := s.faker.Number(2, 5)
	out := make([]string, 0, n)
	for _, idx := range s.faker.Rand.Perm(len(skills))[:n] {
		out = append(out, skills[idx])
	}
	return out
}

func (s *Seeder) pastDate() time.Time {
	now := time.Now().UTC()
	return s.faker.DateRange(now.AddDate(-3, 0, 0), now).UTC()
}
