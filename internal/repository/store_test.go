package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"devconnector/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewGormStore(db)
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

func createUser(t *testing.T, s *GormStore, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "John Doe", Email: email, Password: "hash", Avatar: "avatar", Date: time.Now()}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func TestUserRepository(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	u := createUser(t, s, " John@Example.com ")
	_, err := uuid.Parse(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", u.Email)

	got, err := s.Users().GetByEmail(ctx, "JOHN@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.Password)

	got, err = s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Name)

	err = s.Users().Create(ctx, &models.User{Name: "Dup", Email: "john@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = s.Users().GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = s.Users().GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Users().GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	summaries, err := s.Users().Summaries(ctx, []string{u.ID, "bogus", uuid.NewString()})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "avatar", summaries[u.ID].Avatar)

	require.NoError(t, s.Users().Delete(ctx, u.ID))
	require.NoError(t, s.Users().Delete(ctx, u.ID), "deleting twice is not an error")
	_, err = s.Users().GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileRepository(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()
	u := createUser(t, s, "jane@example.com")

	_, err := s.Profiles().GetByUserID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	p := &models.Profile{
		UserID: u.ID,
		Status: "Developer",
		Skills: []string{"go", "react"},
		Social: models.Social{Twitter: "https://twitter.com/jane"},
		Date:   time.Now(),
	}
	require.NoError(t, s.Profiles().Create(ctx, p))
	assert.NotEmpty(t, p.ID)

	err = s.Profiles().Create(ctx, &models.Profile{UserID: u.ID, Status: "Other"})
	assert.ErrorIs(t, err, ErrDuplicate)

	p.Company = "Acme"
	p.Skills = []string{"go"}
	require.NoError(t, s.Profiles().Update(ctx, p))

	got, err := s.Profiles().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Company)
	assert.Equal(t, []string{"go"}, got.Skills)
	assert.Equal(t, "https://twitter.com/jane", got.Social.Twitter)
	assert.Empty(t, got.Experience)
	assert.NotNil(t, got.Experience)

	got, err = s.Profiles().AddExperience(ctx, u.ID, models.Experience{Title: "Dev", Company: "A", From: time.Now()})
	require.NoError(t, err)
	got, err = s.Profiles().AddExperience(ctx, u.ID, models.Experience{Title: "Lead", Company: "B", From: time.Now()})
	require.NoError(t, err)
	require.Len(t, got.Experience, 2)
	assert.Equal(t, "Lead", got.Experience[0].Title, "new entries go first")

	got, err = s.Profiles().RemoveExperience(ctx, u.ID, uuid.NewString())
	require.NoError(t, err)
	assert.Len(t, got.Experience, 2, "unknown id leaves the list unchanged")

	got, err = s.Profiles().RemoveExperience(ctx, u.ID, got.Experience[1].ID)
	require.NoError(t, err)
	require.Len(t, got.Experience, 1)
	assert.Equal(t, "Lead", got.Experience[0].Title)

	got, err = s.Profiles().AddEducation(ctx, u.ID, models.Education{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: time.Now()})
	require.NoError(t, err)
	require.Len(t, got.Education, 1)
	got, err = s.Profiles().RemoveEducation(ctx, u.ID, got.Education[0].ID)
	require.NoError(t, err)
	assert.Empty(t, got.Education)

	_, err = s.Profiles().AddEducation(ctx, uuid.NewString(), models.Education{School: "X"})
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := s.Profiles().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.Profiles().DeleteByUserID(ctx, u.ID))
	_, err = s.Profiles().GetByUserID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostRepository(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()
	author := createUser(t, s, "author@example.com")
	fan := createUser(t, s, "fan@example.com")

	older := &models.Post{UserID: author.ID, Text: "first", Date: time.Now().Add(-time.Hour)}
	newer := &models.Post{UserID: author.ID, Text: "second", Date: time.Now()}
	require.NoError(t, s.Posts().Create(ctx, older))
	require.NoError(t, s.Posts().Create(ctx, newer))

	posts, err := s.Posts().List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "second", posts[0].Text, "newest first")

	likes, err := s.Posts().AddLike(ctx, older.ID, fan.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, fan.ID, likes[0].UserID)

	_, err = s.Posts().AddLike(ctx, older.ID, fan.ID)
	assert.ErrorIs(t, err, ErrConflict)

	likes, err = s.Posts().AddLike(ctx, older.ID, author.ID)
	require.NoError(t, err)
	require.Len(t, likes, 2)
	assert.Equal(t, author.ID, likes[0].UserID)

	likes, err = s.Posts().RemoveLike(ctx, older.ID, fan.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, author.ID, likes[0].UserID, "only the caller's like is removed")

	_, err = s.Posts().RemoveLike(ctx, older.ID, fan.ID)
	assert.ErrorIs(t, err, ErrConflict)

	comments, err := s.Posts().AddComment(ctx, older.ID, models.Comment{UserID: fan.ID, Text: "nice", Date: time.Now()})
	require.NoError(t, err)
	comments, err = s.Posts().AddComment(ctx, older.ID, models.Comment{UserID: fan.ID, Text: "again", Date: time.Now()})
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "again", comments[0].Text)

	comments, err = s.Posts().RemoveComment(ctx, older.ID, comments[1].ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "again", comments[0].Text, "removal is keyed by comment id")

	got, err := s.Posts().GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Len(t, got.Likes, 1)
	assert.Len(t, got.Comments, 1)

	_, err = s.Posts().GetByID(ctx, "123")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = s.Posts().AddLike(ctx, uuid.NewString(), fan.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Posts().Delete(ctx, older.ID))
	assert.ErrorIs(t, s.Posts().Delete(ctx, older.ID), ErrNotFound)
}

func TestGormStore_ResetAndDriver(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()
	createUser(t, s, "a@example.com")

	assert.Equal(t, "sqlite", s.Driver())
	require.NoError(t, s.Reset(ctx))

	_, err := s.Users().GetByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_PostgresDuplicateKey(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormStore(db).Users()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{Name: "John", Email: "john@example.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_PostgresGetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormStore(db).Posts()
	id := uuid.NewString()

	rows := sqlmock.NewRows([]string{"id", "user_id", "text", "name", "avatar", "likes", "comments", "date"}).
		AddRow(id, uuid.NewString(), "hello", "John", "a", `[{"_id":"l1","user":"u1"}]`, `null`, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE id = $1`)).
		WithArgs(id, 1).
		WillReturnRows(rows)

	post, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Text)
	require.Len(t, post.Likes, 1)
	assert.Equal(t, "u1", post.Likes[0].UserID)
	assert.NotNil(t, post.Comments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ErrDuplicate)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505"}), ErrDuplicate)
	assert.Nil(t, translate(nil))
}
