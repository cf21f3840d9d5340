package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"devconnector/internal/github"
	"devconnector/internal/models"
	"devconnector/internal/repository"
)

const (
	MsgNoProfile       = "There is no profile for this user"
	MsgProfileNotFound = "Profile not found"
	MsgUserDeleted     = "User deleted"
	MsgNoGitHubProfile = "No Github profile found"
)

// ErrGitHubUnavailable wraps transport failures talking to GitHub. Callers
// log it and leave the response untouched.
var ErrGitHubUnavailable = errors.New("github unavailable")

// RepoFetcher lists the public repositories of a GitHub user.
type RepoFetcher interface {
	Repos(ctx context.Context, username string) ([]json.RawMessage, error)
}

type ProfileService struct {
	profiles repository.ProfileRepository
	users    repository.UserRepository
	github   RepoFetcher
}

// ProfileInput carries the submitted profile fields. Nil pointers and a nil
// Skills slice mean the field was absent from the request.
type ProfileInput struct {
	UserID         string
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GitHubUsername *string
	Skills         []string

	YouTube   *string
	Twitter   *string
	Facebook  *string
	LinkedIn  *string
	Instagram *string
}

func NewProfileService(profiles repository.ProfileRepository, users repository.UserRepository, gh RepoFetcher) *ProfileService {
	return &ProfileService{profiles: profiles, users: users, github: gh}
}

// SplitSkills turns "go, sql,,docker " into [go sql docker].
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}

// GetMine returns the caller's profile with their name and avatar.
func (s *ProfileService) GetMine(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, s.missing(err, MsgNoProfile)
	}
	if err := s.join(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Upsert updates the caller's profile, or creates it when there is none.
// The read and the write are separate operations.
func (s *ProfileService) Upsert(ctx context.Context, in ProfileInput) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, in.UserID)
	switch {
	case err == nil:
		return s.update(ctx, profile, in)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, models.NewInternalError(err)
	}

	profile = &models.Profile{UserID: in.UserID, Date: time.Now().UTC()}
	in.apply(profile)
	err = s.profiles.Create(ctx, profile)
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent submit created it first; fold this one in as an update.
		existing, getErr := s.profiles.GetByUserID(ctx, in.UserID)
		if getErr != nil {
			return nil, models.NewInternalError(getErr)
		}
		return s.update(ctx, existing, in)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return profile, nil
}

func (s *ProfileService) update(ctx context.Context, profile *models.Profile, in ProfileInput) (*models.Profile, error) {
	in.apply(profile)
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, models.NewInternalError(err)
	}
	return profile, nil
}

func (in ProfileInput) apply(p *models.Profile) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&p.Company, in.Company)
	set(&p.Website, in.Website)
	set(&p.Location, in.Location)
	set(&p.Bio, in.Bio)
	set(&p.Status, in.Status)
	set(&p.GitHubUsername, in.GitHubUsername)
	if in.Skills != nil {
		p.Skills = in.Skills
	}

	set(&p.Social.YouTube, in.YouTube)
	set(&p.Social.Twitter, in.Twitter)
	set(&p.Social.Facebook, in.Facebook)
	set(&p.Social.LinkedIn, in.LinkedIn)
	set(&p.Social.Instagram, in.Instagram)
}

// List returns every profile with the owners joined in.
func (s *ProfileService) List(ctx context.Context) ([]*models.Profile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	summaries, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, p := range profiles {
		p.User = summaries[p.UserID]
	}
	return profiles, nil
}

// GetByUserID returns the public profile of userID.
func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, s.missing(err, MsgProfileNotFound)
	}
	if err := s.join(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// DeleteAccount removes the caller's profile and then the account itself.
// Posts written by the user are kept.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.profiles.DeleteByUserID(ctx, userID); err != nil {
		return models.NewInternalError(err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *ProfileService) AddExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error) {
	exp.ID = ""
	profile, err := s.profiles.AddExperience(ctx, userID, exp)
	if err != nil {
		return nil, s.missing(err, MsgNoProfile)
	}
	return profile, nil
}

// RemoveExperience drops the entry with expID. Unknown ids are ignored.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	profile, err := s.profiles.RemoveExperience(ctx, userID, expID)
	if err != nil {
		return nil, s.missing(err, MsgNoProfile)
	}
	return profile, nil
}

func (s *ProfileService) AddEducation(ctx context.Context, userID string, edu models.Education) (*models.Profile, error) {
	edu.ID = ""
	profile, err := s.profiles.AddEducation(ctx, userID, edu)
	if err != nil {
		return nil, s.missing(err, MsgNoProfile)
	}
	return profile, nil
}

// RemoveEducation drops the entry with eduID. Unknown ids are ignored.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	profile, err := s.profiles.RemoveEducation(ctx, userID, eduID)
	if err != nil {
		return nil, s.missing(err, MsgNoProfile)
	}
	return profile, nil
}

// GitHubRepos relays the latest repositories of username.
func (s *ProfileService) GitHubRepos(ctx context.Context, username string) ([]json.RawMessage, error) {
	repos, err := s.github.Repos(ctx, username)
	switch {
	case err == nil:
		return repos, nil
	case errors.Is(err, github.ErrNoProfile):
		return nil, models.NewUpstreamError(MsgNoGitHubProfile, err)
	default:
		return nil, errors.Join(ErrGitHubUnavailable, err)
	}
}

func (s *ProfileService) join(ctx context.Context, profile *models.Profile) error {
	summaries, err := s.users.Summaries(ctx, []string{profile.UserID})
	if err != nil {
		return models.NewInternalError(err)
	}
	profile.User = summaries[profile.UserID]
	return nil
}

func (s *ProfileService) missing(err error, msg string) error {
	if isMissing(err) {
		return models.NewNotFoundError(msg)
	}
	return models.NewInternalError(err)
}
