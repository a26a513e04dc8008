package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rakapradana/fitness-tracker/internal/domain/entity"
	"github.com/rakapradana/fitness-tracker/internal/domain/repository"
	"github.com/rakapradana/fitness-tracker/pkg/helpers"
)

const profileCacheTTL = 10 * time.Minute

func profileCacheKey(username string) string {
	return "profile:cache:" + username
}

// ProfileService manages the per-user fitness profile and notes. Reads go
// through the session cache, then Redis, then Postgres; writes update
// Postgres and invalidate the Redis copy.
type ProfileService struct {
	profiles repository.ProfileRepository
	notes    repository.NoteRepository
	users    repository.UserRepository
	rdb      *redis.Client
	logger   *logrus.Logger

	storageTimeout time.Duration
}

func NewProfileService(profiles repository.ProfileRepository, notes repository.NoteRepository, users repository.UserRepository, rdb *redis.Client, logger *logrus.Logger, storageTimeout time.Duration) *ProfileService {
	return &ProfileService{
		profiles:       profiles,
		notes:          notes,
		users:          users,
		rdb:            rdb,
		logger:         logger,
		storageTimeout: storageTimeout,
	}
}

func (s *ProfileService) storageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storageTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storageTimeout)
}

func (s *ProfileService) storageErr(op string, err error) error {
	if s.logger != nil {
		s.logger.WithError(err).WithField("op", op).Error("storage call failed")
	}
	return fmt.Errorf("%s: %w", op, ErrStorageUnavailable)
}

// GetOrCreate returns the session user's profile, creating it with the
// application defaults (and the account's display name) on first visit.
func (s *ProfileService) GetOrCreate(ctx context.Context, sess *Session) (*entity.Profile, error) {
	if p := sess.CachedProfile(); p != nil {
		return p, nil
	}

	username := sess.Username()
	if s.rdb != nil {
		var cached entity.Profile
		if ok, err := helpers.RedisGetJSON(ctx, s.rdb, profileCacheKey(username), &cached); err == nil && ok {
			sess.CacheProfile(&cached)
			return &cached, nil
		}
	}

	dbCtx, cancel := s.storageCtx(ctx)
	defer cancel()
	profile, err := s.profiles.Get(dbCtx, username)
	if err != nil {
		return nil, s.storageErr("get profile", err)
	}

	if profile == nil {
		name := ""
		user, err := s.users.FindByUsername(dbCtx, username)
		if err != nil {
			return nil, s.storageErr("find user", err)
		}
		if user != nil {
			name = user.Name
		}

		profile = entity.DefaultProfile(username, name)
		if err := s.profiles.Insert(dbCtx, profile); err != nil {
			return nil, s.storageErr("create profile", err)
		}
		if s.logger != nil {
			s.logger.WithField("username", username).Info("profile created")
		}
	}

	s.cacheProfile(ctx, profile)
	sess.CacheProfile(profile)
	return profile, nil
}

// UpdateGeneral replaces the personal-data section.
func (s *ProfileService) UpdateGeneral(ctx context.Context, sess *Session, g entity.General) (*entity.Profile, error) {
	if g.Name == "" || g.Age <= 0 || g.Weight <= 0 || g.Height <= 0 || g.Gender == "" || g.ActivityLevel == "" {
		return nil, &ValidationError{Reason: "please fill in all of the data"}
	}
	return s.updateSection(ctx, sess, "general", func(p *entity.Profile) (bool, error) {
		dbCtx, cancel := s.storageCtx(ctx)
		defer cancel()
		ok, err := s.profiles.UpdateGeneral(dbCtx, sess.Username(), g)
		p.General = g
		return ok, err
	})
}

// UpdateGoals replaces the goals section; at least one goal is required.
func (s *ProfileService) UpdateGoals(ctx context.Context, sess *Session, goals []string) (*entity.Profile, error) {
	if len(goals) == 0 {
		return nil, &ValidationError{Reason: "please select at least one goal"}
	}
	return s.updateSection(ctx, sess, "goals", func(p *entity.Profile) (bool, error) {
		dbCtx, cancel := s.storageCtx(ctx)
		defer cancel()
		ok, err := s.profiles.UpdateGoals(dbCtx, sess.Username(), goals)
		p.Goals = goals
		return ok, err
	})
}

// UpdateNutrition replaces the macro targets section.
func (s *ProfileService) UpdateNutrition(ctx context.Context, sess *Session, n entity.Nutrition) (*entity.Profile, error) {
	if n.Calories < 0 || n.Protein < 0 || n.Fat < 0 || n.Carbs < 0 {
		return nil, &ValidationError{Reason: "macro values cannot be negative"}
	}
	return s.updateSection(ctx, sess, "nutrition", func(p *entity.Profile) (bool, error) {
		dbCtx, cancel := s.storageCtx(ctx)
		defer cancel()
		ok, err := s.profiles.UpdateNutrition(dbCtx, sess.Username(), n)
		p.Nutrition = n
		return ok, err
	})
}

func (s *ProfileService) updateSection(ctx context.Context, sess *Session, section string, apply func(*entity.Profile) (bool, error)) (*entity.Profile, error) {
	profile, err := s.GetOrCreate(ctx, sess)
	if err != nil {
		return nil, err
	}

	ok, err := apply(profile)
	if err != nil {
		return nil, s.storageErr("update "+section, err)
	}
	if !ok {
		return nil, s.storageErr("update "+section, fmt.Errorf("no profile row for %q", sess.Username()))
	}

	profile.UpdatedAt = time.Now()
	s.cacheProfile(ctx, profile)
	sess.CacheProfile(profile)
	return profile, nil
}

func (s *ProfileService) cacheProfile(ctx context.Context, p *entity.Profile) {
	if s.rdb == nil {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.rdb, profileCacheKey(p.Username), p, profileCacheTTL); err != nil && s.logger != nil {
		s.logger.WithError(err).WithField("username", p.Username).Warn("profile cache write failed")
	}
}

// InvalidateCache drops the Redis copy of the user's profile. Called on
// logout together with discarding the session caches.
func (s *ProfileService) InvalidateCache(ctx context.Context, username string) {
	if s.rdb == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.rdb, profileCacheKey(username)); err != nil && s.logger != nil {
		s.logger.WithError(err).WithField("username", username).Warn("profile cache invalidate failed")
	}
}

// ListNotes returns the user's notes, via the session cache when warm.
func (s *ProfileService) ListNotes(ctx context.Context, sess *Session) ([]entity.Note, error) {
	if notes, ok := sess.CachedNotes(); ok {
		return notes, nil
	}

	dbCtx, cancel := s.storageCtx(ctx)
	defer cancel()
	notes, err := s.notes.ListByUsername(dbCtx, sess.Username())
	if err != nil {
		return nil, s.storageErr("list notes", err)
	}

	sess.CacheNotes(notes)
	return notes, nil
}

// AddNote stores a new note and returns it.
func (s *ProfileService) AddNote(ctx context.Context, sess *Session, text string) (*entity.Note, error) {
	if text == "" {
		return nil, &ValidationError{Reason: "note text cannot be empty"}
	}

	note := &entity.Note{
		ID:       uuid.NewString(),
		Username: sess.Username(),
		Text:     text,
	}

	dbCtx, cancel := s.storageCtx(ctx)
	defer cancel()
	if err := s.notes.Insert(dbCtx, note); err != nil {
		return nil, s.storageErr("add note", err)
	}

	if notes, ok := sess.CachedNotes(); ok {
		sess.CacheNotes(append(notes, *note))
	}
	return note, nil
}

// DeleteNote removes a note owned by the session's user.
func (s *ProfileService) DeleteNote(ctx context.Context, sess *Session, id string) error {
	dbCtx, cancel := s.storageCtx(ctx)
	defer cancel()
	ok, err := s.notes.Delete(dbCtx, sess.Username(), id)
	if err != nil {
		return s.storageErr("delete note", err)
	}
	if !ok {
		return &ValidationError{Reason: "note not found"}
	}

	if notes, cached := sess.CachedNotes(); cached {
		kept := notes[:0]
		for _, n := range notes {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		sess.CacheNotes(kept)
	}
	return nil
}
