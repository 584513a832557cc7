package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"inkpost/internal/cache"
	apperrors "inkpost/internal/errors"
	"inkpost/internal/model"
	"inkpost/internal/repository"
)

// ProfileService exposes cached read access to identity profiles.
type ProfileService interface {
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	GetProfiles(ctx context.Context, ids []string) ([]model.Profile, error)
	SyncProfile(ctx context.Context, profile *model.Profile) (*model.Profile, error)
}

type profileService struct {
	repo  repository.ProfileRepository
	cache *cache.Client
	ttl   time.Duration
}

// NewProfileService builds a ProfileService with repository and cache.
func NewProfileService(repo repository.ProfileRepository, cache *cache.Client, ttl time.Duration) ProfileService {
	return &profileService{repo: repo, cache: cache, ttl: ttl}
}

func (s *profileService) cacheKey(id string) string {
	return fmt.Sprintf("profile:%s", id)
}

func (s *profileService) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	var cached model.Profile
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}

	s.store(ctx, profile)
	return profile, nil
}

// GetProfiles resolves ids in one round trip per tier: a multi-get against
// the cache, then a single IN query for the misses. Unknown ids are absent
// from the result.
func (s *profileService) GetProfiles(ctx context.Context, ids []string) ([]model.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.cacheKey(id)
	}
	cached, _ := s.cache.GetMany(ctx, keys)

	profiles := make([]model.Profile, 0, len(ids))
	var misses []string
	for i, data := range cached {
		var p model.Profile
		if data != nil && json.Unmarshal(data, &p) == nil {
			profiles = append(profiles, p)
			continue
		}
		misses = append(misses, ids[i])
	}
	if len(misses) == 0 {
		return profiles, nil
	}

	fetched, err := s.repo.FindByIDs(ctx, misses)
	if err != nil {
		return nil, err
	}
	for i := range fetched {
		s.store(ctx, &fetched[i])
	}
	return append(profiles, fetched...), nil
}

// SyncProfile records a profile reported by the identity provider.
func (s *profileService) SyncProfile(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	profile.Name = strings.TrimSpace(profile.Name)
	if profile.ID == "" || profile.Name == "" {
		return nil, fmt.Errorf("%w: profile id and name are required", apperrors.ErrInvalidInput)
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(profile.ID))
	return profile, nil
}

func (s *profileService) store(ctx context.Context, profile *model.Profile) {
	s.cache.SetJSON(ctx, s.cacheKey(profile.ID), profile, s.ttl)
}
