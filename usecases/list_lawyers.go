package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"justissimo-api/models"
	"justissimo-api/monitoring"
	"justissimo-api/utils"
	"justissimo-api/validators"
)

type ListLawyersRequest struct {
	Name  string
	City  string
	State string
	Rate  string
	Area  string
}

type LawyerSummary struct {
	ID              uint           `json:"id_lawyer"`
	Name            string         `json:"name"`
	Info            string         `json:"info"`
	Rating          int            `json:"rating"`
	Address         *LawyerAddress `json:"address"`
	ReviewCount     int64          `json:"review_count"`
	ProfilePhotoURL string         `json:"profile_photo_url"`
}

type LawyerAddress struct {
	Street   string `json:"street"`
	Number   string `json:"number"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
}

// LawyerCache is satisfied by utils.RedisClient.
type LawyerCache interface {
	GetFromCache(ctx context.Context, key string) (string, error)
	SetToCache(ctx context.Context, key string, value string, expiration time.Duration) error
}

type ListAllLawyersUseCase struct {
	repo  models.Repository
	cache LawyerCache
	ttl   time.Duration
	log   logrus.FieldLogger
}

// NewListAllLawyersUseCase builds the search use case; a nil cache or zero ttl disables caching.
func NewListAllLawyersUseCase(repo models.Repository, cache LawyerCache, ttl time.Duration, log logrus.FieldLogger) *ListAllLawyersUseCase {
	return &ListAllLawyersUseCase{repo: repo, cache: cache, ttl: ttl, log: log}
}

func (uc *ListAllLawyersUseCase) Execute(ctx context.Context, req ListLawyersRequest) ([]LawyerSummary, error) {
	filter, err := buildLawyerFilter(req)
	if err != nil {
		return nil, err
	}

	key := "lawyers:search:" + filter.Key()
	if cached, ok := uc.fromCache(ctx, key); ok {
		return cached, nil
	}

	lawyers, err := uc.repo.SearchLawyers(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]LawyerSummary, 0, len(lawyers))
	for _, l := range lawyers {
		out = append(out, toLawyerSummary(l))
	}

	uc.toCache(ctx, key, out)
	return out, nil
}

func buildLawyerFilter(req ListLawyersRequest) (*models.LawyerFilter, error) {
	filter := models.NewLawyerFilter()

	if !validators.IsEmpty(req.Name) {
		filter.NameContains(strings.TrimSpace(req.Name))
	}
	if !validators.IsEmpty(req.City) {
		filter.CityContains(strings.TrimSpace(req.City))
	}
	if !validators.IsEmpty(req.State) {
		filter.StateEquals(strings.TrimSpace(req.State))
	}

	rate, ok, err := validators.OptionalInt(req.Rate, "Nota invalida!")
	if err != nil {
		return nil, err
	}
	if ok {
		filter.RatingEquals(rate)
	}

	area, ok, err := validators.OptionalInt(req.Area, "Area de atuacao invalida!")
	if err != nil {
		return nil, err
	}
	if ok {
		filter.PracticeArea(area)
	}
	return filter, nil
}

func (uc *ListAllLawyersUseCase) fromCache(ctx context.Context, key string) ([]LawyerSummary, bool) {
	if uc.cache == nil || uc.ttl <= 0 {
		return nil, false
	}

	raw, err := uc.cache.GetFromCache(ctx, key)
	if err != nil {
		if !errors.Is(err, utils.ErrCacheMiss) {
			uc.log.WithError(err).Warn("Lawyer search cache read failed")
		}
		monitoring.LawyerCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	var out []LawyerSummary
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		uc.log.WithError(err).Warn("Discarding malformed lawyer search cache entry")
		monitoring.LawyerCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	monitoring.LawyerCacheLookups.WithLabelValues("hit").Inc()
	return out, true
}

func (uc *ListAllLawyersUseCase) toCache(ctx context.Context, key string, lawyers []LawyerSummary) {
	if uc.cache == nil || uc.ttl <= 0 {
		return
	}

	payload, err := json.Marshal(lawyers)
	if err != nil {
		uc.log.WithError(err).Warn("Failed to marshal lawyer search results")
		return
	}
	if err := uc.cache.SetToCache(ctx, key, string(payload), uc.ttl); err != nil {
		uc.log.WithError(err).WithField("key", key).Warn("Failed to cache lawyer search")
	}
}

func toLawyerSummary(l models.Lawyer) LawyerSummary {
	s := LawyerSummary{
		ID:          l.ID,
		Name:        l.Name,
		Info:        l.Info,
		Rating:      l.Rating,
		ReviewCount: l.ReviewCount,
	}
	if a := l.Address; a != nil {
		s.Address = &LawyerAddress{
			Street:   a.Street,
			Number:   a.Number,
			District: a.District,
			City:     a.City,
			State:    a.State,
			ZipCode:  a.ZipCode,
		}
	}
	if l.User != nil {
		s.ProfilePhotoURL = l.User.ProfilePhotoURL
	}
	return s
}
