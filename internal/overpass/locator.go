package overpass

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"arogyakrishi/internal/geo"
	"arogyakrishi/internal/model"
)

const (
	DefaultRadiusM    = 5000
	DefaultMaxResults = 3

	defaultStoreName = "Pesticide Shop"
)

// ResultCache memoizes the parsed shops of a lookup by key. Implementations
// must be safe for concurrent use.
type ResultCache interface {
	Get(key string) ([]model.PesticideStore, bool)
	Set(key string, stores []model.PesticideStore)
}

// Locator finds and ranks nearby supply shops.
type Locator struct {
	querier Querier
	cache   ResultCache
}

// NewLocator creates a Locator. cache may be nil.
func NewLocator(querier Querier, cache ResultCache) *Locator {
	return &Locator{querier: querier, cache: cache}
}

// Nearby returns at most maxResults shops within radiusM meters of
// (lat, lng), nearest first. Non-positive arguments take the defaults.
func (l *Locator) Nearby(ctx context.Context, lat, lng float64, radiusM, maxResults int) ([]model.PesticideStore, error) {
	if radiusM <= 0 {
		radiusM = DefaultRadiusM
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	center := geo.Point{Lat: lat, Lng: lng}
	key := cacheKey(lat, lng, radiusM)
	if l.cache != nil {
		if stores, ok := l.cache.Get(key); ok {
			return nearestFrom(center, stores, maxResults), nil
		}
	}

	resp, err := l.querier.Query(ctx, BuildQuery(lat, lng, radiusM))
	if err != nil {
		return nil, err
	}

	stores := ParseStores(center, resp.Elements)
	if l.cache != nil {
		l.cache.Set(key, stores)
	}
	return nearestFrom(center, stores, maxResults), nil
}

// nearestFrom copies stores with distances measured from center and ranks
// them. The input is left untouched.
func nearestFrom(center geo.Point, stores []model.PesticideStore, maxResults int) []model.PesticideStore {
	out := make([]model.PesticideStore, len(stores))
	for i, s := range stores {
		d := geo.HaversineKM(center.Lat, center.Lng, s.Latitude, s.Longitude)
		s.DistanceKM = &d
		out[i] = s
	}
	return RankStores(out, maxResults)
}

// ParseStores normalizes raw elements into stores with their distance from
// center. Elements without usable coordinates are skipped.
func ParseStores(center geo.Point, elements []Element) []model.PesticideStore {
	stores := make([]model.PesticideStore, 0, len(elements))
	for _, el := range elements {
		lat, lon, ok := elementCoordinates(el)
		if !ok {
			continue
		}

		name := strings.TrimSpace(el.Tags["name"])
		if name == "" {
			name = defaultStoreName
		}

		distance := geo.HaversineKM(center.Lat, center.Lng, lat, lon)
		stores = append(stores, model.PesticideStore{
			Name:       name,
			Address:    address(el.Tags),
			Phone:      firstTag(el.Tags, "phone", "contact:phone"),
			Latitude:   lat,
			Longitude:  lon,
			DistanceKM: &distance,
		})
	}
	return stores
}

// RankStores sorts by ascending distance, unknown distances last, and keeps
// at most maxResults entries. The input slice is reordered in place.
func RankStores(stores []model.PesticideStore, maxResults int) []model.PesticideStore {
	sort.SliceStable(stores, func(i, j int) bool {
		return distanceKey(stores[i]) < distanceKey(stores[j])
	})
	if maxResults >= 0 && len(stores) > maxResults {
		stores = stores[:maxResults]
	}
	return stores
}

func distanceKey(s model.PesticideStore) float64 {
	if s.DistanceKM == nil || math.IsNaN(*s.DistanceKM) {
		return math.Inf(1)
	}
	return *s.DistanceKM
}

// elementCoordinates prefers the element's own point and falls back to the
// computed center of a way or relation.
func elementCoordinates(el Element) (float64, float64, bool) {
	if el.Lat != nil && el.Lon != nil {
		return *el.Lat, *el.Lon, true
	}
	if el.Center != nil && el.Center.Lat != nil && el.Center.Lon != nil {
		return *el.Center.Lat, *el.Center.Lon, true
	}
	return 0, 0, false
}

func address(tags map[string]string) *string {
	if full := firstTag(tags, "addr:full"); full != nil {
		return full
	}

	parts := make([]string, 0, 3)
	for _, k := range []string{"addr:housenumber", "addr:street", "addr:city"} {
		if v := strings.TrimSpace(tags[k]); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, ", ")
	return &joined
}

func firstTag(tags map[string]string, keys ...string) *string {
	for _, k := range keys {
		if v := strings.TrimSpace(tags[k]); v != "" {
			return &v
		}
	}
	return nil
}

func cacheKey(lat, lng float64, radiusM int) string {
	return fmt.Sprintf("%.3f:%.3f:%d", lat, lng, radiusM)
}
