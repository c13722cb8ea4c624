package pathing

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"creepwork/internal/app/ports"
	"creepwork/internal/domain/world"
)

const DefaultCacheSize = 4096

type routeKey struct {
	tick     int64
	from, to world.Position
}

type routeValue struct {
	length int
	ok     bool
}

// Ranker answers path-length questions for the current tick. Results are
// cached per tick since positions only change between ticks.
type Ranker struct {
	world ports.World
	cache *lru.Cache
}

func NewRanker(w ports.World, size int) (*Ranker, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("path cache: %w", err)
	}
	return &Ranker{world: w, cache: cache}, nil
}

func (r *Ranker) Length(from, to world.Position) (int, bool) {
	key := routeKey{tick: r.world.Time(), from: from, to: to}
	if v, ok := r.cache.Get(key); ok {
		rv := v.(routeValue)
		return rv.length, rv.ok
	}
	length, ok := r.world.PathLength(from, to)
	r.cache.Add(key, routeValue{length: length, ok: ok})
	return length, ok
}

// Nearest returns the candidate with the shortest path from origin.
// Unreachable candidates are skipped and ties keep the earlier candidate.
func Nearest[T any](r *Ranker, origin world.Position, candidates []T, pos func(T) world.Position) (T, bool) {
	var (
		best     T
		bestLen  int
		hasFound bool
	)
	for _, c := range candidates {
		length, ok := r.Length(origin, pos(c))
		if !ok {
			continue
		}
		if !hasFound || length < bestLen {
			best, bestLen, hasFound = c, length, true
		}
	}
	return best, hasFound
}
