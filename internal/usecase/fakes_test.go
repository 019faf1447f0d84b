package usecase

import (
	"context"
	"sync"

	"macromanager/internal/domain"
)

// fakeDB is an in-memory ports.FoodDatabase that records every call.
type fakeDB struct {
	mu sync.Mutex

	results   map[string][]domain.FoodCandidate
	panels    map[int64][]domain.NutrientEntry
	searchErr error
	fetchErr  error

	searches []string
	fetches  [][]int64
	keys     []string
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		results: map[string][]domain.FoodCandidate{},
		panels:  map[int64][]domain.NutrientEntry{},
	}
}

func (f *fakeDB) SearchFood(_ context.Context, apiKey, name string) ([]domain.FoodCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, name)
	f.keys = append(f.keys, apiKey)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if res, ok := f.results[name]; ok {
		return res, nil
	}
	return []domain.FoodCandidate{}, nil
}

func (f *fakeDB) FetchPanels(_ context.Context, apiKey string, ids []int64) ([][]domain.NutrientEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, append([]int64(nil), ids...))
	f.keys = append(f.keys, apiKey)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([][]domain.NutrientEntry, len(ids))
	for i, id := range ids {
		out[i] = f.panels[id]
	}
	return out, nil
}

func (f *fakeDB) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches) + len(f.fetches)
}

type fakeQuota domain.Quota

func (q fakeQuota) Snapshot() domain.Quota { return domain.Quota(q) }
