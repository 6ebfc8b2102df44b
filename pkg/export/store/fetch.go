package store

import (
	"context"
	"sync"

	"complie-hq/tabula/pkg/export"
)

// FetchAll runs one List query per requested kind and joins the results.
// The queries are independent and commutative, so they are issued
// concurrently; FetchAll waits for all of them before returning.
//
// The fetch is all-or-nothing: if any kind's query fails, FetchAll
// returns a FetchError naming that kind and no partial data. When more
// than one query fails, the error for the earliest kind in canonical
// order is returned so the outcome does not depend on goroutine timing.
func FetchAll(ctx context.Context, s Store, kinds []export.Kind, q Query) (map[export.Kind][]export.RawRecord, error) {
	kinds = export.ExpandKinds(kinds)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[export.Kind][]export.RawRecord, len(kinds))
		errs    = make(map[export.Kind]error)
	)

	for _, kind := range kinds {
		wg.Add(1)
		go func(kind export.Kind) {
			defer wg.Done()
			records, err := s.List(ctx, kind, q)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[kind] = err
				return
			}
			results[kind] = records
		}(kind)
	}
	wg.Wait()

	for _, kind := range kinds {
		if err, ok := errs[kind]; ok {
			return nil, export.NewFetchError(kind, err)
		}
	}
	return results, nil
}
