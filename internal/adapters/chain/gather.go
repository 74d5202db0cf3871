package chain

import "context"

// gather runs fetch for every item in order and keeps only the successes.
// A failed item is reported to onErr and does not stop the fold. A cancelled
// context stops it.
func gather[T, R any](ctx context.Context, items []T, fetch func(context.Context, T) (R, error), onErr func(T, error)) []R {
	results := make([]R, 0, len(items))
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		r, err := fetch(ctx, item)
		if err != nil {
			if onErr != nil {
				onErr(item, err)
			}
			continue
		}
		results = append(results, r)
	}
	return results
}
