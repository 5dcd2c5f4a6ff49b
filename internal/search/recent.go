package search

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/FileManager/core/internal/shared/paths"
)

// Recent returns the persisted recent queries, most recent first.
func (e *Engine) Recent() []string {
	if e.store == nil {
		return nil
	}
	var recent []string
	if _, err := e.store.Get(paths.KeyRecentSearches, &recent); err != nil {
		e.log.Warn("failed to load recent searches", zap.Error(err))
		return nil
	}
	return recent
}

// recordRecent pushes query to the front of the bounded recent list,
// deduplicating by exact string match.
func (e *Engine) recordRecent(query string) {
	if e.store == nil {
		return
	}
	err := e.store.Update(paths.KeyRecentSearches, func(raw json.RawMessage) (interface{}, error) {
		var recent []string
		if raw != nil {
			if err := json.Unmarshal(raw, &recent); err != nil {
				recent = nil // corrupt list, start over
			}
		}

		next := make([]string, 0, len(recent)+1)
		next = append(next, query)
		for _, q := range recent {
			if q != query {
				next = append(next, q)
			}
		}
		if len(next) > e.opts.RecentLimit {
			next = next[:e.opts.RecentLimit]
		}
		return next, nil
	})
	if err != nil {
		e.log.Warn("failed to record recent search", zap.Error(err))
	}
}
