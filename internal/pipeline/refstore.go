// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package pipeline

import (
	"strings"
	"sync"

	"github.com/cardinalhq/shoprunner/frame"
	"github.com/cardinalhq/shoprunner/internal/queue"
)

// RefStore keeps the latest ingested copy of each reference table,
// keyed by schema, for join stages that capture a fixed right side.
type RefStore struct {
	mu     sync.RWMutex
	tables map[string]*frame.Table
}

// NewRefStore creates an empty store.
func NewRefStore() *RefStore {
	return &RefStore{tables: make(map[string]*frame.Table)}
}

// Drain consumes everything currently queued, newest table per schema
// winning. A nil queue is ignored.
func (r *RefStore) Drain(q *queue.Queue[*frame.Table]) {
	if q == nil {
		return
	}
	for {
		t, ok := q.TryPop()
		if !ok {
			return
		}
		r.put(t)
	}
}

func (r *RefStore) put(t *frame.Table) {
	key := schemaKey(t.ColumnNames())
	r.mu.Lock()
	r.tables[key] = t
	r.mu.Unlock()
}

// Lookup returns a deep copy of the latest table with exactly the given
// column order, or nil when none has been ingested.
func (r *RefStore) Lookup(names ...string) *frame.Table {
	r.mu.RLock()
	t := r.tables[schemaKey(names)]
	r.mu.RUnlock()
	if t == nil {
		return nil
	}
	return t.Copy(true)
}

// Len returns the number of distinct schemas held.
func (r *RefStore) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}

func schemaKey(names []string) string {
	return strings.Join(names, "\x1f")
}
