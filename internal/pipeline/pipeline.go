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

// Package pipeline assembles the analytic dataflow graph: the fixed set
// of queues and operator stages deriving the five e-commerce summaries
// from the log stream, plus the merge tasks folding stage output into
// the per-analytic result slots.
package pipeline

import (
	"log/slog"

	"github.com/cardinalhq/shoprunner/frame"
	"github.com/cardinalhq/shoprunner/internal/handler"
	"github.com/cardinalhq/shoprunner/internal/queue"
	"github.com/cardinalhq/shoprunner/internal/sink"
	"github.com/cardinalhq/shoprunner/internal/workerpool"
)

// Analytic names double as output file stems.
const (
	CountView   = "CountView"
	CountBuy    = "CountBuy"
	ProdView    = "ProdView"
	BuyRanking  = "BuyRanking"
	ViewRanking = "ViewRanking"
)

// MinuteAnalytics flush on the shorter cadence, HourAnalytics on the longer.
var (
	MinuteAnalytics = []string{CountView, CountBuy, ProdView}
	HourAnalytics   = []string{BuyRanking, ViewRanking}
)

// Config parameterizes graph assembly.
type Config struct {
	// LogQ is the stream of ingested log tables.
	LogQ *queue.Queue[*frame.Table]
	// RefQ is the stream of ingested reference tables.
	RefQ *queue.Queue[*frame.Table]
	// ReqQ is the stream of request-triggered tables.
	ReqQ *queue.Queue[*frame.Table]
	// QueueCapacity bounds every internal queue.
	QueueCapacity int
}

// Pipeline is the assembled graph. A Pump submits one drain pass per
// stage and merge task to the worker pool; each handler terminates when
// its input queue is empty at the moment it checks, so a fixed pool
// never starves, and repeated pumps walk every batch down the graph.
type Pipeline struct {
	pool   *workerpool.Pool
	stages []*handler.Stage
	slots  map[string]*sink.Slot
	refs   *RefStore

	terminal map[string]*queue.Queue[*frame.Table]
	refQ     *queue.Queue[*frame.Table]
	reqQ     *queue.Queue[*frame.Table]

	// queues lists every queue in the graph by name for the depth gauge.
	queues []namedQueue
}

type namedQueue struct {
	name string
	q    *queue.Queue[*frame.Table]
}

// Build declares the dataflow graph:
//
//	L → Copy → (L₁, L₂)
//	L₁ → Filter(type=User) → Filter(extra_1=ZOOM) → (V, V')
//	      V  → CountLines → CountView
//	      V' → ValueCount(extra_2) → (ProdView, P')
//	      P' → Sort(Count desc) → ViewRanking
//	L₂ → Filter(type=Audit) → Filter(extra_1=BUY) → (B, B')
//	      B  → CountLines → CountBuy
//	      B' → ValueCount(extra_2) → Sort(Count asc) → BuyRanking
func Build(cfg Config, pool *workerpool.Pool) *Pipeline {
	capacity := cfg.QueueCapacity
	if capacity <= 0 {
		capacity = 100
	}

	p := &Pipeline{
		pool:     pool,
		slots:    make(map[string]*sink.Slot),
		terminal: make(map[string]*queue.Queue[*frame.Table]),
		refs:     NewRefStore(),
		refQ:     cfg.RefQ,
		reqQ:     cfg.ReqQ,
	}
	q := func(name string) *queue.Queue[*frame.Table] {
		nq := queue.New[*frame.Table](capacity)
		p.queues = append(p.queues, namedQueue{name: name, q: nq})
		return nq
	}
	for _, src := range []namedQueue{
		{name: "log", q: cfg.LogQ},
		{name: "reference", q: cfg.RefQ},
		{name: "request", q: cfg.ReqQ},
	} {
		if src.q != nil {
			p.queues = append(p.queues, src)
		}
	}
	for _, name := range append(append([]string{}, MinuteAnalytics...), HourAnalytics...) {
		p.slots[name] = sink.NewSlot()
		p.terminal[name] = q(name)
	}

	l1, l2 := q("log.copy1"), q("log.copy2")
	p.addStage(handler.CopyOp{}, cfg.LogQ, l1, l2)

	// Views branch.
	user := q("user")
	p.addStage(handler.FilterOp{Column: "type", Probe: frame.String("User"), Cmp: frame.Equal}, l1, user)
	view, view1 := q("view"), q("view.counts")
	p.addStage(handler.FilterOp{Column: "extra_1", Probe: frame.String("ZOOM"), Cmp: frame.Equal}, user, view, view1)
	p.addStage(handler.CountLinesOp{}, view, p.terminal[CountView])
	prodView1 := q("view.ranking")
	p.addStage(handler.ValueCountOp{Column: "extra_2"}, view1, p.terminal[ProdView], prodView1)
	p.addStage(handler.SortOp{Column: "Count", Ascending: false}, prodView1, p.terminal[ViewRanking])

	// Purchases branch.
	audit := q("audit")
	p.addStage(handler.FilterOp{Column: "type", Probe: frame.String("Audit"), Cmp: frame.Equal}, l2, audit)
	buy, buy1 := q("buy"), q("buy.counts")
	p.addStage(handler.FilterOp{Column: "extra_1", Probe: frame.String("BUY"), Cmp: frame.Equal}, audit, buy, buy1)
	p.addStage(handler.CountLinesOp{}, buy, p.terminal[CountBuy])
	prodBuy := q("buy.ranking")
	p.addStage(handler.ValueCountOp{Column: "extra_2"}, buy1, prodBuy)
	p.addStage(handler.SortOp{Column: "Count", Ascending: true}, prodBuy, p.terminal[BuyRanking])

	registerQueueDepthGauge(p)
	return p
}

func (p *Pipeline) addStage(op handler.Op, in *queue.Queue[*frame.Table], outs ...*queue.Queue[*frame.Table]) {
	p.stages = append(p.stages, handler.NewStage(op, in, outs...))
}

// Slot returns the result slot for the named analytic.
func (p *Pipeline) Slot(name string) *sink.Slot { return p.slots[name] }

// Refs returns the reference table store.
func (p *Pipeline) Refs() *RefStore { return p.refs }

// Pump submits one drain pass for every stage, the per-analytic merge
// tasks, and the reference consumer. Batches mid-graph when a pass ends
// are picked up by the next pump; after the last batch has arrived, one
// pump per graph depth quiesces the pipeline.
func (p *Pipeline) Pump() error {
	for _, s := range p.stages {
		if err := p.pool.Submit(s.Drain); err != nil {
			return err
		}
	}
	for name, tq := range p.terminal {
		analytic, in, slot := name, tq, p.slots[name]
		if err := p.pool.Submit(func() { mergeDrain(analytic, in, slot) }); err != nil {
			return err
		}
	}
	if p.refQ != nil || p.reqQ != nil {
		if err := p.pool.Submit(func() {
			p.refs.Drain(p.refQ)
			p.refs.Drain(p.reqQ)
		}); err != nil {
			return err
		}
	}
	return nil
}

// DrainSync walks the graph once on the caller's goroutine, stages in
// topological order followed by the merge tasks and the reference
// consumer. With intake stopped, one pass quiesces the pipeline; used at
// shutdown after the pool has drained.
func (p *Pipeline) DrainSync() {
	for _, s := range p.stages {
		s.Drain()
	}
	for name, tq := range p.terminal {
		mergeDrain(name, tq, p.slots[name])
	}
	p.refs.Drain(p.refQ)
	p.refs.Drain(p.reqQ)
}

// OnTimeTick pumps the graph; registered after the ingest monitor so
// freshly dropped files flow in the same tick.
func (p *Pipeline) OnTimeTick() {
	if err := p.Pump(); err != nil {
		slog.Warn("Failed to pump pipeline", slog.Any("error", err))
	}
}

// OnRequestTick pumps the graph for request-triggered ingests.
func (p *Pipeline) OnRequestTick() {
	if err := p.Pump(); err != nil {
		slog.Warn("Failed to pump pipeline", slog.Any("error", err))
	}
}

// mergeDrain folds every queued table into the analytic's result slot
// until the terminal queue is empty at the moment of the check.
func mergeDrain(analytic string, in *queue.Queue[*frame.Table], slot *sink.Slot) {
	for {
		t, ok := in.TryPop()
		if !ok {
			return
		}
		if err := slot.Fold(t); err != nil {
			slog.Warn("Failed to fold result, dropping",
				slog.String("analytic", analytic),
				slog.Any("error", err))
			recordFoldDropped(analytic)
			continue
		}
		recordFold(analytic, t.TimestampMs())
	}
}
