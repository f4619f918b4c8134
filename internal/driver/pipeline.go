package driver

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"warp/internal/ir"
)

// Pipeline runs an ordered list of passes over one module, reporting
// progress through an optional event channel.
type Pipeline struct {
	Registry *Registry

	// Events receives one Running and one Done/Failed event per pass when
	// non-nil. The channel is not closed by Run.
	Events chan<- Event
}

// Run executes the named passes in order. The first failing pass aborts
// the pipeline.
func (p *Pipeline) Run(g *ir.Graph, root ir.ModuleID, passes []string) error {
	log := Logger()
	total := len(passes)
	for i, name := range passes {
		pass, ok := p.Registry.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown pass %q", name)
		}
		p.emit(Event{Pass: name, Index: i, Total: total, Status: StatusRunning})
		start := time.Now()
		err := pass.Run(g, root)
		elapsed := time.Since(start)
		if err != nil {
			log.Error("pass failed",
				zap.String("pass", name),
				zap.Duration("elapsed", elapsed),
				zap.Error(err))
			p.emit(Event{Pass: name, Index: i, Total: total, Status: StatusFailed, Elapsed: elapsed, Err: err.Error()})
			return fmt.Errorf("pass %s: %w", name, err)
		}
		log.Info("pass done",
			zap.String("pass", name),
			zap.Duration("elapsed", elapsed))
		p.emit(Event{Pass: name, Index: i, Total: total, Status: StatusDone, Elapsed: elapsed})
	}
	return nil
}

func (p *Pipeline) emit(ev Event) {
	if p.Events != nil {
		p.Events <- ev
	}
}
