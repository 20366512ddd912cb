// Package bootstrap prepares a backend before the server accepts traffic.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/nikolayk812/nicoshop/internal/bootstrap/steps"
)

type Pipeline struct {
	steps   []steps.Step
	dataCtx steps.DataContext
}

func NewPipeline(pSteps ...steps.Step) (Pipeline, error) {
	var p Pipeline

	if len(pSteps) == 0 {
		return p, fmt.Errorf("no steps")
	}

	for idx, step := range pSteps {
		if step == nil {
			return p, fmt.Errorf("step[%d] is nil", idx)
		}
	}

	return Pipeline{
		steps:   pSteps,
		dataCtx: make(steps.DataContext),
	}, nil
}

// Run executes the steps in order and stops at the first failure.
// The returned DataContext holds whatever the steps recorded.
func (p Pipeline) Run(ctx context.Context) (steps.DataContext, error) {
	for idx, step := range p.steps {
		if err := step.Run(ctx, p.dataCtx); err != nil {
			return p.dataCtx, fmt.Errorf("step.Run[%d][%s]: %w", idx, step.Name(), err)
		}
	}

	return p.dataCtx, nil
}
