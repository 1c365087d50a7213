// Package consistency keeps denormalized counters, notifications and cached
// author images in line with the records they are derived from.
package consistency

import (
	"context"
	"fmt"

	"screams/internal/observability"
	"screams/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Step is one fallible stage of a Pipeline.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pipeline runs its steps in order and stops at the first failure. The
// returned error names the failing step and wraps its cause, so the error
// code of the cause is still visible to callers.
type Pipeline struct {
	name  string
	steps []Step
}

func NewPipeline(name string) *Pipeline {
	return &Pipeline{name: name}
}

// Then appends a step and returns the pipeline for chaining.
func (p *Pipeline) Then(name string, run func(ctx context.Context) error) *Pipeline {
	p.steps = append(p.steps, Step{Name: name, Run: run})
	return p
}

// Atomic appends a step that runs steps inside one transaction, so either all
// of their writes commit or none do.
func (p *Pipeline) Atomic(name string, tx repository.Transactor, steps ...Step) *Pipeline {
	return p.Then(name, func(ctx context.Context) error {
		return tx.WithinTx(ctx, func(ctx context.Context) error {
			for _, step := range steps {
				if err := step.Run(ctx); err != nil {
					return fmt.Errorf("%s: %w", step.Name, err)
				}
			}
			return nil
		})
	})
}

func (p *Pipeline) Run(ctx context.Context) error {
	span, ctx := observability.NewSpan(ctx, "pipeline."+p.name)
	defer span.End()

	for _, step := range p.steps {
		if err := step.Run(ctx); err != nil {
			span.AddAttributes(attribute.String("pipeline.failed_step", step.Name))
			span.SetError(err)
			return fmt.Errorf("%s: %s: %w", p.name, step.Name, err)
		}
	}
	return nil
}
