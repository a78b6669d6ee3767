// Package cleansing provides the text cleansing pipeline run ahead of extraction.
package cleansing

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.Cleanser = (*Pipeline)(nil)

// Pipeline chains multiple CleanseSteps and runs them in order.
// It implements the Cleanser interface.
type Pipeline struct {
	steps []driven.CleanseStep
}

// NewPipeline creates a new cleansing pipeline with the given steps.
// Steps are executed in the order provided.
func NewPipeline(steps ...driven.CleanseStep) *Pipeline {
	return &Pipeline{
		steps: steps,
	}
}

// Cleanse runs a copy of the record through all steps in order.
// Each step sees the output of the previous one.
func (p *Pipeline) Cleanse(ctx context.Context, sourceFileID string, fields domain.Fields) (domain.Fields, []domain.Message, error) {
	if fields == nil {
		return nil, nil, fmt.Errorf("record %s has no fields", sourceFileID)
	}

	out := fields.Clone()
	var messages []domain.Message

	for _, step := range p.steps {
		msgs, err := step.Cleanse(ctx, sourceFileID, out)
		if err != nil {
			return nil, nil, fmt.Errorf("step %s: %w", step.Name(), err)
		}
		messages = append(messages, msgs...)
	}

	return out, messages, nil
}

// Add appends a step to the pipeline.
func (p *Pipeline) Add(step driven.CleanseStep) {
	p.steps = append(p.steps, step)
}

// Len returns the number of steps in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// Names returns the step names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}
