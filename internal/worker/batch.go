package worker

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/warisan/internal/allocate"
	"github.com/ppiankov/warisan/internal/model"
	"github.com/ppiankov/warisan/internal/validate"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Allocator computes a single allocation
type Allocator interface {
	Allocate(in model.Input) (model.Allocation, error)
}

// AllocationJob computes the allocation for one batch input
type AllocationJob struct {
	Index     int
	Input     model.Input
	Allocator Allocator
}

// Execute validates and allocates the job's input
func (j *AllocationJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &AllocationResult{Index: j.Index, Input: j.Input, Error: err}
	}
	if err := validate.Input(j.Input); err != nil {
		return &AllocationResult{Index: j.Index, Input: j.Input, Error: fmt.Errorf("%w: %w", allocate.ErrInvalidInput, err)}
	}

	result, err := j.Allocator.Allocate(j.Input)
	if err != nil {
		return &AllocationResult{Index: j.Index, Input: j.Input, Error: err}
	}
	return &AllocationResult{Index: j.Index, Input: j.Input, Allocation: result}
}

// AllocationResult is the outcome of one batch input
type AllocationResult struct {
	Index      int
	Input      model.Input
	Allocation model.Allocation
	Error      error
}

// GetError returns the error from the allocation
func (r *AllocationResult) GetError() error {
	return r.Error
}

// BatchProcessor computes many allocations concurrently
type BatchProcessor struct {
	allocator   Allocator
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(allocator Allocator, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		allocator:   allocator,
		concurrency: concurrency,
	}
}

// Process computes an allocation per input. Results are returned in input
// order, one per input; inputs the pool never ran carry the context error.
func (b *BatchProcessor) Process(ctx context.Context, inputs []model.Input) []*AllocationResult {
	if len(inputs) == 0 {
		return []*AllocationResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, in := range inputs {
		job := &AllocationJob{
			Index:     i,
			Input:     in,
			Allocator: b.allocator,
		}
		if !pool.Submit(job) {
			break
		}
	}

	results := make([]*AllocationResult, len(inputs))
	for _, r := range pool.Wait() {
		ar := r.(*AllocationResult)
		results[ar.Index] = ar
	}

	for i, r := range results {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results[i] = &AllocationResult{Index: i, Input: inputs[i], Error: err}
		}
	}

	return results
}

// ProcessFile reads inputs from a YAML file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AllocationResult, error) {
	inputs, err := ReadInputsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}

	return b.Process(ctx, inputs), nil
}

// batchInput is one entry of a batch file
type batchInput struct {
	Harta         estate `yaml:"harta"`
	Ayah          bool   `yaml:"ayah"`
	Ibu           bool   `yaml:"ibu"`
	Suami         bool   `yaml:"suami"`
	Istri         bool   `yaml:"istri"`
	AnakLaki      int    `yaml:"anak_laki"`
	AnakPerempuan int    `yaml:"anak_perempuan"`
}

// estate accepts plain numbers as well as grouped strings like "Rp 6.000.000"
type estate struct {
	value decimal.Decimal
	set   bool
}

func (e *estate) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: harta must be a scalar", node.Line)
	}
	v, err := validate.ParseEstate(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	e.value = v
	e.set = true
	return nil
}

// ReadInputsFromFile reads a YAML list of inputs
func ReadInputsFromFile(filePath string) ([]model.Input, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return ParseInputs(data)
}

// ParseInputs decodes a YAML list of inputs
func ParseInputs(data []byte) ([]model.Input, error) {
	var docs []batchInput
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	var errs []error
	inputs := make([]model.Input, 0, len(docs))
	for i, d := range docs {
		if !d.Harta.set {
			errs = append(errs, fmt.Errorf("entry %d: %w: harta is required", i+1, validate.ErrInvalidAmount))
			continue
		}
		inputs = append(inputs, model.Input{
			Estate:    d.Harta.value,
			Father:    d.Ayah,
			Mother:    d.Ibu,
			Husband:   d.Suami,
			Wife:      d.Istri,
			Sons:      d.AnakLaki,
			Daughters: d.AnakPerempuan,
		})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return inputs, nil
}
