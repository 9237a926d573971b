package cron

import (
	"context"
	"errors"
	"fmt"
)

// Job is one sweep step.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a plain function into a named Job.
type JobFunc struct {
	Label string
	Fn    func(ctx context.Context) error
}

func (j JobFunc) Name() string { return j.Label }

func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }

// Registry holds uniquely named jobs; a cycle runs them in registration order.
type Registry struct {
	order []Job
	names map[string]struct{}
}

func NewRegistry(jobs ...Job) (*Registry, error) {
	r := &Registry{names: make(map[string]struct{}, len(jobs))}
	var errs []error
	for _, job := range jobs {
		errs = append(errs, r.Register(job))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) Register(job Job) error {
	if job == nil {
		return errors.New("nil job")
	}
	name := job.Name()
	if name == "" {
		return errors.New("job name required")
	}
	if _, dup := r.names[name]; dup {
		return fmt.Errorf("job %q registered twice", name)
	}
	r.names[name] = struct{}{}
	r.order = append(r.order, job)
	return nil
}

func (r *Registry) Len() int { return len(r.order) }

// Jobs returns a snapshot of the registered jobs.
func (r *Registry) Jobs() []Job {
	return append([]Job(nil), r.order...)
}
