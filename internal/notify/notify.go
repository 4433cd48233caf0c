// Package notify is the boundary to the external matcher service. The core
// depends only on the Port interface; the production implementation enqueues
// asynq tasks consumed by cmd/worker. All dispatch is fire-and-forget: a
// failure to enqueue is logged by the caller and never fails the primary
// operation.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/collabhub/engine/internal/models"
	"github.com/hibiken/asynq"
)

const (
	TaskProjectCreated = "notify:project_created"
	TaskProfileParsed  = "notify:profile_parsed"
)

// Port dispatches entity snapshots to the matcher service.
type Port interface {
	NotifyProject(ctx context.Context, p *models.Project) error
	NotifyProfile(ctx context.Context, p *models.Profile) error
}

// Enqueuer is the subset of asynq.Client used by the publisher.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type publisher struct {
	client Enqueuer
}

// NewPublisher returns a Port that enqueues matcher notifications.
func NewPublisher(client Enqueuer) Port {
	return &publisher{client: client}
}

func (p *publisher) NotifyProject(ctx context.Context, proj *models.Project) error {
	return p.enqueue(ctx, TaskProjectCreated, proj)
}

func (p *publisher) NotifyProfile(ctx context.Context, prof *models.Profile) error {
	return p.enqueue(ctx, TaskProfileParsed, prof)
}

func (p *publisher) enqueue(ctx context.Context, typ string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	_, err = p.client.EnqueueContext(ctx, asynq.NewTask(typ, payload), asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", typ, err)
	}
	return nil
}

// Noop is a Port that does nothing. Used in tests and when no matcher
// service is configured.
type Noop struct{}

func (Noop) NotifyProject(ctx context.Context, p *models.Project) error { return nil }
func (Noop) NotifyProfile(ctx context.Context, p *models.Profile) error { return nil }
