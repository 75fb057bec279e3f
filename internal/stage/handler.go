package stage

import (
	"context"

	"docverify/internal/queue"
)

// Handler describes the contract the workflow manager needs from each stage.
type Handler interface {
	Prepare(context.Context, *queue.Person) error
	Execute(context.Context, *queue.Person) error
	HealthCheck(context.Context) Health
}
