package resource

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/lms-console/internal/domain"
	apperrors "github.com/spec-kit/lms-console/pkg/util"
)

// API is the slice of the upstream gateway a controller drives.
type API interface {
	ListCollection(ctx context.Context, path string) ([]map[string]any, error)
	CreateDocument(ctx context.Context, path string, doc map[string]any) error
	UpdateDocument(ctx context.Context, path string, doc map[string]any) error
	DeleteDocument(ctx context.Context, path string) error
}

// Notifier is the slice of the notification bus a controller publishes to.
type Notifier interface {
	Publish(kind domain.NotificationKind, title, message string, duration time.Duration) string
}

// Descriptor parameterizes one resource screen: name plus the endpoint set.
// Field lists live upstream; the console treats rows as schemaless documents.
type Descriptor struct {
	Name       string
	ListPath   string
	CreatePath string
	UpdatePath func(id string) string
	DeletePath func(id string) string
}

// Controller implements the list / create / edit / delete workflow shared by
// every resource screen. One instance per resource; a single working flag
// serializes mutations from the same screen, and list fetches are
// sequence-stamped so an older in-flight fetch never overwrites a newer one.
type Controller struct {
	desc   Descriptor
	api    API
	notify Notifier
	logger *zap.Logger

	mu      sync.Mutex
	working bool
	issued  uint64
	applied uint64
	rows    []domain.Row
}

// NewController builds a controller for the described resource.
func NewController(desc Descriptor, api API, notify Notifier, logger *zap.Logger) *Controller {
	if desc.UpdatePath == nil {
		desc.UpdatePath = func(id string) string { return desc.ListPath + "/" + id }
	}
	if desc.DeletePath == nil {
		desc.DeletePath = desc.UpdatePath
	}
	if desc.CreatePath == "" {
		desc.CreatePath = desc.ListPath
	}
	return &Controller{desc: desc, api: api, notify: notify, logger: logger}
}

// Name returns the resource name.
func (c *Controller) Name() string { return c.desc.Name }

// List re-fetches the collection and returns rows matching the free-text
// query. A fetch failure surfaces the error but leaves the previous snapshot
// in place for the next read.
func (c *Controller) List(ctx context.Context, query string) ([]domain.Row, error) {
	if err := c.refresh(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Row, 0, len(c.rows))
	for _, row := range c.rows {
		if row.Matches(query) {
			out = append(out, row)
		}
	}
	return out, nil
}

// Snapshot returns the currently cached rows without re-fetching.
func (c *Controller) Snapshot() []domain.Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Row, len(c.rows))
	copy(out, c.rows)
	return out
}

// Create POSTs a new document and re-fetches the full list.
func (c *Controller) Create(ctx context.Context, doc map[string]any) error {
	return c.mutate(ctx, "created", func() error {
		return c.api.CreateDocument(ctx, c.desc.CreatePath, doc)
	})
}

// Update PUTs an existing document and re-fetches the full list.
func (c *Controller) Update(ctx context.Context, id string, doc map[string]any) error {
	return c.mutate(ctx, "updated", func() error {
		return c.api.UpdateDocument(ctx, c.desc.UpdatePath(id), doc)
	})
}

// Delete removes a document and re-fetches the full list. Deleting a row
// that no longer exists surfaces an error notification; the list stays
// consistent because the re-fetch reflects server state either way.
func (c *Controller) Delete(ctx context.Context, id string) error {
	return c.mutate(ctx, "deleted", func() error {
		return c.api.DeleteDocument(ctx, c.desc.DeletePath(id))
	})
}

// mutate serializes a mutation behind the working flag, notifies the outcome
// and re-fetches the list after the operation settles. No optimistic merge:
// the displayed list always reflects server state.
func (c *Controller) mutate(ctx context.Context, verb string, op func() error) error {
	c.mu.Lock()
	if c.working {
		c.mu.Unlock()
		return apperrors.NewBusy(c.desc.Name)
	}
	c.working = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.working = false
		c.mu.Unlock()
	}()

	if err := op(); err != nil {
		c.logger.Warn("mutation failed",
			zap.String("resource", c.desc.Name), zap.String("verb", verb), zap.Error(err))
		c.notify.Publish(domain.NotifyError, c.desc.Name,
			apperrors.ToDomainError(err).Message, -1)
		return err
	}

	c.notify.Publish(domain.NotifySuccess, c.desc.Name, c.desc.Name+" "+verb, -1)

	if err := c.refresh(ctx); err != nil {
		// The mutation succeeded; a failed re-fetch only degrades freshness.
		c.logger.Warn("post-mutation refresh failed",
			zap.String("resource", c.desc.Name), zap.Error(err))
	}
	return nil
}

// Working reports whether a mutation is in flight.
func (c *Controller) Working() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.working
}

func (c *Controller) refresh(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	stamp := c.issued
	c.mu.Unlock()

	docs, err := c.api.ListCollection(ctx, c.desc.ListPath)
	if err != nil {
		return err
	}

	rows := make([]domain.Row, len(docs))
	for i, doc := range docs {
		rows[i] = domain.Row(doc)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if stamp < c.applied {
		// A newer fetch already landed; discard this stale snapshot.
		return nil
	}
	c.applied = stamp
	c.rows = rows
	return nil
}
