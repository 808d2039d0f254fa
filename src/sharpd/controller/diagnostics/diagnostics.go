package diagnostics

import (
	"context"
	"sync"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/sharpd/src/sharpd/entity"
	"github.com/uber/sharpd/src/sharpd/internal/errors"
	"github.com/uber/sharpd/src/sharpd/repository/session"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _nameKey = "diagnostics"

// Controller maintains the queryable index of diagnostics reported for each
// session's files.
type Controller interface {
	// Replace clears any prior entries for filePath and rebuilds the
	// line-keyed index from the given sequence, preserving input order.
	Replace(ctx context.Context, filePath string, diagnostics []entity.Diagnostic) error
	// NearestTo returns the diagnostic on the exact line with the smallest
	// column distance to the given position. An earlier stored entry wins ties.
	NearestTo(ctx context.Context, filePath string, line, column int) (entity.Diagnostic, error)
	// DisposeSession drops all entries owned by the given session.
	DisposeSession(ctx context.Context, id uuid.UUID) error
}

// Params are inbound parameters to initialize the controller.
type Params struct {
	fx.In

	Sessions session.Repository
	Logger   *zap.SugaredLogger
	Stats    tally.Scope
	Config   config.Provider
}

// diagnosticStore maps session → file → line → ordered diagnostics.
type diagnosticStore map[uuid.UUID]map[string]map[int][]entity.Diagnostic

type controller struct {
	sessions      session.Repository
	logger        *zap.SugaredLogger
	diagnostics   diagnosticStore
	diagnosticsMu sync.Mutex
	stats         tally.Scope
}

// New creates a new controller for the diagnostic index.
func New(p Params) Controller {
	return &controller{
		sessions:    p.Sessions,
		logger:      p.Logger.With("controller", _nameKey),
		diagnostics: make(diagnosticStore),
		stats:       p.Stats.SubScope(_nameKey),
	}
}

func (c *controller) Replace(ctx context.Context, filePath string, diagnostics []entity.Diagnostic) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return err
	}

	lines := make(map[int][]entity.Diagnostic)
	for _, d := range diagnostics {
		lines[d.Location.Line] = append(lines[d.Location.Line], d)
	}

	c.diagnosticsMu.Lock()
	defer c.diagnosticsMu.Unlock()

	if _, ok := c.diagnostics[s.UUID]; !ok {
		c.diagnostics[s.UUID] = make(map[string]map[int][]entity.Diagnostic)
	}
	// Wholesale replacement, never an incremental merge.
	c.diagnostics[s.UUID][filePath] = lines

	c.stats.Counter("replaced").Inc(1)
	c.stats.Counter("reported").Inc(int64(len(diagnostics)))
	c.logger.Debugf("Stored %d diagnostics for %s", len(diagnostics), filePath)
	return nil
}

func (c *controller) NearestTo(ctx context.Context, filePath string, line, column int) (entity.Diagnostic, error) {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return entity.Diagnostic{}, err
	}

	c.diagnosticsMu.Lock()
	defer c.diagnosticsMu.Unlock()

	c.stats.Counter("queries").Inc(1)

	candidates := c.diagnostics[s.UUID][filePath][line]
	if len(candidates) == 0 {
		return entity.Diagnostic{}, &errors.NoDiagnosticError{FilePath: filePath, Line: line}
	}

	nearest := candidates[0]
	best := distance(column, nearest.Location.Column)
	for _, d := range candidates[1:] {
		// Strict-less only: an equally distant later entry never wins.
		if dist := distance(column, d.Location.Column); dist < best {
			nearest, best = d, dist
		}
	}
	return nearest, nil
}

func (c *controller) DisposeSession(ctx context.Context, id uuid.UUID) error {
	c.diagnosticsMu.Lock()
	defer c.diagnosticsMu.Unlock()
	delete(c.diagnostics, id)

	return nil
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
