// Package completer routes editor requests to the session's analysis server:
// completions, named subcommands and parse notifications.
package completer

import (
	"context"
	"sort"
	"strings"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/sharpd/src/sharpd/controller/diagnostics"
	"github.com/uber/sharpd/src/sharpd/controller/server"
	"github.com/uber/sharpd/src/sharpd/entity"
	"github.com/uber/sharpd/src/sharpd/gateway/omnisharp"
	"github.com/uber/sharpd/src/sharpd/internal/errors"
	"github.com/uber/sharpd/src/sharpd/mapper"
	"github.com/uber/sharpd/src/sharpd/repository/session"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _nameKey = "completer"

// _minLinesInFileToParse is the smallest buffer worth a parse round trip;
// shorter buffers are rejected before reaching the analysis server.
const _minLinesInFileToParse = 5

// Subcommand names accepted by Dispatch.
const (
	CmdStartServer                       = "StartServer"
	CmdStopServer                        = "StopServer"
	CmdRestartServer                     = "RestartServer"
	CmdReloadSolution                    = "ReloadSolution"
	CmdServerRunning                     = "ServerRunning"
	CmdServerReady                       = "ServerReady"
	CmdGoToDefinition                    = "GoToDefinition"
	CmdGoToDeclaration                   = "GoToDeclaration"
	CmdGoTo                              = "GoTo"
	CmdGoToDefinitionElseDeclaration     = "GoToDefinitionElseDeclaration"
	CmdGoToImplementation                = "GoToImplementation"
	CmdGoToImplementationElseDeclaration = "GoToImplementationElseDeclaration"
)

// Request carries the editor state a completer operation acts on. Line and
// Column are 1-based.
type Request struct {
	FilePath      string
	Line          int
	Column        int
	Contents      string
	ForceSemantic bool
}

// handlerFunc executes one named subcommand. Results and errors propagate to
// the caller unchanged.
type handlerFunc func(ctx context.Context, req *Request) (interface{}, error)

// Controller serves completions and named subcommands for a session.
type Controller interface {
	// Completions returns candidates at the request position.
	Completions(ctx context.Context, req *Request) ([]entity.Candidate, error)
	// Dispatch runs the named subcommand. An unknown name returns an
	// UnknownCommandError without invoking any handler.
	Dispatch(ctx context.Context, command string, req *Request) (interface{}, error)
	// Commands lists the accepted subcommand names, sorted.
	Commands() []string
	// HandleFileReadyToParse fetches the buffer's syntax errors and replaces
	// the file's entries in the diagnostic index.
	HandleFileReadyToParse(ctx context.Context, req *Request) ([]entity.Diagnostic, error)
}

// Params are inbound parameters to initialize the controller.
type Params struct {
	fx.In

	Sessions    session.Repository
	Gateway     omnisharp.Gateway
	Server      server.Controller
	Diagnostics diagnostics.Controller
	Logger      *zap.SugaredLogger
	Stats       tally.Scope
}

type controller struct {
	sessions    session.Repository
	gateway     omnisharp.Gateway
	server      server.Controller
	diagnostics diagnostics.Controller
	logger      *zap.SugaredLogger
	stats       tally.Scope

	handlers map[string]handlerFunc
	commands []string
}

// New creates a new controller for completion and subcommand requests.
func New(p Params) Controller {
	c := &controller{
		sessions:    p.Sessions,
		gateway:     p.Gateway,
		server:      p.Server,
		diagnostics: p.Diagnostics,
		logger:      p.Logger.With("controller", _nameKey),
		stats:       p.Stats.SubScope(_nameKey),
	}

	c.handlers = map[string]handlerFunc{
		CmdStartServer: func(ctx context.Context, req *Request) (interface{}, error) {
			_, err := c.server.Start(ctx, req.FilePath)
			return nil, err
		},
		CmdStopServer: func(ctx context.Context, req *Request) (interface{}, error) {
			return nil, c.server.Stop(ctx)
		},
		CmdRestartServer: func(ctx context.Context, req *Request) (interface{}, error) {
			_, err := c.server.Restart(ctx, req.FilePath)
			return nil, err
		},
		CmdReloadSolution: func(ctx context.Context, req *Request) (interface{}, error) {
			return nil, c.server.ReloadSolution(ctx)
		},
		CmdServerRunning: func(ctx context.Context, req *Request) (interface{}, error) {
			return c.server.IsAlive(ctx)
		},
		CmdServerReady: func(ctx context.Context, req *Request) (interface{}, error) {
			return c.server.IsReady(ctx, true)
		},
		CmdGoToDefinition:                    c.goToDefinition,
		CmdGoToDeclaration:                   c.goToDefinition,
		CmdGoTo:                              c.goToImplementation(true),
		CmdGoToDefinitionElseDeclaration:     c.goToDefinition,
		CmdGoToImplementation:                c.goToImplementation(false),
		CmdGoToImplementationElseDeclaration: c.goToImplementation(true),
	}

	c.commands = make([]string, 0, len(c.handlers))
	for name := range c.handlers {
		c.commands = append(c.commands, name)
	}
	sort.Strings(c.commands)

	return c
}

func (c *controller) Completions(ctx context.Context, req *Request) ([]entity.Candidate, error) {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	entries, err := c.gateway.Autocomplete(ctx, s, &omnisharp.CompletionRequest{
		PositionRequest:         position(req),
		ForceSemanticCompletion: req.ForceSemantic,
	})
	if err != nil {
		return nil, err
	}

	c.stats.Counter("completions").Inc(1)
	return mapper.CompletionEntriesToCandidates(entries), nil
}

func (c *controller) Dispatch(ctx context.Context, command string, req *Request) (interface{}, error) {
	handler, ok := c.handlers[command]
	if !ok {
		c.stats.Counter("dispatch_miss").Inc(1)
		return nil, &errors.UnknownCommandError{Name: command, Valid: c.Commands()}
	}

	c.stats.Tagged(map[string]string{"command": command}).Counter("dispatch").Inc(1)
	return handler(ctx, req)
}

func (c *controller) Commands() []string {
	out := make([]string, len(c.commands))
	copy(out, c.commands)
	return out
}

func (c *controller) HandleFileReadyToParse(ctx context.Context, req *Request) ([]entity.Diagnostic, error) {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	if strings.Count(req.Contents, "\n") < _minLinesInFileToParse {
		return nil, &errors.FileTooShortError{FilePath: req.FilePath}
	}

	fixes, err := c.gateway.SyntaxErrors(ctx, s, &omnisharp.PositionRequest{
		Buffer:   req.Contents,
		FileName: req.FilePath,
	})
	if err != nil {
		return nil, err
	}

	found := mapper.QuickFixesToDiagnostics(fixes)
	if err := c.diagnostics.Replace(ctx, req.FilePath, found); err != nil {
		return nil, err
	}
	return found, nil
}

func (c *controller) goToDefinition(ctx context.Context, req *Request) (interface{}, error) {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	fix, err := c.gateway.GoToDefinition(ctx, s, positionPtr(req))
	if err != nil {
		return nil, err
	}
	if fix == nil || !fix.Valid() {
		return nil, errors.New("can't jump to definition")
	}
	return mapper.QuickFixToLocation(*fix), nil
}

// goToImplementation returns a handler resolving implementations. With
// fallback, an empty implementation set degrades to a definition lookup.
func (c *controller) goToImplementation(fallback bool) handlerFunc {
	return func(ctx context.Context, req *Request) (interface{}, error) {
		s, err := c.sessions.GetFromContext(ctx)
		if err != nil {
			return nil, err
		}
		if err := validate(req); err != nil {
			return nil, err
		}

		fixes, err := c.gateway.FindImplementations(ctx, s, positionPtr(req))
		if err != nil {
			return nil, err
		}

		switch len(fixes) {
		case 0:
			if fallback {
				return c.goToDefinition(ctx, req)
			}
			return nil, errors.New("no implementations found")
		case 1:
			return mapper.QuickFixToLocation(fixes[0]), nil
		default:
			return mapper.QuickFixesToLocations(fixes), nil
		}
	}
}

func validate(req *Request) error {
	if req == nil || req.FilePath == "" {
		return &errors.InvalidFileError{Reason: "missing file path"}
	}
	return nil
}

func position(req *Request) omnisharp.PositionRequest {
	return omnisharp.PositionRequest{
		Line:     req.Line,
		Column:   req.Column,
		Buffer:   req.Contents,
		FileName: req.FilePath,
	}
}

func positionPtr(req *Request) *omnisharp.PositionRequest {
	p := position(req)
	return &p
}
