package completer

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/sharpd/src/sharpd/controller/diagnostics/diagnosticsmock"
	"github.com/uber/sharpd/src/sharpd/controller/server/servermock"
	"github.com/uber/sharpd/src/sharpd/entity"
	"github.com/uber/sharpd/src/sharpd/factory"
	"github.com/uber/sharpd/src/sharpd/gateway/omnisharp"
	"github.com/uber/sharpd/src/sharpd/gateway/omnisharp/omnisharpmock"
	"github.com/uber/sharpd/src/sharpd/internal/errors"
	"github.com/uber/sharpd/src/sharpd/repository/session"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type env struct {
	controller  Controller
	gateway     *omnisharpmock.MockGateway
	server      *servermock.MockController
	diagnostics *diagnosticsmock.MockController
	ctx         context.Context
}

func setup(t *testing.T) *env {
	t.Helper()
	ctrl := gomock.NewController(t)

	repo := session.New(tally.NoopScope)
	id := factory.UUID()
	require.NoError(t, repo.Set(context.Background(), &entity.Session{UUID: id, State: entity.StateReady}))

	gw := omnisharpmock.NewMockGateway(ctrl)
	srv := servermock.NewMockController(ctrl)
	diag := diagnosticsmock.NewMockController(ctrl)

	c := New(Params{
		Sessions:    repo,
		Gateway:     gw,
		Server:      srv,
		Diagnostics: diag,
		Logger:      zap.NewNop().Sugar(),
		Stats:       tally.NoopScope,
	})

	return &env{
		controller:  c,
		gateway:     gw,
		server:      srv,
		diagnostics: diag,
		ctx:         context.WithValue(context.Background(), entity.SessionContextKey, id),
	}
}

const _testBuffer = "using System;\n\nclass C {\n\tvoid M() {\n\t}\n}\n"

func request() *Request {
	return &Request{FilePath: "/work/App/Program.cs", Line: 10, Column: 4, Contents: _testBuffer}
}

func TestDispatchUnknownCommandInvokesNoHandler(t *testing.T) {
	e := setup(t)

	// No expectations registered: any handler invocation fails the test.
	var unknown *errors.UnknownCommandError
	_, err := e.controller.Dispatch(e.ctx, "FixIt", request())
	require.Error(t, err)
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "FixIt", unknown.Name)
	assert.Len(t, unknown.Valid, 12)
}

func TestCommandsAreFixedAndSorted(t *testing.T) {
	e := setup(t)

	commands := e.controller.Commands()
	assert.Len(t, commands, 12)
	assert.True(t, sort.StringsAreSorted(commands))
	assert.Contains(t, commands, CmdGoToImplementationElseDeclaration)
	assert.Contains(t, commands, CmdStartServer)
}

func TestDispatchServerCommands(t *testing.T) {
	e := setup(t)
	req := request()

	e.server.EXPECT().Start(gomock.Any(), req.FilePath).Return(&entity.Session{}, nil)
	_, err := e.controller.Dispatch(e.ctx, CmdStartServer, req)
	require.NoError(t, err)

	e.server.EXPECT().Stop(gomock.Any()).Return(nil)
	_, err = e.controller.Dispatch(e.ctx, CmdStopServer, req)
	require.NoError(t, err)

	e.server.EXPECT().Restart(gomock.Any(), req.FilePath).Return(&entity.Session{}, nil)
	_, err = e.controller.Dispatch(e.ctx, CmdRestartServer, req)
	require.NoError(t, err)

	e.server.EXPECT().ReloadSolution(gomock.Any()).Return(nil)
	_, err = e.controller.Dispatch(e.ctx, CmdReloadSolution, req)
	require.NoError(t, err)

	e.server.EXPECT().IsAlive(gomock.Any()).Return(true, nil)
	out, err := e.controller.Dispatch(e.ctx, CmdServerRunning, req)
	require.NoError(t, err)
	assert.Equal(t, true, out)

	e.server.EXPECT().IsReady(gomock.Any(), true).Return(false, nil)
	out, err = e.controller.Dispatch(e.ctx, CmdServerReady, req)
	require.NoError(t, err)
	assert.Equal(t, false, out)
}

func TestGoToDefinitionFamilySharesOneEndpoint(t *testing.T) {
	e := setup(t)
	fix := &omnisharp.QuickFix{FileName: "/work/App/Widget.cs", Line: 3, Column: 7}

	for _, command := range []string{CmdGoToDefinition, CmdGoToDeclaration, CmdGoToDefinitionElseDeclaration} {
		e.gateway.EXPECT().GoToDefinition(gomock.Any(), gomock.Any(), gomock.Any()).Return(fix, nil)

		out, err := e.controller.Dispatch(e.ctx, command, request())
		require.NoError(t, err, command)
		assert.Equal(t, entity.Location{FilePath: "/work/App/Widget.cs", Line: 3, Column: 7}, out)
	}
}

func TestGoToResolvesImplementations(t *testing.T) {
	e := setup(t)

	one := []omnisharp.QuickFix{{FileName: "/work/App/Widget.cs", Line: 3, Column: 7}}
	e.gateway.EXPECT().FindImplementations(gomock.Any(), gomock.Any(), gomock.Any()).Return(one, nil)

	out, err := e.controller.Dispatch(e.ctx, CmdGoTo, request())
	require.NoError(t, err)
	assert.Equal(t, entity.Location{FilePath: "/work/App/Widget.cs", Line: 3, Column: 7}, out)
}

func TestGoToFallsBackToDeclaration(t *testing.T) {
	e := setup(t)

	e.gateway.EXPECT().FindImplementations(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	e.gateway.EXPECT().GoToDefinition(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&omnisharp.QuickFix{FileName: "/decl.cs", Line: 9, Column: 1}, nil)

	out, err := e.controller.Dispatch(e.ctx, CmdGoTo, request())
	require.NoError(t, err)
	assert.Equal(t, entity.Location{FilePath: "/decl.cs", Line: 9, Column: 1}, out)
}

func TestGoToDefinitionUnresolvable(t *testing.T) {
	e := setup(t)
	e.gateway.EXPECT().GoToDefinition(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&omnisharp.QuickFix{}, nil)

	_, err := e.controller.Dispatch(e.ctx, CmdGoToDefinition, request())
	assert.Error(t, err)
}

func TestGoToImplementation(t *testing.T) {
	e := setup(t)

	one := []omnisharp.QuickFix{{FileName: "/a.cs", Line: 1, Column: 1}}
	e.gateway.EXPECT().FindImplementations(gomock.Any(), gomock.Any(), gomock.Any()).Return(one, nil)
	out, err := e.controller.Dispatch(e.ctx, CmdGoToImplementation, request())
	require.NoError(t, err)
	assert.Equal(t, entity.Location{FilePath: "/a.cs", Line: 1, Column: 1}, out)

	many := []omnisharp.QuickFix{
		{FileName: "/a.cs", Line: 1, Column: 1},
		{FileName: "/b.cs", Line: 2, Column: 2},
	}
	e.gateway.EXPECT().FindImplementations(gomock.Any(), gomock.Any(), gomock.Any()).Return(many, nil)
	out, err = e.controller.Dispatch(e.ctx, CmdGoToImplementation, request())
	require.NoError(t, err)
	assert.Len(t, out, 2)

	e.gateway.EXPECT().FindImplementations(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	_, err = e.controller.Dispatch(e.ctx, CmdGoToImplementation, request())
	assert.Error(t, err)
}

func TestGoToImplementationElseDeclarationFallsBack(t *testing.T) {
	e := setup(t)

	e.gateway.EXPECT().FindImplementations(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	e.gateway.EXPECT().GoToDefinition(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&omnisharp.QuickFix{FileName: "/decl.cs", Line: 9, Column: 1}, nil)

	out, err := e.controller.Dispatch(e.ctx, CmdGoToImplementationElseDeclaration, request())
	require.NoError(t, err)
	assert.Equal(t, entity.Location{FilePath: "/decl.cs", Line: 9, Column: 1}, out)
}

func TestCompletions(t *testing.T) {
	e := setup(t)

	var got *omnisharp.CompletionRequest
	e.gateway.EXPECT().Autocomplete(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, s *entity.Session, req *omnisharp.CompletionRequest) ([]omnisharp.CompletionEntry, error) {
			got = req
			return []omnisharp.CompletionEntry{
				{CompletionText: "Console", DisplayText: "Console", Description: "class Console", Kind: "Class"},
			}, nil
		})

	req := request()
	req.ForceSemantic = true
	candidates, err := e.controller.Completions(e.ctx, req)
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "Console", candidates[0].InsertionText)
	assert.Equal(t, "class Console", candidates[0].DetailedInfo)

	require.NotNil(t, got)
	assert.True(t, got.ForceSemanticCompletion)
	assert.Equal(t, 10, got.Line)
	assert.Equal(t, _testBuffer, got.Buffer)
}

func TestCompletionsRequireFilePath(t *testing.T) {
	e := setup(t)

	var invalid *errors.InvalidFileError
	_, err := e.controller.Completions(e.ctx, &Request{Line: 1, Column: 1, Contents: "x"})
	require.Error(t, err)
	assert.True(t, errors.As(err, &invalid))
}

func TestHandleFileReadyToParseStoresDiagnostics(t *testing.T) {
	e := setup(t)
	req := request()

	fixes := []omnisharp.QuickFix{
		{FileName: req.FilePath, Line: 10, Column: 5, Message: "unexpected token", LogLevel: "Error"},
	}
	e.gateway.EXPECT().SyntaxErrors(gomock.Any(), gomock.Any(), gomock.Any()).Return(fixes, nil)
	e.diagnostics.EXPECT().Replace(gomock.Any(), req.FilePath, gomock.Len(1)).Return(nil)

	found, err := e.controller.HandleFileReadyToParse(e.ctx, req)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, entity.DiagnosticError, found[0].Kind)
	assert.Equal(t, "unexpected token", found[0].Text)
}

func TestHandleFileReadyToParseEmptyBuffer(t *testing.T) {
	e := setup(t)
	req := request()
	req.Contents = ""

	var tooShort *errors.FileTooShortError
	_, err := e.controller.HandleFileReadyToParse(e.ctx, req)
	require.Error(t, err)
	require.True(t, errors.As(err, &tooShort))
	assert.Equal(t, req.FilePath, tooShort.FilePath)
}

func TestHandleFileReadyToParseShortBuffer(t *testing.T) {
	e := setup(t)
	req := request()
	req.Contents = "class C {\n\tvoid M() {}\n}\n"

	// Three lines never reach the analysis server: no gateway expectations.
	var tooShort *errors.FileTooShortError
	_, err := e.controller.HandleFileReadyToParse(e.ctx, req)
	require.Error(t, err)
	require.True(t, errors.As(err, &tooShort))
	assert.Equal(t, req.FilePath, tooShort.FilePath)
}

func TestHandleFileReadyToParseMissingFilePath(t *testing.T) {
	e := setup(t)

	var invalid *errors.InvalidFileError
	_, err := e.controller.HandleFileReadyToParse(e.ctx, &Request{Contents: "class C {}"})
	require.Error(t, err)
	assert.True(t, errors.As(err, &invalid))
}
