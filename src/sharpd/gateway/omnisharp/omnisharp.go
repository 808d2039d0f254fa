// Package omnisharp is the outbound gateway to a session's analysis server.
// Every exchanged body is signed and verified with the session's shared
// secret; a response whose signature does not match is discarded.
package omnisharp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uber/sharpd/src/sharpd/entity"
	"github.com/uber/sharpd/src/sharpd/internal/errors"
	"github.com/uber/sharpd/src/sharpd/internal/hmacauth"
	"go.uber.org/zap"
)

const _requestTimeout = 30 * time.Second

// Gateway is used to send authenticated requests to a session's analysis server.
type Gateway interface {
	// Autocomplete requests completion candidates at a position.
	Autocomplete(ctx context.Context, s *entity.Session, req *CompletionRequest) ([]CompletionEntry, error)
	// GoToDefinition resolves the definition location for a position.
	GoToDefinition(ctx context.Context, s *entity.Session, req *PositionRequest) (*QuickFix, error)
	// FindImplementations lists implementation locations for a position.
	FindImplementations(ctx context.Context, s *entity.Session, req *PositionRequest) ([]QuickFix, error)
	// SyntaxErrors returns the diagnostics reported for the buffer.
	SyntaxErrors(ctx context.Context, s *entity.Session, req *PositionRequest) ([]QuickFix, error)
	// CheckAliveStatus probes whether the server process answers at all.
	CheckAliveStatus(ctx context.Context, s *entity.Session) (bool, error)
	// CheckReadyStatus probes whether the server has finished initializing.
	CheckReadyStatus(ctx context.Context, s *entity.Session) (bool, error)
	// StopServer requests graceful in-protocol termination.
	StopServer(ctx context.Context, s *entity.Session) error
	// ReloadSolution asks the server to re-read its project descriptor.
	ReloadSolution(ctx context.Context, s *entity.Session) error
}

type gateway struct {
	client *http.Client
	logger *zap.SugaredLogger
}

// New returns a Gateway for issuing authenticated analysis-server calls.
func New(logger *zap.SugaredLogger) Gateway {
	return &gateway{
		client: &http.Client{Timeout: _requestTimeout},
		logger: logger.With("gateway", "omnisharp"),
	}
}

func (g *gateway) Autocomplete(ctx context.Context, s *entity.Session, req *CompletionRequest) ([]CompletionEntry, error) {
	var out completionsResponse
	if err := g.post(ctx, s, "/autocomplete", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *gateway) GoToDefinition(ctx context.Context, s *entity.Session, req *PositionRequest) (*QuickFix, error) {
	var out QuickFix
	if err := g.post(ctx, s, "/gotodefinition", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *gateway) FindImplementations(ctx context.Context, s *entity.Session, req *PositionRequest) ([]QuickFix, error) {
	var out quickFixesResponse
	if err := g.post(ctx, s, "/findimplementations", req, &out); err != nil {
		return nil, err
	}
	return out.QuickFixes, nil
}

func (g *gateway) SyntaxErrors(ctx context.Context, s *entity.Session, req *PositionRequest) ([]QuickFix, error) {
	var out syntaxErrorsResponse
	if err := g.post(ctx, s, "/syntaxerrors", req, &out); err != nil {
		return nil, err
	}
	return out.Errors, nil
}

func (g *gateway) CheckAliveStatus(ctx context.Context, s *entity.Session) (bool, error) {
	var alive bool
	if err := g.post(ctx, s, "/checkalivestatus", nil, &alive); err != nil {
		return false, err
	}
	return alive, nil
}

func (g *gateway) CheckReadyStatus(ctx context.Context, s *entity.Session) (bool, error) {
	var ready bool
	if err := g.post(ctx, s, "/checkreadystatus", nil, &ready); err != nil {
		return false, err
	}
	return ready, nil
}

func (g *gateway) StopServer(ctx context.Context, s *entity.Session) error {
	return g.post(ctx, s, "/stopserver", nil, nil)
}

func (g *gateway) ReloadSolution(ctx context.Context, s *entity.Session) error {
	return g.post(ctx, s, "/reloadsolution", nil, nil)
}

// post sends one signed request and verifies the response signature before
// decoding. A nil req sends an empty body, which is still signed.
func (g *gateway) post(ctx context.Context, s *entity.Session, path string, req interface{}, out interface{}) error {
	var body []byte
	if req != nil {
		var err error
		body, err = json.Marshal(req)
		if err != nil {
			return &errors.CommunicationError{Op: "encoding " + path + " request", Err: err}
		}
	}

	url := fmt.Sprintf("http://127.0.0.1:%d%s", s.Port, path)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &errors.CommunicationError{Op: "building " + path + " request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(hmacauth.HeaderName, hmacauth.Sign(body, s.Secret))

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return &errors.CommunicationError{Op: "sending " + path + " request", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errors.CommunicationError{Op: "reading " + path + " response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &errors.CommunicationError{Op: path, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	digest := resp.Header.Get(hmacauth.HeaderName)
	if digest == "" {
		return &errors.AuthenticationError{Reason: "response is missing the " + hmacauth.HeaderName + " header"}
	}
	if !hmacauth.Verify(respBody, digest, s.Secret) {
		return &errors.AuthenticationError{Reason: "response signature mismatch on " + path}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &errors.CommunicationError{Op: "decoding " + path + " response", Err: err}
	}
	return nil
}
