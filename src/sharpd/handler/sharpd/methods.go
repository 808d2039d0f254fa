package sharpd

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uber/sharpd/src/sharpd/controller/completer"
	"github.com/uber/sharpd/src/sharpd/internal/errors"
)

// positionPayload is the common body shape of position-scoped endpoints.
// Line and column are 1-based.
type positionPayload struct {
	FilePath string `json:"filepath"`
	Line     int    `json:"line_num"`
	Column   int    `json:"column_num"`
	Contents string `json:"contents"`
}

type completionsPayload struct {
	positionPayload
	ForceSemantic bool `json:"force_semantic"`
}

type eventPayload struct {
	positionPayload
	EventName string `json:"event_name"`
}

type commandPayload struct {
	positionPayload
	Command string `json:"command"`
}

type extraConfPayload struct {
	FilePath string `json:"filepath"`
}

const _eventFileReadyToParse = "FileReadyToParse"

func (p *positionPayload) toRequest() *completer.Request {
	return &completer.Request{
		FilePath: p.FilePath,
		Line:     p.Line,
		Column:   p.Column,
		Contents: p.Contents,
	}
}

func (h *handler) ready(c *gin.Context) {
	includeSubservers := c.Query("include_subservers")
	ready, err := h.server.IsReady(c.Request.Context(), includeSubservers == "1" || includeSubservers == "true")
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ready)
}

func (h *handler) healthy(c *gin.Context) {
	alive, err := h.server.IsAlive(c.Request.Context())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, alive)
}

func (h *handler) completions(c *gin.Context) {
	var payload completionsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.abortWithError(c, &errors.InvalidFileError{Reason: err.Error()})
		return
	}

	req := payload.toRequest()
	req.ForceSemantic = payload.ForceSemantic
	candidates, err := h.completer.Completions(c.Request.Context(), req)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completions": candidates})
}

func (h *handler) eventNotification(c *gin.Context) {
	var payload eventPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.abortWithError(c, &errors.InvalidFileError{Reason: err.Error()})
		return
	}

	// Only parse notifications produce diagnostics; other editor events are
	// acknowledged without work.
	if payload.EventName != _eventFileReadyToParse {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	found, err := h.completer.HandleFileReadyToParse(c.Request.Context(), payload.toRequest())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *handler) runCompleterCommand(c *gin.Context) {
	var payload commandPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.abortWithError(c, &errors.InvalidFileError{Reason: err.Error()})
		return
	}

	result, err := h.completer.Dispatch(c.Request.Context(), payload.Command, payload.toRequest())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusOK, true)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handler) detailedDiagnostic(c *gin.Context) {
	var payload positionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.abortWithError(c, &errors.InvalidFileError{Reason: err.Error()})
		return
	}

	nearest, err := h.diagnostics.NearestTo(c.Request.Context(), payload.FilePath, payload.Line, payload.Column)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": nearest.Text})
}

func (h *handler) loadExtraConfFile(c *gin.Context) {
	var payload extraConfPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.FilePath == "" {
		h.abortWithError(c, &errors.InvalidFileError{Reason: "missing file path"})
		return
	}

	exists, err := h.fs.FileExists(payload.FilePath)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	if !exists {
		h.abortWithError(c, &errors.InvalidFileError{Reason: "no such file: " + payload.FilePath})
		return
	}

	h.extraConfMu.Lock()
	h.extraConf[payload.FilePath] = true
	h.extraConfMu.Unlock()
	c.JSON(http.StatusOK, true)
}

func (h *handler) shutdown(c *gin.Context) {
	if err := h.server.Stop(c.Request.Context()); err != nil {
		h.logger.Warnw("Stopping analysis server on shutdown request failed", "error", err)
	}
	c.JSON(http.StatusOK, true)

	if err := h.shutdowner.Shutdown(); err != nil {
		h.logger.Errorw("Shutdown signal failed", "error", err)
	}
}

// abortWithError maps domain errors onto HTTP statuses. User-facing request
// errors are 4xx; transport and process failures surface as 5xx.
func (h *handler) abortWithError(c *gin.Context, err error) {
	h.stats.Tagged(map[string]string{"path": c.FullPath()}).Counter("errors").Inc(1)

	status := http.StatusInternalServerError
	var (
		unknown    *errors.UnknownCommandError
		invalid    *errors.InvalidFileError
		tooShort   *errors.FileTooShortError
		noSolution *errors.NoSolutionFileError
		ambiguous  *errors.AmbiguousSolutionError
		noDiag     *errors.NoDiagnosticError
		timeout    *errors.TimeoutError
		comm       *errors.CommunicationError
	)
	switch {
	case errors.As(err, &unknown), errors.As(err, &invalid), errors.As(err, &tooShort),
		errors.As(err, &noSolution), errors.As(err, &ambiguous):
		status = http.StatusBadRequest
	case errors.As(err, &noDiag):
		status = http.StatusNotFound
	case errors.IsAuthentication(err):
		status = http.StatusUnauthorized
	case errors.As(err, &timeout):
		status = http.StatusGatewayTimeout
	case errors.As(err, &comm):
		status = http.StatusBadGateway
	}

	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
