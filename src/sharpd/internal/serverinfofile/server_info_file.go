// Package serverinfofile maintains the JSON file advertising the daemon's
// connection details to the editor: the bound listen address and the log
// paths of each spawned analysis server. The file lives for the lifetime of
// the daemon and is removed on shutdown.
package serverinfofile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _configKeyInfoFile = "serverInfoFilePath"

// KeyAddress is the field holding the daemon's bound HTTP listen address.
const KeyAddress = "address"

// SessionLogKey names the field holding one log stream of the analysis
// server listening on port. Stream is "stdout" or "stderr".
func SessionLogKey(port int, stream string) string {
	return fmt.Sprintf("session:%d:%s", port, stream)
}

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// ServerInfoFile is an interface to manage contents of a single server info file.
type ServerInfoFile interface {
	// UpdateField sets one field and rewrites the file.
	UpdateField(key string, value string) error
}

type infoFile struct {
	path   string
	logger *zap.SugaredLogger

	mu     sync.Mutex
	fields map[string]string
}

// Params define values to be used by ServerInfoFile.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
}

// New creates a new ServerInfoFile which manages contents of a single server info file.
func New(p Params) (ServerInfoFile, error) {
	f := &infoFile{
		logger: p.Logger,
		fields: make(map[string]string),
	}

	if err := p.Config.Get(_configKeyInfoFile).Populate(&f.path); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyInfoFile, err)
	}
	if f.path == "" {
		return nil, fmt.Errorf("missing field %q in config", _configKeyInfoFile)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: f.onStop,
	})

	return f, nil
}

func (f *infoFile) UpdateField(key string, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fields[key] = value
	out, err := json.Marshal(f.fields)
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	if err := os.WriteFile(f.path, out, 0644); err != nil {
		return fmt.Errorf("writing info file: %w", err)
	}
	f.logger.Infow("connection info saved", zap.String("file", f.path), zap.String(key, value))
	return nil
}

// onStop removes the info file so editors do not pick up a stale address.
func (f *infoFile) onStop(ctx context.Context) error {
	if f.path == "" {
		return nil
	}
	return os.Remove(f.path)
}
