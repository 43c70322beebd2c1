// Package readpack is the top-level entry point for the readpack service.
//
// Use the Builder to compose an application:
//
//	app, err := readpack.NewBuilder().Build()
//	app.Start(ctx)
//
// Or customize components:
//
//	app, err := readpack.NewBuilder().
//	    WithReader(myReader).
//	    WithStore(myStore).
//	    Build()
package readpack

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/readpack/readpack/httpapi"
	"github.com/readpack/readpack/model"
	"github.com/readpack/readpack/pkg/packer"
	"github.com/readpack/readpack/pkg/reader"
	"github.com/readpack/readpack/store/sqlite"
)

// Config holds top-level configuration for a readpack application.
type Config struct {
	// ServerAddr is the address the HTTP server listens on (default ":7090").
	ServerAddr string

	// DataDir is the directory for persistent data (default "~/.readpack").
	DataDir string

	// DatabasePath is the full path to the SQLite database file.
	DatabasePath string

	// MaxTotalBytes and MaxTotalLines bound the combined packed output.
	MaxTotalBytes int
	MaxTotalLines int
}

// Builder constructs a readpack App.
type Builder struct {
	config Config
	reader reader.Reader
	store  *sqlite.Store
}

// NewBuilder creates a new Builder with sensible defaults.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithConfig sets the application configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithReader sets the read primitive implementation.
func (b *Builder) WithReader(r reader.Reader) *Builder {
	b.reader = r
	return b
}

// WithStore sets the invocation history store.
func (b *Builder) WithStore(s *sqlite.Store) *Builder {
	b.store = s
	return b
}

// Build creates the App. Missing components are filled with defaults.
func (b *Builder) Build() (*App, error) {
	if err := applyDefaults(b); err != nil {
		return nil, err
	}

	p, err := packer.New(b.reader, packer.Budget{
		MaxBytes: b.config.MaxTotalBytes,
		MaxLines: b.config.MaxTotalLines,
	})
	if err != nil {
		return nil, err
	}

	svc := NewService(p, b.store)
	return &App{
		config:  b.config,
		service: svc,
		handler: httpapi.New(svc),
	}, nil
}

// Service executes pack calls and records their history.
type Service struct {
	packer *packer.Packer
	store  *sqlite.Store
}

// NewService creates a Service. The store may be nil, in which case no
// history is recorded.
func NewService(p *packer.Packer, st *sqlite.Store) *Service {
	return &Service{packer: p, store: st}
}

// Budget returns the combined output ceiling.
func (s *Service) Budget() packer.Budget { return s.packer.Budget() }

// Pack runs one pack call and, when a store is configured, persists its
// invocation record. A persistence failure is logged, not returned: the
// packed output is still valid.
func (s *Service) Pack(ctx context.Context, files []packer.FileRequest, opts packer.Options) (*packer.Result, *model.Invocation, error) {
	result, err := s.packer.Pack(ctx, files, opts)
	if err != nil {
		return nil, nil, err
	}

	inv := invocationRecord(files, result)
	if s.store != nil {
		outcomes := make([]model.FileOutcome, 0, len(result.Files))
		for _, f := range result.Files {
			outcomes = append(outcomes, model.FileOutcome{
				InvocationID: inv.ID,
				FileIndex:    f.Index,
				Path:         f.Path,
				OK:           f.OK,
				Error:        f.Error,
				ImageCount:   f.ImageCount,
				Inclusion:    f.Inclusion,
			})
		}
		if err := s.store.CreateInvocation(inv, outcomes); err != nil {
			log.Printf("recording invocation %s: %v", inv.ID, err)
		}
	}
	return result, inv, nil
}

// Invocations returns recent invocation records, newest first.
func (s *Service) Invocations(limit int) ([]*model.Invocation, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListInvocations(limit)
}

// Invocation returns one invocation and its per-file outcomes.
func (s *Service) Invocation(id string) (*model.Invocation, []model.FileOutcome, error) {
	if s.store == nil {
		return nil, nil, nil
	}
	inv, err := s.store.GetInvocation(id)
	if err != nil {
		return nil, nil, err
	}
	files, err := s.store.GetFileOutcomes(id)
	if err != nil {
		return nil, nil, err
	}
	return inv, files, nil
}

func invocationRecord(files []packer.FileRequest, result *packer.Result) *model.Invocation {
	reqJSON, err := json.Marshal(files)
	if err != nil {
		reqJSON = []byte("[]")
	}
	partial := 0
	if result.PartialPath != "" {
		partial = 1
	}
	return &model.Invocation{
		ID:           uuid.NewString(),
		RequestJSON:  string(reqJSON),
		Strategy:     result.Strategy,
		Switched:     result.Switched,
		Processed:    result.Processed,
		Succeeded:    result.Succeeded,
		Failed:       result.Failed,
		FullCount:    len(result.FullPaths),
		PartialCount: partial,
		OmittedCount: len(result.OmittedPaths),
		UsedBytes:    result.UsedBytes,
		UsedLines:    result.UsedLines,
		CreatedAt:    time.Now().UTC(),
	}
}

// App is a running readpack application.
type App struct {
	config  Config
	service *Service
	handler *httpapi.Handler
}

// Service returns the underlying service for direct access.
func (a *App) Service() *Service { return a.service }

// Start starts the HTTP server. Blocks until ctx is done.
func (a *App) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    a.config.ServerAddr,
		Handler: a.handler.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("readpack server listening on %s", a.config.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	if a.service.store != nil {
		return a.service.store.Close()
	}
	return nil
}
