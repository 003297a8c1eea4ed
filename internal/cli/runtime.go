package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/cocosearch/cocosearch/internal/config"
	"github.com/cocosearch/cocosearch/internal/embed"
	"github.com/cocosearch/cocosearch/internal/handlers"
	"github.com/cocosearch/cocosearch/internal/project"
	"github.com/cocosearch/cocosearch/internal/storage"
	"github.com/cocosearch/cocosearch/internal/symbols"
)

// runtime bundles the core components every subcommand needs, built
// once from the resolved project + configuration.
type runtime struct {
	store     *storage.Store
	resolved  *project.Resolved
	cfg       *config.Config
	registry  *handlers.Registry
	extractor *symbols.Extractor
	embedder  *embed.Client
}

// openRuntime resolves the project at cwd (or --path), loads its
// configuration, opens the storage pool, and builds the handler
// registry, symbol extractor, and embedding client every command shares.
func openRuntime(ctx context.Context) (*runtime, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cli: failed to get working directory: %w", err)
	}
	envRoot := os.Getenv("COCOSEARCH_PROJECT_PATH")
	if projectFlag != "" {
		cwd = projectFlag
		envRoot = ""
	}

	resolved, err := project.Resolve(project.RootOptions{
		ProjectFromCwd: projectFromCwdFlag,
		EnvRoot:        envRoot,
		Dir:            cwd,
	})
	if err != nil {
		return nil, err
	}
	if indexNameFlag != "" {
		resolved.IndexName = indexNameFlag
	}

	res, err := config.NewLoader(resolved.CanonicalPath).Load()
	if err != nil {
		return nil, fmt.Errorf("cli: failed to load configuration: %w", err)
	}

	store, err := storage.Open(ctx)
	if err != nil {
		return nil, err
	}

	registry, err := handlers.NewRegistry()
	if err != nil {
		store.Close()
		return nil, err
	}

	extractor, err := symbols.NewExtractorWithOverrides(resolved.CanonicalPath)
	if err != nil {
		store.Close()
		return nil, err
	}

	embedder := embed.New(res.Config.Embedding.Model, res.Config.Embedding.Dimensions)

	return &runtime{
		store:     store,
		resolved:  resolved,
		cfg:       res.Config,
		registry:  registry,
		extractor: extractor,
		embedder:  embedder,
	}, nil
}

func (r *runtime) Close() {
	r.store.Close()
}
