package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/yamlviz/pkg/cache"
	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/graph"
	"github.com/matzehuels/yamlviz/pkg/observability"
)

// Result contains the outputs of a pipeline run.
type Result struct {
	// Visualization holds one graph or error record per document.
	Visualization graph.Visualization

	// Hash is the content hash of the serialized visualization.
	Hash string

	// Artifacts contains exported documents, one per valid document and format.
	Artifacts []Artifact

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Documents  int
	Failed     int
	NodeCount  int
	EdgeCount  int
	RunTime    time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ResultHit bool // Whether the visualization came from cache
	ExportHit bool // Whether all artifacts came from cache
}

// Runner encapsulates pipeline execution with caching.
// The CLI, the server and the MCP tools use it to share caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete pipeline with caching and exports every valid
// document in each of opts.Formats.
func (r *Runner) Execute(ctx context.Context, text string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	runStart := time.Now()
	v, hash, hit, err := r.VisualizeWithCacheInfo(ctx, text, opts)
	if err != nil {
		return nil, err
	}
	result.Visualization = v
	result.Hash = hash
	result.CacheInfo.ResultHit = hit
	result.Stats.RunTime = time.Since(runStart)
	result.Stats.Documents = v.Len()
	result.Stats.Failed = len(v.Failed())
	for _, d := range v.Documents {
		result.Stats.NodeCount += len(d.Nodes)
		result.Stats.EdgeCount += len(d.Edges)
	}

	r.Logger.Info("visualized documents",
		"documents", result.Stats.Documents,
		"failed", result.Stats.Failed,
		"nodes", result.Stats.NodeCount,
		"cached", hit,
		"duration", result.Stats.RunTime)

	if len(opts.Formats) == 0 {
		return result, nil
	}

	exportStart := time.Now()
	allHit := true
	for i := range v.Documents {
		if v.Errors[i] != nil {
			continue
		}
		for _, f := range opts.Formats {
			data, hit, err := r.exportWithHash(ctx, v, hash, i, f, opts)
			if err != nil {
				return nil, err
			}
			allHit = allHit && hit
			result.Artifacts = append(result.Artifacts, Artifact{Document: i, Format: f, Data: data})
		}
	}
	result.CacheInfo.ExportHit = allHit && len(result.Artifacts) > 0
	result.Stats.ExportTime = time.Since(exportStart)

	r.Logger.Info("exported documents",
		"artifacts", len(result.Artifacts),
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// VisualizeWithCacheInfo runs Run with caching. It returns the result, its
// content hash (used to key artifacts) and whether it came from cache.
func (r *Runner) VisualizeWithCacheInfo(ctx context.Context, text string, opts Options) (graph.Visualization, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Visualization{}, "", false, err
	}
	if opts.MaxBytes > 0 {
		if err := errors.ValidateDocumentText(text, opts.MaxBytes); err != nil {
			return graph.Visualization{}, "", false, err
		}
	}
	hooks := observability.Cache()
	cacheKey := r.Keyer.ResultKey(cache.HashString(text), opts.ResultKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if v, err := graph.UnmarshalVisualization(data); err == nil {
				hooks.OnCacheHit(ctx, "result")
				return v, cache.Hash(data), true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		hooks.OnCacheMiss(ctx, "result")
	}

	v, err := Run(ctx, text, opts)
	if err != nil {
		return graph.Visualization{}, "", false, err
	}

	data, err := graph.MarshalVisualization(v)
	if err != nil {
		return graph.Visualization{}, "", false, errors.Wrap(errors.ErrCodeInternal, err, "serialize visualization")
	}
	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLResult); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		hooks.OnCacheSet(ctx, "result", len(data))
	}
	return v, cache.Hash(data), false, nil
}

// Visualize is a convenience wrapper that calls VisualizeWithCacheInfo and
// discards the hash and cache hit info.
func (r *Runner) Visualize(ctx context.Context, text string, opts Options) (graph.Visualization, error) {
	v, _, _, err := r.VisualizeWithCacheInfo(ctx, text, opts)
	return v, err
}

// Export renders one document of the visualization of text, using the cache
// for both the visualization and the artifact.
func (r *Runner) Export(ctx context.Context, text string, index int, format string, opts Options) ([]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	v, hash, _, err := r.VisualizeWithCacheInfo(ctx, text, opts)
	if err != nil {
		return nil, err
	}
	data, _, err := r.exportWithHash(ctx, v, hash, index, format, opts)
	return data, err
}

func (r *Runner) exportWithHash(ctx context.Context, v graph.Visualization, hash string, index int, format string, opts Options) ([]byte, bool, error) {
	hooks := observability.Cache()
	cacheKey := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(index, format))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			hooks.OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
		hooks.OnCacheMiss(ctx, "artifact")
	}

	data, err := Export(ctx, v, index, format, opts)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
