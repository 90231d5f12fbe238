package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/acctdiff/internal/model"
	"gopkg.in/yaml.v3"
)

// ErrEmptyManifest is returned for manifests that list no pairs
var ErrEmptyManifest = errors.New("manifest lists no pairs")

// Comparer compares the lists at two paths
type Comparer interface {
	ComparePaths(ctx context.Context, name, sourcePath, targetPath string) (*model.Report, error)
}

// Pair names one source/target comparison in a batch
type Pair struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// Manifest lists the pairs of a batch run
type Manifest struct {
	Mode  string `yaml:"mode,omitempty"`
	Pairs []Pair `yaml:"pairs"`
}

// CompareJob represents one pair comparison
type CompareJob struct {
	Index    int
	Pair     Pair
	Comparer Comparer
}

// Execute executes the comparison
func (j *CompareJob) Execute(ctx context.Context) Result {
	report, err := j.Comparer.ComparePaths(ctx, j.Pair.Name, j.Pair.Source, j.Pair.Target)
	return &CompareResult{
		Index:  j.Index,
		Pair:   j.Pair,
		Report: report,
		Error:  err,
	}
}

// CompareResult represents the result of a compare job
type CompareResult struct {
	Index  int
	Pair   Pair
	Report *model.Report
	Error  error
}

// GetError returns the error from the compare result
func (r *CompareResult) GetError() error {
	return r.Error
}

// BatchProcessor compares many pairs concurrently
type BatchProcessor struct {
	comparer    Comparer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(comparer Comparer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		comparer:    comparer,
		concurrency: concurrency,
	}
}

// ProcessPairs compares all pairs and returns results in input order
func (b *BatchProcessor) ProcessPairs(ctx context.Context, pairs []Pair) []*CompareResult {
	if len(pairs) == 0 {
		return []*CompareResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	defer pool.Shutdown()

	// Submit from a separate goroutine so results can drain while the queue fills
	go func() {
		defer pool.Close()
		for i, pair := range pairs {
			if err := pool.Submit(&CompareJob{Index: i, Pair: pair, Comparer: b.comparer}); err != nil {
				return
			}
		}
	}()

	results := make([]*CompareResult, len(pairs))
	for r := range pool.Results() {
		res := r.(*CompareResult)
		results[res.Index] = res
	}

	// Pairs never run because the context ended
	for i, res := range results {
		if res == nil {
			err := ctx.Err()
			if err == nil {
				err = ErrPoolClosed
			}
			results[i] = &CompareResult{Index: i, Pair: pairs[i], Error: err}
		}
	}

	return results
}

// ProcessManifest reads a manifest and compares its pairs
func (b *BatchProcessor) ProcessManifest(ctx context.Context, path string) ([]*CompareResult, error) {
	manifest, err := ReadManifest(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return b.ProcessPairs(ctx, manifest.Pairs), nil
}

// ReadManifest loads a YAML manifest; relative paths resolve against its directory
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(m.Pairs) == 0 {
		return nil, ErrEmptyManifest
	}

	base := filepath.Dir(path)
	seen := make(map[string]bool)
	for i := range m.Pairs {
		p := &m.Pairs[i]
		if p.Source == "" || p.Target == "" {
			return nil, fmt.Errorf("pair %d: source and target are required", i+1)
		}
		p.Source = resolve(base, p.Source)
		p.Target = resolve(base, p.Target)

		if p.Name == "" {
			p.Name = fmt.Sprintf("pair-%d", i+1)
		}
		// Names double as report file names
		if seen[p.Name] {
			return nil, fmt.Errorf("pair %d: duplicate name %q", i+1, p.Name)
		}
		seen[p.Name] = true
	}

	return &m, nil
}

// Failed returns the results that carry an error, sorted by index
func Failed(results []*CompareResult) []*CompareResult {
	var failed []*CompareResult
	for _, r := range results {
		if r.Error != nil {
			failed = append(failed, r)
		}
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i].Index < failed[j].Index })
	return failed
}

func resolve(base, p string) string {
	if p == "-" || filepath.IsAbs(p) || strings.HasPrefix(p, "~") {
		return p
	}
	return filepath.Join(base, p)
}
