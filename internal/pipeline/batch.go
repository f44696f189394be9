package pipeline

import (
	"context"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/sha-research/cmf-cli/internal/model"
	"github.com/sha-research/cmf-cli/internal/report"
)

// StudySpec is one entry of a batch studies file: a study area plus the
// rule workbook it runs against. Keys mirror the analyze command flags.
type StudySpec struct {
	Route     string  `yaml:"route"`
	Number    int     `yaml:"number"`
	StartMP   float64 `yaml:"start_mp"`
	EndMP     float64 `yaml:"end_mp"`
	StartYear int     `yaml:"start_year"`
	EndYear   int     `yaml:"end_year"`
	CMFFile   string  `yaml:"cmf_file"`
	OutputDir string  `yaml:"output_dir,omitempty"`
}

// Area builds the study area the entry describes.
func (s StudySpec) Area() model.StudyArea {
	return model.StudyArea{
		RoutePrefix: s.Route,
		RouteNumber: s.Number,
		StartMP:     s.StartMP,
		EndMP:       s.EndMP,
		StartYear:   s.StartYear,
		EndYear:     s.EndYear,
	}
}

type batchFile struct {
	Studies []StudySpec `yaml:"studies"`
}

// ParseBatchFile reads a YAML studies file.
func ParseBatchFile(path string) ([]StudySpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read batch file %s", path)
	}

	var bf batchFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, eris.Wrapf(err, "pipeline: parse batch file %s", path)
	}
	if len(bf.Studies) == 0 {
		return nil, eris.Errorf("pipeline: batch file %s lists no studies", path)
	}
	return bf.Studies, nil
}

// BatchResult collects the outcomes of a batch run.
type BatchResult struct {
	Outcomes []*Outcome
	Failed   int
}

// RunBatch runs every study, at most concurrency at a time, and keeps
// going past individual failures.
func (a *Analyzer) RunBatch(ctx context.Context, specs []StudySpec, opts report.Options, concurrency int) *BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var mu sync.Mutex
	res := &BatchResult{}

	for i, spec := range specs {
		g.Go(func() error {
			out, err := a.Run(gCtx, Params{
				Area:      spec.Area(),
				InputPath: spec.CMFFile,
				OutputDir: spec.OutputDir,
				Report:    opts,
			})
			if err != nil {
				zap.L().Error("batch study failed",
					zap.Int("study", i+1),
					zap.String("input", spec.CMFFile),
					zap.Error(err),
				)
				mu.Lock()
				res.Failed++
				mu.Unlock()
				return nil // don't abort the batch on individual failure
			}

			mu.Lock()
			res.Outcomes = append(res.Outcomes, out)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	zap.L().Info("batch complete",
		zap.Int("studies", len(specs)),
		zap.Int("succeeded", len(res.Outcomes)),
		zap.Int("failed", res.Failed),
	)
	return res
}
