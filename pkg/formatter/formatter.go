package formatter

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/siyuan-infoblox/go-imports-sorter/pkg/errors"
	"github.com/siyuan-infoblox/go-imports-sorter/pkg/utils"
)

// Mode selects what happens to a file whose imports need rewriting.
type Mode int

const (
	ModeWrite Mode = iota // replace the file on disk
	ModeList              // print the file name
	ModeDiff              // print a unified diff
)

type FormatterConfig struct {
	Prefixes     []string  // custom bucket prefixes, in order
	DetectModule bool      // append the module path of the nearest go.mod as the last bucket
	Exclude      []string  // doublestar patterns skipped when walking directories
	Workers      int       // files processed concurrently
	Mode         Mode      // what to do with files that change
	Output       io.Writer // destination for list and diff output, stdout when nil
}

// Result describes one processed file.
type Result struct {
	Path    string
	Imports int
	Changed bool
}

// Stats summarizes a batch run.
type Stats struct {
	Files   int
	Changed int
	Failed  int
}

// Formatter rewrites the import sections of Go files.
type Formatter struct {
	config   FormatterConfig
	matcher  *Matcher
	prefixes Prefixes
	logger   *zap.Logger

	outMu sync.Mutex
	out   io.Writer
}

// New creates a Formatter. The configured prefixes are frozen here and shared
// by every file processed afterwards; with DetectModule the module path is
// appended per argument.
func New(config FormatterConfig, logger *zap.Logger) (*Formatter, error) {
	m, err := NewMatcher()
	if err != nil {
		return nil, err
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	return &Formatter{
		config:   config,
		matcher:  m,
		prefixes: NewPrefixes(config.Prefixes...),
		logger:   logger,
		out:      out,
	}, nil
}

// prefixesFor returns the prefixes used for files found under path.
func (g *Formatter) prefixesFor(path string) Prefixes {
	if !g.config.DetectModule {
		return g.prefixes
	}
	module := utils.GetProjectModule(path)
	if module == "" {
		g.logger.Debug(fmt.Sprintf(errors.ErrMsgModuleNotFound, path))
		return g.prefixes
	}
	return g.prefixes.Append(module)
}

// ProcessFile reads, sorts and, depending on the mode, writes one Go file.
func (g *Formatter) ProcessFile(path string) (Result, error) {
	return g.processFile(path, g.prefixesFor(path))
}

func (g *Formatter) processFile(path string, prefixes Prefixes) (Result, error) {
	res := Result{Path: path}

	sf, err := Read(prefixes, g.matcher, path)
	if err != nil {
		return res, fmt.Errorf("%s: %w", errors.ErrMsgFailedToReadFile, err)
	}
	sf.Sort()

	out, changed := sf.Render()
	res.Imports = sf.Sorter().Count()
	res.Changed = changed
	if ce := g.logger.Check(zap.DebugLevel, errors.InfoMsgProcessedFile); ce != nil {
		fields := []zap.Field{zap.String("path", path), zap.Int("imports", res.Imports), zap.Bool("changed", res.Changed)}
		for _, bucket := range sf.Sorter().Buckets() {
			if len(bucket.Imports) > 0 {
				fields = append(fields, zap.Int(bucketLabel(bucket), len(bucket.Imports)))
			}
		}
		ce.Write(fields...)
	}
	if !res.Changed {
		return res, nil
	}

	switch g.config.Mode {
	case ModeList:
		g.print(path + "\n")
	case ModeDiff:
		diff, err := unifiedDiff(path, out)
		if err != nil {
			return res, fmt.Errorf("%s: %w", errors.ErrMsgFailedToRenderFile, err)
		}
		g.print(diff)
	default:
		if err := sf.replace(out); err != nil {
			return res, fmt.Errorf("%s: %w", errors.ErrMsgFailedToWriteFile, err)
		}
	}
	return res, nil
}

func bucketLabel(b Bucket) string {
	if b.Kind == CustomBucket {
		return b.Prefix
	}
	return b.Kind.String()
}

func unifiedDiff(path string, after []byte) (string, error) {
	before, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewPathError("read", path, err)
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: path + ".orig",
		ToFile:   path,
		Context:  3,
	})
}

func (g *Formatter) print(s string) {
	g.outMu.Lock()
	defer g.outMu.Unlock()
	_, _ = io.WriteString(g.out, s)
}

type job struct {
	path     string
	prefixes Prefixes
}

// ProcessFiles processes the given Go files concurrently. A failing file is
// logged and does not stop the others; all failures are returned combined.
func (g *Formatter) ProcessFiles(ctx context.Context, filePaths []string) (Stats, error) {
	jobs := make([]job, 0, len(filePaths))
	for _, path := range filePaths {
		jobs = append(jobs, job{path: path, prefixes: g.prefixesFor(path)})
	}
	return g.run(ctx, jobs, nil)
}

// ProcessPaths processes files and directories. Directories are walked
// recursively for Go files; explicit files without the .go extension are skipped.
func (g *Formatter) ProcessPaths(ctx context.Context, paths []string) (Stats, error) {
	var (
		jobs  []job
		stats Stats
		errs  error
	)

	for _, path := range paths {
		isDir, err := utils.IsDirectory(path)
		if err != nil {
			err = fmt.Errorf("%s: %w", errors.ErrMsgFailedToCheckPath, errors.NewPathError("stat", path, err))
			g.logger.Error(errors.InfoMsgErrorProcessing, zap.String("path", path), zap.Error(err))
			stats.Failed++
			errs = multierr.Append(errs, err)
			continue
		}

		prefixes := g.prefixesFor(path)
		if !isDir {
			if !utils.IsGoFile(path) {
				g.logger.Debug(errors.InfoMsgSkippedFile, zap.String("path", path))
				continue
			}
			jobs = append(jobs, job{path: path, prefixes: prefixes})
			continue
		}

		goFiles, err := utils.FindGoFiles(path, g.config.Exclude...)
		if err != nil {
			err = fmt.Errorf("%s: %w", errors.ErrMsgFailedToFindGoFiles, errors.NewPathError("walk", path, err))
			g.logger.Error(errors.InfoMsgErrorProcessing, zap.String("path", path), zap.Error(err))
			stats.Failed++
			errs = multierr.Append(errs, err)
			continue
		}
		if len(goFiles) == 0 {
			g.logger.Info(errors.InfoMsgNoGoFilesFound, zap.String("path", path))
			continue
		}
		g.logger.Debug(errors.InfoMsgFoundGoFiles, zap.String("path", path), zap.Int("files", len(goFiles)))
		for _, file := range goFiles {
			jobs = append(jobs, job{path: file, prefixes: prefixes})
		}
	}

	batch, err := g.run(ctx, jobs, errs)
	batch.Failed += stats.Failed
	return batch, err
}

func (g *Formatter) run(ctx context.Context, jobs []job, errs error) (Stats, error) {
	var (
		mu    sync.Mutex
		stats Stats
		eg    errgroup.Group
	)
	eg.SetLimit(g.config.Workers)

	for _, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res, err := g.processFile(j.path, j.prefixes)

			mu.Lock()
			defer mu.Unlock()
			stats.Files++
			if err != nil {
				stats.Failed++
				errs = multierr.Append(errs, err)
				g.logger.Error(errors.InfoMsgErrorProcessing, zap.String("path", j.path), zap.Error(err))
				return nil
			}
			if res.Changed {
				stats.Changed++
			}
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		errs = multierr.Append(errs, err)
	}
	return stats, errs
}
