package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/block"
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/cache"
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/kicad/schematic"
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/kicad/sexp"
)

// MergeStatus reports how much of a composition made it into the
// merged document.
type MergeStatus int

const (
	// StatusComplete means every placed block's schematic was merged.
	StatusComplete MergeStatus = iota
	// StatusPartial means some blocks were skipped; Skipped lists them.
	StatusPartial
	// StatusFailed means no block could be merged.
	StatusFailed
)

func (s MergeStatus) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusPartial:
		return "partial"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// SkippedBlock records a block whose schematic could not be fetched or
// parsed, and why.
type SkippedBlock struct {
	Slug string
	Err  error
}

// BoardSize is the merged board's bounding box in millimeters.
type BoardSize struct {
	WidthMM  float64
	HeightMM float64
}

// Result is the output of one composition run. The caller decides
// whether a partial merge is acceptable.
type Result struct {
	Status       MergeStatus
	Schematic    *schematic.Schematic
	Nets         *NetTable
	Assignments  []NetAssignment
	Interconnect []InterconnectWire
	Size         BoardSize
	Skipped      []SkippedBlock
}

// Composer runs the schematic merge pipeline. It is stateless apart
// from its cache and logger; one Composer may serve concurrent
// requests.
type Composer struct {
	Registry block.Registry
	Cache    cache.Cache
	Logger   *log.Logger

	// Concurrency bounds the parallel source fetches. Zero means 4.
	Concurrency int
	// Retries is the attempt count for transient fetch failures.
	// Zero means 3.
	Retries int
	// CacheTTL controls how long fetched sources stay cached.
	// Zero entries never expire.
	CacheTTL time.Duration
}

// NewComposer creates a composer over the given registry. If c is nil
// caching is disabled; if logger is nil the default logger is used.
func NewComposer(reg block.Registry, c cache.Cache, logger *log.Logger) *Composer {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Composer{Registry: reg, Cache: c, Logger: logger}
}

// Compose merges the placed blocks into one board-level schematic.
// Source fetches fan out in parallel but the reduction into the merged
// document runs in placement order, so the output is identical across
// runs regardless of fetch timing. Individual fetch or parse failures
// skip that block's geometry and are reported in the result; only a
// cancelled context or a registry-wide failure returns an error.
func (c *Composer) Compose(ctx context.Context, placed []block.Placed, project string) (*Result, error) {
	result := &Result{
		Size: boardSize(placed),
	}

	// Board geometry and net bookkeeping come from the definitions, so
	// they cover every placed block whether or not its source merges.
	result.Nets, result.Assignments = UnifyNets(placed)

	parsed := make([]*schematic.Schematic, len(placed))
	fetchErrs := make([]error, len(placed))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency())

	for i := range placed {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sch, err := c.fetchBlock(gctx, placed[i].Definition.Slug)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				fetchErrs[i] = err
				return nil
			}
			parsed[i] = sch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := newBoardDocument(project)

	for i, pb := range placed {
		if fetchErrs[i] != nil {
			c.Logger.Warn("skipping block", "slug", pb.Definition.Slug, "err", fetchErrs[i])
			result.Skipped = append(result.Skipped, SkippedBlock{
				Slug: pb.Definition.Slug,
				Err:  fetchErrs[i],
			})
			continue
		}
		offset := sexp.Position{
			X: float64(pb.GridX) * GridUnit,
			Y: float64(pb.GridY) * GridUnit,
		}
		merged.Merge(parsed[i].Translate(offset.X, offset.Y))
	}

	result.Interconnect = Interconnect(placed)
	for _, ic := range result.Interconnect {
		merged.Wires = append(merged.Wires, ic.Wire)
	}

	result.Schematic = merged

	switch {
	case len(result.Skipped) == 0:
		result.Status = StatusComplete
	case len(result.Skipped) == len(placed) && len(placed) > 0:
		result.Status = StatusFailed
	default:
		result.Status = StatusPartial
	}

	return result, nil
}

func (c *Composer) concurrency() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return 4
}

func (c *Composer) retries() int {
	if c.Retries > 0 {
		return c.Retries
	}
	return 3
}

// fetchBlock loads and parses one block's schematic source, consulting
// the cache first. Transient registry failures are retried with
// backoff; a missing block is not.
func (c *Composer) fetchBlock(ctx context.Context, slug string) (*schematic.Schematic, error) {
	key := cache.SourceKey(slug)

	source, hit, err := c.Cache.Get(ctx, key)
	if err != nil {
		c.Logger.Debug("cache read failed", "slug", slug, "err", err)
	}

	if !hit {
		err := cache.RetryWithBackoff(ctx, c.retries(), func() error {
			var ferr error
			source, ferr = c.Registry.SchematicSource(ctx, slug)
			if ferr == nil {
				return nil
			}
			if errors.Is(ferr, block.ErrNotFound) || errors.Is(ferr, block.ErrNoSource) {
				return ferr
			}
			return cache.Retryable(ferr)
		})
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", slug, err)
		}
		if err := c.Cache.Set(ctx, key, source, c.CacheTTL); err != nil {
			c.Logger.Debug("cache write failed", "slug", slug, "err", err)
		}
	}

	sch, err := schematic.Parse(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", slug, err)
	}
	return sch, nil
}

// boardSize computes the bounding box over all placed blocks,
// independent of whether their sources merge.
func boardSize(placed []block.Placed) BoardSize {
	var size BoardSize
	for _, pb := range placed {
		w := float64(pb.GridX+pb.Definition.Width) * GridUnit
		h := float64(pb.GridY+pb.Definition.Height) * GridUnit
		if w > size.WidthMM {
			size.WidthMM = w
		}
		if h > size.HeightMM {
			size.HeightMM = h
		}
	}
	return size
}

// newBoardDocument creates the empty merged document shell.
func newBoardDocument(project string) *schematic.Schematic {
	return &schematic.Schematic{
		Version:   schematic.MinSupportedVersion,
		Generator: "opentraceblocks",
		UUID:      sexp.UUID(uuid.NewString()),
		Paper:     "A4",
		TitleBlock: schematic.TitleBlock{
			Title: project,
		},
	}
}
