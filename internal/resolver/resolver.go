// Package resolver discovers a list's schema through a degrading chain of
// sources, richest first, and keeps the on-disk cache current as it goes.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/listctl/internal/listservice"
	"github.com/thenoetrevino/listctl/internal/models"
	"github.com/thenoetrevino/listctl/internal/schema"
	"github.com/thenoetrevino/listctl/internal/schemacache"
)

// DefaultSampleSize bounds the item page used for metadata probing and inference
const DefaultSampleSize = 100

// ErrOverrideFile is returned when an explicit schema file cannot be used
var ErrOverrideFile = errors.New("schema file")

// Options selects the list and how resolution may use local state
type Options struct {
	ListID       string
	SchemaPath   string // explicit override file; bypasses the cache entirely
	ForceRefresh bool   // skip the cache tier
}

// Resolver runs the discovery chain
type Resolver struct {
	Client     listservice.Client
	Cache      *schemacache.Store
	SampleSize int
	Logger     *slog.Logger
}

// New creates a resolver with the default sample size
func New(client listservice.Client, cache *schemacache.Store, logger *slog.Logger) *Resolver {
	return &Resolver{Client: client, Cache: cache, SampleSize: DefaultSampleSize, Logger: logger}
}

// Resolve returns the schema index for the list. A nil index with a nil error
// means no source produced any column; callers that can work without a schema
// may continue.
func (r *Resolver) Resolve(ctx context.Context, opts Options) (*schema.Index, error) {
	if strings.TrimSpace(opts.ListID) == "" && opts.SchemaPath == "" {
		return nil, fmt.Errorf("resolve schema: list id is required")
	}

	st := &state{opts: opts}
	for _, s := range r.strategies() {
		if s.skip != nil && s.skip(st) {
			continue
		}

		attempt := s.run(ctx, st)
		switch attempt.Outcome {
		case Success:
			if attempt.Index != nil {
				r.logger().Debug("schema resolved", "list_id", opts.ListID, "source", s.name,
					"columns", len(attempt.Index.Columns()), "provisional", attempt.Index.Provisional())
			}
			return attempt.Index, nil
		case Fatal:
			return nil, fmt.Errorf("resolve schema via %s: %w", s.name, attempt.Err)
		default:
			r.logger().Debug("schema source yielded nothing", "list_id", opts.ListID, "source", s.name, "reason", attempt.Err)
		}
	}
	return nil, nil
}

// ObserveItems folds the shapes of freshly read items into the cache.
// Failures are logged and dropped so a cache problem never breaks the read.
func (r *Resolver) ObserveItems(ctx context.Context, listID string, items []models.Item) {
	if r.Cache == nil || len(items) == 0 {
		return
	}
	inferred := schema.InferFromItems(listID, items)
	if len(inferred.Columns) == 0 {
		return
	}
	if _, err := r.Cache.Update(listID, inferred); err != nil {
		r.logger().Warn("failed to update schema cache from observed items", "list_id", listID, "error", err)
	}
}

// ============================================================================
// STRATEGIES
// ============================================================================

// state is shared by the strategies of one Resolve call
type state struct {
	opts    Options
	sample  []models.Item
	sampled bool
}

type strategy struct {
	name string
	skip func(*state) bool
	run  func(context.Context, *state) Attempt
}

func (r *Resolver) strategies() []strategy {
	return []strategy{
		{name: "override", skip: func(st *state) bool { return st.opts.SchemaPath == "" }, run: r.fromOverride},
		{name: "cache", skip: func(st *state) bool { return st.opts.ForceRefresh || st.opts.SchemaPath != "" }, run: r.fromCache},
		{name: "describe", run: r.fromDescribe},
		{name: "item metadata", run: r.fromItemMetadata},
		{name: "inference", run: r.fromInference},
	}
}

func (r *Resolver) fromOverride(_ context.Context, st *state) Attempt {
	path := st.opts.SchemaPath
	data, err := os.ReadFile(path)
	if err != nil {
		return fatal(fmt.Errorf("%w: %w", ErrOverrideFile, err))
	}

	var raw any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return fatal(fmt.Errorf("%w %s: %w", ErrOverrideFile, path, err))
	}

	sch, err := schema.Normalize(st.opts.ListID, raw)
	if err != nil {
		return fatal(fmt.Errorf("%w %s: %w", ErrOverrideFile, path, err))
	}
	return success(sch)
}

func (r *Resolver) fromCache(_ context.Context, st *state) Attempt {
	if r.Cache == nil {
		return next(nil)
	}
	cached, err := r.Cache.Load(st.opts.ListID)
	if err != nil {
		return fatal(err)
	}
	if cached == nil {
		return next(errors.New("not cached"))
	}
	return success(*cached)
}

func (r *Resolver) fromDescribe(ctx context.Context, st *state) Attempt {
	resp, err := r.Client.Call(ctx, listservice.MethodDescribe, map[string]any{"list_id": st.opts.ListID})
	if err != nil {
		if listservice.IsMethodUnsupported(err) {
			return next(err)
		}
		return fatal(err)
	}
	if !schema.HasColumnList(resp) {
		return next(errors.New("describe returned no columns"))
	}
	return r.confirmed(st.opts.ListID, resp)
}

func (r *Resolver) fromItemMetadata(ctx context.Context, st *state) Attempt {
	items, err := r.sample(ctx, st)
	if err != nil {
		if listservice.IsMethodUnsupported(err) {
			return next(err)
		}
		return fatal(err)
	}
	if len(items) == 0 || items[0].ID == "" {
		return next(errors.New("no sample item"))
	}

	detail, err := listservice.GetItem(ctx, r.Client, st.opts.ListID, items[0].ID)
	if err != nil {
		if listservice.IsMethodUnsupported(err) {
			return next(err)
		}
		return fatal(err)
	}
	if !schema.HasColumnList(detail.Raw) {
		return next(errors.New("item detail carries no list metadata"))
	}
	return r.confirmed(st.opts.ListID, detail.Raw)
}

func (r *Resolver) fromInference(ctx context.Context, st *state) Attempt {
	items, err := r.sample(ctx, st)
	if err != nil && !listservice.IsMethodUnsupported(err) {
		return fatal(err)
	}

	inferred := schema.InferFromItems(st.opts.ListID, items)
	if len(inferred.Columns) == 0 {
		r.logger().Info("no schema source produced columns", "list_id", st.opts.ListID)
		return Attempt{Outcome: Success}
	}

	if r.Cache == nil {
		return success(inferred)
	}
	merged, err := r.Cache.Update(st.opts.ListID, inferred)
	if err != nil {
		return fatal(err)
	}
	return success(merged)
}

// confirmed normalizes a service-confirmed representation and overwrites the cache with it
func (r *Resolver) confirmed(listID string, raw any) Attempt {
	sch, err := schema.Normalize(listID, raw)
	if err != nil {
		return fatal(err)
	}
	sch.Provisional = false
	if r.Cache != nil {
		if err := r.Cache.Save(listID, sch); err != nil {
			return fatal(err)
		}
	}
	return success(sch)
}

// sample lists at most SampleSize items once per Resolve call
func (r *Resolver) sample(ctx context.Context, st *state) ([]models.Item, error) {
	if st.sampled {
		return st.sample, nil
	}
	st.sampled = true

	limit := r.SampleSize
	if limit <= 0 {
		limit = DefaultSampleSize
	}
	items, err := r.Client.ListItems(ctx, st.opts.ListID, limit)
	if err != nil {
		return nil, err
	}
	st.sample = items
	return items, nil
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
