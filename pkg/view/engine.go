package view

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/datagate-io/datagate/pkg/apperr"
	"github.com/datagate-io/datagate/pkg/filter"
	"github.com/datagate-io/datagate/pkg/qb"
	"github.com/datagate-io/datagate/pkg/query"
)

// Engine resolves stored views and executes them against the data service.
type Engine struct {
	client qb.Client
	store  Store
	logger *zap.Logger
}

func NewEngine(client qb.Client, store Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{client: client, store: store, logger: logger}
}

// Run fetches a view definition by id and executes it. Non-public views are
// logged at warning level but not denied: authorization is not enforced at
// this layer.
func (e *Engine) Run(ctx context.Context, viewID string, filters map[string]any, opts query.Options) (qb.Result, error) {
	def, err := e.store.GetViewDefinition(ctx, viewID)
	if err != nil {
		return qb.Result{}, err
	}

	if !def.IsPublic {
		e.logger.Warn("executing non-public view without authorization check",
			zap.String("view_id", def.ID),
			zap.String("view_name", def.Name))
	}

	return e.Execute(ctx, def, filters, opts)
}

// Execute builds the joined base query from the definition's join chain,
// applies allowlisted caller filters as equality conditions, layers
// pagination and ordering on top, and executes exactly once.
func (e *Engine) Execute(ctx context.Context, def *Definition, filters map[string]any, opts query.Options) (qb.Result, error) {
	base := def.BaseTable()
	if base == "" {
		return qb.Result{}, apperr.New(apperr.QueryExecutionFailed, "view",
			"view %q has an empty join definition", def.ID)
	}

	q := e.client.From(base)

	for _, join := range def.JoinDefinition {
		fromField := join.From.Table + "." + join.From.Field
		switch strings.ToLower(join.JoinType) {
		case "left":
			q = q.LeftJoin(join.To.Table, fromField, join.To.Field)
		case "inner":
			q = q.InnerJoin(join.To.Table, fromField, join.To.Field)
		default:
			return qb.Result{}, apperr.New(apperr.UnsupportedJoinType, "view",
				"unsupported join type %q in view %q", join.JoinType, def.ID)
		}
	}

	// allowlist filtering: keys outside allowed_filters are dropped, not
	// rejected
	for _, key := range sortedKeys(filters) {
		qualified, ok := def.ResolveFilter(key)
		if !ok {
			e.logger.Debug("dropping filter not in view allowlist",
				zap.String("view_id", def.ID),
				zap.String("filter", key))
			continue
		}
		q = q.Eq(qualified, filter.Coerce(filters[key]))
	}

	q = opts.Apply(q)

	result, err := q.Execute(ctx)
	if err != nil {
		e.logger.Error("view execution failed", zap.String("view_id", def.ID), zap.Error(err))
		return qb.Result{}, apperr.Wrap(apperr.QueryExecutionFailed, "view", err)
	}
	return result, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
