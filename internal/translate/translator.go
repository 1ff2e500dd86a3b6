package translate

import (
	"context"

	"go.opentelemetry.io/otel/codes"

	"github.com/coregx/criteria/internal/dialects"
	"github.com/coregx/criteria/internal/logger"
	"github.com/coregx/criteria/internal/tracer"
	"github.com/coregx/criteria/internal/tree"
)

// Backend is the query-builder collaborator that receives the translation
// output as a sequence of calls: bracketed condition fragments with parameter
// maps, joins, select/order lists, pagination, and one deferred
// identifier-loading request.
type Backend interface {
	AddWhere(condition string, params map[string]interface{})
	AndWhere(condition string, params map[string]interface{})
	OrWhere(condition string, params map[string]interface{})
	AddInnerJoin(target, alias, condition string, params map[string]interface{})
	AddLeftJoin(target, alias, condition string, params map[string]interface{})
	AddSelect(fields []string)
	AddOrderBy(field string, direction tree.Direction, nulls tree.NullPlacement)
	SetLimit(limit int)
	SetOffset(offset int)
	LoadRelatedIdentifiers(paths []string)
}

// Translator walks an expression tree and drives a Backend through the
// translation: root WHERE, joins, and the final cursor/order/select assembly.
//
// A Translator owns its ParameterManager and QueryState and serves one
// translation at a time; both are reset at the start of every Translate call
// so state can never leak between translations. Concurrent translations each
// need their own Translator, no locking beyond that.
type Translator struct {
	dialect   dialects.Dialect
	logger    logger.Logger
	tracer    tracer.Tracer
	sanitizer *logger.Sanitizer
	params    *ParameterManager
	state     *QueryState
}

// Option is a functional option for configuring a Translator.
type Option func(*Translator)

// WithLogger sets the structured logger used for translation debug output.
func WithLogger(l logger.Logger) Option {
	return func(t *Translator) {
		t.logger = l
	}
}

// WithTracer sets the tracer used to span each translation.
func WithTracer(tr tracer.Tracer) Option {
	return func(t *Translator) {
		t.tracer = tr
	}
}

// New creates a translator for the given dialect. Logging and tracing default
// to no-ops.
func New(dialect dialects.Dialect, opts ...Option) *Translator {
	t := &Translator{
		dialect:   dialect,
		logger:    &logger.NoopLogger{},
		tracer:    &tracer.NoopTracer{},
		sanitizer: logger.NewSanitizer(nil),
		params:    NewParameterManager(),
		state:     NewQueryState(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate renders the criteria tree against the backend. The pass is a
// single synchronous depth-first traversal, pre-order for joins, with
// finalization (cursor, order, select, deferred identifier loading) strictly
// last.
func (t *Translator) Translate(ctx context.Context, c *tree.Criteria, backend Backend) error {
	_, span := t.tracer.StartSpan(ctx, "criteria.translate")
	defer span.End()

	t.params.Reset()
	t.state.Reset()

	fragments := NewFragmentBuilder(t.dialect, t.params)
	conditions := NewConditionBuilder(fragments)
	joins := NewJoinApplier(conditions, t.state)
	joins.BindAlias(c.Alias)

	// Root-level select/order/cursor bookkeeping.
	t.state.AddSelect(c.Alias)
	if c.IDField != "" {
		t.state.AddSelect(c.Alias + "." + c.IDField)
	}
	for _, field := range c.Fields {
		t.state.AddSelect(c.Alias + "." + field)
	}
	for _, order := range c.Orders {
		t.state.AddOrder(c.Alias, order)
	}
	if err := t.state.AddCursor(c.Alias, c.Cursor); err != nil {
		return t.fail(span, err)
	}

	where, err := conditions.BuildGroup(c.Alias, c.Root)
	if err != nil {
		return t.fail(span, err)
	}
	if !where.Empty() {
		backend.AddWhere(where.SQL, where.Params)
		t.state.MarkWhere()
	}

	if c.Take >= 0 {
		backend.SetLimit(c.Take)
	}

	for _, join := range c.Joins {
		if err := joins.Apply(backend, c.Alias, "", join); err != nil {
			return t.fail(span, err)
		}
	}

	// Cursor and offset pagination are mutually exclusive, and joined criteria
	// may carry the cursor, so the offset decision waits for the join pass.
	if c.Skip >= 0 && !t.state.HasCursor() {
		backend.SetOffset(c.Skip)
	}

	if err := t.finalize(backend, conditions); err != nil {
		return t.fail(span, err)
	}

	span.SetAttributes(tracer.TranslationAttributes(c.Alias, len(c.Joins), t.params.Count())...)
	span.SetStatus(codes.Ok, "")
	t.logger.Debug("criteria translated",
		"alias", c.Alias,
		"where", where.SQL,
		"params", t.sanitizer.FormatParams(t.sanitizer.MaskParams(where.SQL, where.Params)),
		"joins", len(c.Joins),
		"parameters", t.params.Count(),
		"selects", len(t.state.Selects()),
	)
	return nil
}

// finalize applies the accumulated cursor condition, the global ORDER BY
// sequence, the SELECT list, and the combined identifier-loading request, in
// that order.
func (t *Translator) finalize(backend Backend, conditions *ConditionBuilder) error {
	fields, compare, err := t.state.MergedCursor()
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		cursor, err := conditions.BuildCursor(fields, compare)
		if err != nil {
			return err
		}
		if !cursor.Empty() {
			if t.state.HasWhere() {
				backend.AndWhere(cursor.SQL, cursor.Params)
			} else {
				backend.AddWhere(cursor.SQL, cursor.Params)
				t.state.MarkWhere()
			}
			t.state.MarkCursorApplied()
		}
	}

	for _, entry := range t.state.SortedOrders() {
		backend.AddOrderBy(entry.Alias+"."+entry.Order.Field, entry.Order.Direction, entry.Order.Nulls)
	}

	if selects := t.state.Selects(); len(selects) > 0 {
		backend.AddSelect(selects)
	}

	if paths := t.state.DeferredPaths(); len(paths) > 0 {
		backend.LoadRelatedIdentifiers(paths)
	}
	return nil
}

// fail records the error on the span and log before surfacing it. Translation
// errors are deterministic for a given tree and are never retried.
func (t *Translator) fail(span tracer.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	t.logger.Error("criteria translation failed", "error", err)
	return err
}
