// Package criteria translates pre-built query-expression trees (filters,
// logical groups, relationship joins, ordering, keyset pagination) into
// parameterized SQL for PostgreSQL, MySQL, and SQLite. It preserves logical
// precedence through bracketing, produces injection-safe parameter bindings,
// resolves join alias collisions, and renders null-aware composite cursors,
// with OpenTelemetry tracing out of the box.
package criteria

import (
	"github.com/coregx/criteria/internal/dialects"
	"github.com/coregx/criteria/internal/logger"
	"github.com/coregx/criteria/internal/sqlbuilder"
	"github.com/coregx/criteria/internal/tracer"
	"github.com/coregx/criteria/internal/translate"
	"github.com/coregx/criteria/internal/tree"
)

type (
	// Criteria is the root of an expression tree.
	Criteria = tree.Criteria
	// Node is either a *Filter or a *FilterGroup.
	Node = tree.Node
	// Filter is a single field comparison.
	Filter = tree.Filter
	// FilterGroup is a logical AND/OR container of filters and nested groups.
	FilterGroup = tree.FilterGroup
	// Operator identifies the comparison kind of a Filter.
	Operator = tree.Operator
	// Join describes one relationship join.
	Join = tree.Join
	// PivotInfo describes the intermediate table of a many-to-many relation.
	PivotInfo = tree.PivotInfo
	// Order is a single ORDER BY entry.
	Order = tree.Order
	// Cursor describes keyset pagination relative to the last-seen row.
	Cursor = tree.Cursor
	// CursorPart is one field of a keyset cursor.
	CursorPart = tree.CursorPart

	// Translator walks an expression tree and drives a Backend.
	Translator = translate.Translator
	// Option is a functional option for configuring a Translator.
	Option = translate.Option
	// Backend receives the translation output.
	Backend = translate.Backend
	// Fragment is a SQL condition with its named parameter bindings.
	Fragment = translate.Fragment

	// Builder is the bundled SQL backend.
	Builder = sqlbuilder.Builder
	// Schema maps "table.relation" keys to relation descriptors.
	Schema = sqlbuilder.Schema
	// Relation describes how a named relationship maps to its target table.
	Relation = sqlbuilder.Relation
	// Pivot describes the intermediate table of a many-to-many relation.
	Pivot = sqlbuilder.Pivot

	// Logger is the structured logging interface accepted by WithLogger.
	Logger = logger.Logger
	// Tracer is the tracing interface accepted by WithTracer.
	Tracer = tracer.Tracer
	// Dialect defines database-specific rendering behaviors.
	Dialect = dialects.Dialect
)

// Logical connectives, directions and enum values re-exported from the tree.
const (
	LogicalAnd = tree.LogicalAnd
	LogicalOr  = tree.LogicalOr

	Ascending  = tree.Ascending
	Descending = tree.Descending

	NullsDefault = tree.NullsDefault
	NullsFirst   = tree.NullsFirst
	NullsLast    = tree.NullsLast

	CursorAfter  = tree.CursorAfter
	CursorBefore = tree.CursorBefore

	ManyToOne  = tree.ManyToOne
	OneToMany  = tree.OneToMany
	ManyToMany = tree.ManyToMany

	SelectFull   = tree.SelectFull
	SelectIDOnly = tree.SelectIDOnly
	SelectNone   = tree.SelectNone

	JoinInner = tree.JoinInner
	JoinLeft  = tree.JoinLeft
	JoinFull  = tree.JoinFull
)

// Filter operators.
const (
	OpEquals                  = tree.OpEquals
	OpNotEquals               = tree.OpNotEquals
	OpGreaterThan             = tree.OpGreaterThan
	OpGreaterThanOrEquals     = tree.OpGreaterThanOrEquals
	OpLessThan                = tree.OpLessThan
	OpLessThanOrEquals        = tree.OpLessThanOrEquals
	OpLike                    = tree.OpLike
	OpNotLike                 = tree.OpNotLike
	OpContainsText            = tree.OpContainsText
	OpNotContainsText         = tree.OpNotContainsText
	OpStartsWith              = tree.OpStartsWith
	OpEndsWith                = tree.OpEndsWith
	OpEqualsIgnoreCase        = tree.OpEqualsIgnoreCase
	OpNotEqualsIgnoreCase     = tree.OpNotEqualsIgnoreCase
	OpIsNull                  = tree.OpIsNull
	OpIsNotNull               = tree.OpIsNotNull
	OpIn                      = tree.OpIn
	OpNotIn                   = tree.OpNotIn
	OpBetween                 = tree.OpBetween
	OpNotBetween              = tree.OpNotBetween
	OpMatchesRegex            = tree.OpMatchesRegex
	OpSetContains             = tree.OpSetContains
	OpSetNotContains          = tree.OpSetNotContains
	OpSetContainsAny          = tree.OpSetContainsAny
	OpSetContainsAll          = tree.OpSetContainsAll
	OpSetNotContainsAny       = tree.OpSetNotContainsAny
	OpSetNotContainsAll       = tree.OpSetNotContainsAll
	OpDocContains             = tree.OpDocContains
	OpDocNotContains          = tree.OpDocNotContains
	OpDocValueEquals          = tree.OpDocValueEquals
	OpDocValueNotEquals       = tree.OpDocValueNotEquals
	OpDocArrayContains        = tree.OpDocArrayContains
	OpDocArrayNotContains     = tree.OpDocArrayNotContains
	OpDocArrayContainsAny     = tree.OpDocArrayContainsAny
	OpDocArrayContainsAll     = tree.OpDocArrayContainsAll
	OpDocArrayNotContainsAny  = tree.OpDocArrayNotContainsAny
	OpDocArrayNotContainsAll  = tree.OpDocArrayNotContainsAll
	OpArrayEquals             = tree.OpArrayEquals
	OpArrayNotEquals          = tree.OpArrayNotEquals
	OpArrayEqualsUnordered    = tree.OpArrayEqualsUnordered
	OpArrayNotEqualsUnordered = tree.OpArrayNotEqualsUnordered
)

// Re-export translation errors so callers can match with errors.Is.
var (
	ErrUnknownOperator     = translate.ErrUnknownOperator
	ErrMalformedPayload    = translate.ErrMalformedPayload
	ErrMalformedCursor     = translate.ErrMalformedCursor
	ErrUnsupportedJoinKind = translate.ErrUnsupportedJoinKind
	ErrDialectCapability   = translate.ErrDialectCapability
)

// Re-export constructors and entry points.
var (
	New        = translate.New
	WithLogger = translate.WithLogger
	WithTracer = translate.WithTracer

	NewBuilder = sqlbuilder.NewBuilder

	GetDialect = dialects.GetDialect

	NewSlogAdapter = logger.NewSlogAdapter
	NewOtelTracer  = tracer.NewOtelTracer

	// Tree constructors
	NewCriteria  = tree.NewCriteria
	NewFilter    = tree.NewFilter
	Eq           = tree.Eq
	NotEq        = tree.NotEq
	GreaterThan  = tree.GreaterThan
	LessThan     = tree.LessThan
	In           = tree.In
	Between      = tree.Between
	IsNull       = tree.IsNull
	ContainsText = tree.ContainsText
	And          = tree.And
	Or           = tree.Or
)
