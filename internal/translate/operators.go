package translate

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/coregx/criteria/internal/dialects"
	"github.com/coregx/criteria/internal/tree"
)

// FragmentBuilder maps one filter (field, operator, value) to a SQL condition
// fragment with named parameter bindings. It holds no per-query state beyond
// the parameter manager it draws names from, so one builder serves exactly one
// translation.
type FragmentBuilder struct {
	dialect dialects.Dialect
	params  *ParameterManager
}

// NewFragmentBuilder creates a fragment builder drawing parameter names from
// the given manager.
func NewFragmentBuilder(dialect dialects.Dialect, params *ParameterManager) *FragmentBuilder {
	return &FragmentBuilder{dialect: dialect, params: params}
}

// Build renders a single filter under the given entity alias.
//
// The switch is exhaustive over the closed tree.Operator set. The default
// branch is unreachable for operators declared in tree; it exists so that an
// operator added without a rendering fails loudly instead of silently.
func (b *FragmentBuilder) Build(alias string, f *tree.Filter) (Fragment, error) {
	switch f.Operator {
	case tree.OpEquals:
		return b.compare(alias, f, "=")
	case tree.OpNotEquals:
		return b.compare(alias, f, "<>")
	case tree.OpGreaterThan:
		return b.compare(alias, f, ">")
	case tree.OpGreaterThanOrEquals:
		return b.compare(alias, f, ">=")
	case tree.OpLessThan:
		return b.compare(alias, f, "<")
	case tree.OpLessThanOrEquals:
		return b.compare(alias, f, "<=")

	case tree.OpLike:
		return b.like(alias, f, "LIKE", "", ""), nil
	case tree.OpNotLike:
		return b.like(alias, f, "NOT LIKE", "", ""), nil
	case tree.OpContainsText:
		return b.like(alias, f, b.dialect.CaseInsensitiveLike(), "%", "%"), nil
	case tree.OpNotContainsText:
		return b.like(alias, f, "NOT "+b.dialect.CaseInsensitiveLike(), "%", "%"), nil
	case tree.OpStartsWith:
		return b.like(alias, f, b.dialect.CaseInsensitiveLike(), "", "%"), nil
	case tree.OpEndsWith:
		return b.like(alias, f, b.dialect.CaseInsensitiveLike(), "%", ""), nil
	case tree.OpEqualsIgnoreCase:
		return b.like(alias, f, b.dialect.CaseInsensitiveLike(), "", ""), nil
	case tree.OpNotEqualsIgnoreCase:
		return b.like(alias, f, "NOT "+b.dialect.CaseInsensitiveLike(), "", ""), nil

	case tree.OpIsNull:
		return Fragment{SQL: b.column(alias, f.Field) + " IS NULL"}, nil
	case tree.OpIsNotNull:
		return Fragment{SQL: b.column(alias, f.Field) + " IS NOT NULL"}, nil

	case tree.OpIn:
		return b.in(alias, f, false)
	case tree.OpNotIn:
		return b.in(alias, f, true)
	case tree.OpBetween:
		return b.between(alias, f, "BETWEEN")
	case tree.OpNotBetween:
		return b.between(alias, f, "NOT BETWEEN")

	case tree.OpMatchesRegex:
		return b.regex(alias, f)

	case tree.OpSetContains:
		return b.setContains(alias, f, false)
	case tree.OpSetNotContains:
		return b.setContains(alias, f, true)
	case tree.OpSetContainsAny:
		return b.setContainsList(alias, f, false, " OR ")
	case tree.OpSetContainsAll:
		return b.setContainsList(alias, f, false, " AND ")
	case tree.OpSetNotContainsAny:
		return b.setContainsList(alias, f, true, " AND ")
	case tree.OpSetNotContainsAll:
		return b.setContainsList(alias, f, true, " OR ")

	case tree.OpDocContains:
		return b.docContains(alias, f, false)
	case tree.OpDocNotContains:
		return b.docContains(alias, f, true)
	case tree.OpDocValueEquals:
		return b.docValue(alias, f, false)
	case tree.OpDocValueNotEquals:
		return b.docValue(alias, f, true)
	case tree.OpDocArrayContains:
		return b.docArrayContains(alias, f, false)
	case tree.OpDocArrayNotContains:
		return b.docArrayContains(alias, f, true)
	case tree.OpDocArrayContainsAny:
		return b.docArrayContainsList(alias, f, false, " OR ")
	case tree.OpDocArrayContainsAll:
		return b.docArrayContainsList(alias, f, false, " AND ")
	case tree.OpDocArrayNotContainsAny:
		return b.docArrayContainsList(alias, f, true, " AND ")
	case tree.OpDocArrayNotContainsAll:
		return b.docArrayContainsList(alias, f, true, " OR ")

	case tree.OpArrayEquals:
		return b.arrayEquals(alias, f, false)
	case tree.OpArrayNotEquals:
		return b.arrayEquals(alias, f, true)
	case tree.OpArrayEqualsUnordered:
		return b.arrayEqualsUnordered(alias, f, false)
	case tree.OpArrayNotEqualsUnordered:
		return b.arrayEqualsUnordered(alias, f, true)

	default:
		return Fragment{}, fmt.Errorf("%w: %s for field %q", ErrUnknownOperator, f.Operator, f.Field)
	}
}

// column renders an alias-qualified, quoted column reference.
func (b *FragmentBuilder) column(alias, field string) string {
	if alias == "" {
		return b.dialect.QuoteIdentifier(field)
	}
	return b.dialect.QuoteIdentifier(alias) + "." + b.dialect.QuoteIdentifier(field)
}

func (b *FragmentBuilder) compare(alias string, f *tree.Filter, op string) (Fragment, error) {
	name := b.params.Next()
	frag := newFragment(b.column(alias, f.Field) + " " + op + " " + token(name))
	return frag.bind(name, f.Value), nil
}

func (b *FragmentBuilder) like(alias string, f *tree.Filter, op, left, right string) Fragment {
	value := f.Value
	if left != "" || right != "" {
		value = left + stringValue(f.Value) + right
	}
	name := b.params.Next()
	frag := newFragment(b.column(alias, f.Field) + " " + op + " " + token(name))
	return frag.bind(name, value)
}

func (b *FragmentBuilder) in(alias string, f *tree.Filter, not bool) (Fragment, error) {
	values, err := sliceValue(f)
	if err != nil {
		return Fragment{}, err
	}
	col := b.column(alias, f.Field)
	if len(values) == 0 {
		// Empty IN is always false, empty NOT IN always true. Both render an
		// explicit constant so the condition keeps its place inside groups.
		if not {
			return Fragment{SQL: "1 = 1"}, nil
		}
		return Fragment{SQL: "1 = 0"}, nil
	}
	op := "IN"
	if not {
		op = "NOT IN"
	}
	// The whole list binds as one array parameter; the backend builder
	// expands it into positional placeholders at assembly time.
	name := b.params.Next()
	frag := newFragment(col + " " + op + " (" + token(name) + ")")
	return frag.bind(name, values), nil
}

func (b *FragmentBuilder) between(alias string, f *tree.Filter, op string) (Fragment, error) {
	bounds, err := sliceValue(f)
	if err != nil {
		return Fragment{}, err
	}
	if len(bounds) != 2 {
		return Fragment{}, fmt.Errorf("%w: %s on %q requires exactly two bounds, got %d",
			ErrMalformedPayload, f.Operator, f.Field, len(bounds))
	}
	low := b.params.Next()
	high := b.params.Next()
	frag := newFragment(b.column(alias, f.Field) + " " + op + " " + token(low) + " AND " + token(high))
	return frag.bind(low, bounds[0]).bind(high, bounds[1]), nil
}

func (b *FragmentBuilder) regex(alias string, f *tree.Filter) (Fragment, error) {
	op, ok := b.dialect.RegexpOperator()
	if !ok {
		return Fragment{}, fmt.Errorf("%w: %s", ErrDialectCapability, f.Operator)
	}
	name := b.params.Next()
	frag := newFragment(b.column(alias, f.Field) + " " + op + " " + token(name))
	return frag.bind(name, f.Value), nil
}

// setContains renders native-array membership: value = ANY(column).
// The negated form treats a NULL array as "does not contain".
func (b *FragmentBuilder) setContains(alias string, f *tree.Filter, not bool) (Fragment, error) {
	if !b.dialect.SupportsArrayOps() {
		return Fragment{}, fmt.Errorf("%w: %s", ErrDialectCapability, f.Operator)
	}
	col := b.column(alias, f.Field)
	name := b.params.Next()
	if not {
		frag := newFragment("(" + col + " IS NULL OR NOT (" + token(name) + " = ANY(" + col + ")))")
		return frag.bind(name, f.Value), nil
	}
	frag := newFragment(token(name) + " = ANY(" + col + ")")
	return frag.bind(name, f.Value), nil
}

// setContainsList combines per-element membership checks with the given
// connective. Negated forms follow De Morgan: the per-element check and the
// combinator invert together, and a NULL array matches the negated case.
func (b *FragmentBuilder) setContainsList(alias string, f *tree.Filter, not bool, connective string) (Fragment, error) {
	if !b.dialect.SupportsArrayOps() {
		return Fragment{}, fmt.Errorf("%w: %s", ErrDialectCapability, f.Operator)
	}
	elems, err := sliceValue(f)
	if err != nil {
		return Fragment{}, err
	}
	if len(elems) == 0 {
		return Fragment{}, fmt.Errorf("%w: %s on %q requires at least one element",
			ErrMalformedPayload, f.Operator, f.Field)
	}
	col := b.column(alias, f.Field)
	frag := newFragment("")
	parts := make([]string, 0, len(elems))
	for _, elem := range elems {
		name := b.params.Next()
		member := token(name) + " = ANY(" + col + ")"
		if not {
			member = "NOT (" + member + ")"
		}
		parts = append(parts, member)
		frag = frag.bind(name, elem)
	}
	combined := strings.Join(parts, connective)
	if not {
		frag.SQL = "(" + col + " IS NULL OR (" + combined + "))"
	} else {
		frag.SQL = "(" + combined + ")"
	}
	return frag, nil
}

// docContains renders deep structural containment of a partial document.
// Multi-key documents split into one containment per key, combined with AND,
// or with OR for the negated form (De Morgan).
func (b *FragmentBuilder) docContains(alias string, f *tree.Filter, not bool) (Fragment, error) {
	if !b.dialect.SupportsDocumentOps() {
		return Fragment{}, fmt.Errorf("%w: %s", ErrDialectCapability, f.Operator)
	}
	doc, err := documentValue(f)
	if err != nil {
		return Fragment{}, err
	}
	col := b.column(alias, f.Field)
	frag := newFragment("")
	parts := make([]string, 0, len(doc))
	for _, key := range sortedKeys(doc) {
		name := b.params.Next()
		serialized, err := jsonValue(map[string]interface{}{key: doc[key]})
		if err != nil {
			return Fragment{}, fmt.Errorf("%w: %s on %q: %v", ErrMalformedPayload, f.Operator, f.Field, err)
		}
		check := col + " @> " + token(name)
		if not {
			check = "(" + col + " IS NULL OR NOT (" + check + "))"
		}
		parts = append(parts, check)
		frag = frag.bind(name, serialized)
	}
	connective := " AND "
	if not {
		connective = " OR "
	}
	if len(parts) == 1 {
		frag.SQL = parts[0]
	} else {
		frag.SQL = "(" + strings.Join(parts, connective) + ")"
	}
	return frag, nil
}

// docValue renders path-scoped text extraction and comparison. The inequality
// variant only matches keys that exist and differ: an absent path never
// satisfies it.
func (b *FragmentBuilder) docValue(alias string, f *tree.Filter, not bool) (Fragment, error) {
	if !b.dialect.SupportsDocumentOps() {
		return Fragment{}, fmt.Errorf("%w: %s", ErrDialectCapability, f.Operator)
	}
	col, path, err := b.docColumn(alias, f)
	if err != nil {
		return Fragment{}, err
	}
	name := b.params.Next()
	frag := newFragment("").bind(name, stringValue(f.Value))
	if not {
		frag.SQL = "(" + col + " #> " + path + " IS NOT NULL AND " + col + " #>> " + path + " <> " + token(name) + ")"
	} else {
		frag.SQL = col + " #>> " + path + " = " + token(name)
	}
	return frag, nil
}

// docArrayContains checks that the array nested at the filter's path contains
// one element. The element is wrapped into the nested document shape implied
// by the path before the containment check.
func (b *FragmentBuilder) docArrayContains(alias string, f *tree.Filter, not bool) (Fragment, error) {
	if !b.dialect.SupportsDocumentOps() {
		return Fragment{}, fmt.Errorf("%w: %s", ErrDialectCapability, f.Operator)
	}
	col, path := b.splitDocField(alias, f.Field)
	serialized, err := jsonValue(nestedShape(path, []interface{}{f.Value}))
	if err != nil {
		return Fragment{}, fmt.Errorf("%w: %s on %q: %v", ErrMalformedPayload, f.Operator, f.Field, err)
	}
	name := b.params.Next()
	frag := newFragment("").bind(name, serialized)
	if not {
		frag.SQL = "(" + col + " IS NULL OR NOT (" + col + " @> " + token(name) + "))"
	} else {
		frag.SQL = col + " @> " + token(name)
	}
	return frag, nil
}

// docArrayContainsList combines per-element nested containment checks with
// the given connective, applying the same De Morgan and NULL conventions as
// the native-array list operators.
func (b *FragmentBuilder) docArrayContainsList(alias string, f *tree.Filter, not bool, connective string) (Fragment, error) {
	if !b.dialect.SupportsDocumentOps() {
		return Fragment{}, fmt.Errorf("%w: %s", ErrDialectCapability, f.Operator)
	}
	elems, err := sliceValue(f)
	if err != nil {
		return Fragment{}, err
	}
	if len(elems) == 0 {
		return Fragment{}, fmt.Errorf("%w: %s on %q requires at least one element",
			ErrMalformedPayload, f.Operator, f.Field)
	}
	col, path := b.splitDocField(alias, f.Field)
	frag := newFragment("")
	parts := make([]string, 0, len(elems))
	for _, elem := range elems {
		serialized, err := jsonValue(nestedShape(path, []interface{}{elem}))
		if err != nil {
			return Fragment{}, fmt.Errorf("%w: %s on %q: %v", ErrMalformedPayload, f.Operator, f.Field, err)
		}
		name := b.params.Next()
		check := col + " @> " + token(name)
		if not {
			check = "NOT (" + check + ")"
		}
		parts = append(parts, check)
		frag = frag.bind(name, serialized)
	}
	combined := strings.Join(parts, connective)
	if not {
		frag.SQL = "(" + col + " IS NULL OR (" + combined + "))"
	} else {
		frag.SQL = "(" + combined + ")"
	}
	return frag, nil
}

// arrayEquals renders order-sensitive array equality against the serialized
// array at the top level or at a nested path.
func (b *FragmentBuilder) arrayEquals(alias string, f *tree.Filter, not bool) (Fragment, error) {
	if !b.dialect.SupportsDocumentOps() {
		return Fragment{}, fmt.Errorf("%w: %s", ErrDialectCapability, f.Operator)
	}
	elems, err := sliceValue(f)
	if err != nil {
		return Fragment{}, err
	}
	col, path := b.splitDocField(alias, f.Field)
	target := col
	if len(path) > 0 {
		target = col + " #> " + pathLiteral(path)
	}
	serialized, err := jsonValue(elems)
	if err != nil {
		return Fragment{}, fmt.Errorf("%w: %s on %q: %v", ErrMalformedPayload, f.Operator, f.Field, err)
	}
	name := b.params.Next()
	frag := newFragment("").bind(name, serialized)
	if not {
		frag.SQL = "(" + col + " IS NULL OR NOT (" + target + " = " + token(name) + "))"
	} else {
		frag.SQL = target + " = " + token(name)
	}
	return frag, nil
}

// arrayEqualsUnordered renders set-wise array equality: containment in both
// directions against the nested or top-level array.
func (b *FragmentBuilder) arrayEqualsUnordered(alias string, f *tree.Filter, not bool) (Fragment, error) {
	if !b.dialect.SupportsDocumentOps() {
		return Fragment{}, fmt.Errorf("%w: %s", ErrDialectCapability, f.Operator)
	}
	elems, err := sliceValue(f)
	if err != nil {
		return Fragment{}, err
	}
	col, path := b.splitDocField(alias, f.Field)
	target := col
	if len(path) > 0 {
		target = col + " #> " + pathLiteral(path)
	}
	serialized, err := jsonValue(elems)
	if err != nil {
		return Fragment{}, fmt.Errorf("%w: %s on %q: %v", ErrMalformedPayload, f.Operator, f.Field, err)
	}
	superset := b.params.Next()
	subset := b.params.Next()
	both := target + " @> " + token(superset) + " AND " + target + " <@ " + token(subset)
	frag := newFragment("").bind(superset, serialized).bind(subset, serialized)
	if not {
		frag.SQL = "(" + col + " IS NULL OR NOT (" + both + "))"
	} else {
		frag.SQL = "(" + both + ")"
	}
	return frag, nil
}

// docColumn resolves a document filter's column and path literal, requiring a
// non-empty path.
func (b *FragmentBuilder) docColumn(alias string, f *tree.Filter) (col, path string, err error) {
	column, segments := b.splitDocField(alias, f.Field)
	if len(segments) == 0 {
		return "", "", fmt.Errorf("%w: %s on %q requires a document path",
			ErrMalformedPayload, f.Operator, f.Field)
	}
	return column, pathLiteral(segments), nil
}

// splitDocField splits "column.path.to.key" into the quoted, alias-qualified
// column and its path segments.
func (b *FragmentBuilder) splitDocField(alias, field string) (string, []string) {
	parts := strings.Split(field, ".")
	return b.column(alias, parts[0]), parts[1:]
}

// pathSegmentRegex strips everything but word characters from document path
// segments before they are embedded as literals.
var pathSegmentRegex = regexp.MustCompile(`\W`)

// pathLiteral renders a document path literal like '{a,b}'. Segments are
// sanitized since they embed into SQL text rather than binding as parameters.
func pathLiteral(segments []string) string {
	cleaned := make([]string, len(segments))
	for i, seg := range segments {
		cleaned[i] = pathSegmentRegex.ReplaceAllString(seg, "")
	}
	return "'{" + strings.Join(cleaned, ",") + "}'"
}

// nestedShape wraps a value into the document shape implied by a path:
// nestedShape(["a","b"], x) yields {"a":{"b":x}}.
func nestedShape(path []string, value interface{}) interface{} {
	for i := len(path) - 1; i >= 0; i-- {
		value = map[string]interface{}{path[i]: value}
	}
	return value
}

// jsonValue serializes a value to the backend's structured-document format.
func jsonValue(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// stringValue renders a filter value as text for pattern and path operators.
func stringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// sliceValue coerces a filter value into an element slice, failing explicitly
// on scalar payloads where a list is required.
func sliceValue(f *tree.Filter) ([]interface{}, error) {
	if elems, ok := f.Value.([]interface{}); ok {
		return elems, nil
	}
	rv := reflect.ValueOf(f.Value)
	if f.Value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Type() == reflect.TypeOf([]byte(nil)) {
		return nil, fmt.Errorf("%w: %s on %q requires a list value, got %T",
			ErrMalformedPayload, f.Operator, f.Field, f.Value)
	}
	elems := make([]interface{}, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}
	return elems, nil
}

// documentValue coerces a filter value into a non-empty partial document.
func documentValue(f *tree.Filter) (map[string]interface{}, error) {
	doc, ok := f.Value.(map[string]interface{})
	if !ok || len(doc) == 0 {
		return nil, fmt.Errorf("%w: %s on %q requires a non-empty document value, got %T",
			ErrMalformedPayload, f.Operator, f.Field, f.Value)
	}
	return doc, nil
}

// sortedKeys returns map keys in sorted order for deterministic SQL generation.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
