package tree

// Direction is a sort direction.
type Direction string

const (
	// Ascending sorts smallest first.
	Ascending Direction = "ASC"
	// Descending sorts largest first.
	Descending Direction = "DESC"
)

// NullPlacement controls where NULL values sort within an ORDER BY entry.
type NullPlacement int

const (
	// NullsDefault leaves null placement to the backend.
	NullsDefault NullPlacement = iota
	// NullsFirst sorts NULL values before all others.
	NullsFirst
	// NullsLast sorts NULL values after all others.
	NullsLast
)

// Order is a single ORDER BY entry. Sequence imposes one global ordering
// across root and joined entities even though entries are recorded per alias
// as the tree is visited.
type Order struct {
	Field     string
	Direction Direction
	Sequence  int
	Nulls     NullPlacement
}

// CursorCompare is the comparison shared by all parts of one keyset cursor.
type CursorCompare int

const (
	// CursorAfter selects rows past the stored values ("greater than").
	CursorAfter CursorCompare = iota
	// CursorBefore selects rows preceding the stored values ("less than").
	CursorBefore
)

// CursorPart is one field of a keyset cursor with the last-seen value.
type CursorPart struct {
	Field    string
	Value    interface{}
	Sequence int
}

// Cursor describes keyset pagination relative to the last-seen row. A cursor
// carries one or two parts; a composite cursor spanning the root and a joined
// entity is merged from the parts recorded under each alias, ordered by
// Sequence. All parts of a combined cursor must share the same Direction and
// Compare, and the combined cursor may hold at most two fields in total.
type Cursor struct {
	Direction Direction
	Compare   CursorCompare
	Parts     []CursorPart
}

// RelationKind classifies the relationship behind a join.
type RelationKind int

const (
	// ManyToOne joins via a foreign key stored on the local side.
	ManyToOne RelationKind = iota
	// OneToMany joins via a foreign key stored on the related side.
	OneToMany
	// ManyToMany joins through a pivot table.
	ManyToMany
)

// SelectionStrategy decides what a joined relation contributes to the result.
type SelectionStrategy int

const (
	// SelectFull hydrates the joined entity's fields into the result.
	SelectFull SelectionStrategy = iota
	// SelectIDOnly loads only related identifiers, deferred to a single
	// secondary request after the whole tree has been visited.
	SelectIDOnly
	// SelectNone performs the join for its filtering effect only.
	SelectNone
)

// JoinType is the SQL join flavor requested for a relation.
type JoinType int

const (
	// JoinInner requests an INNER JOIN.
	JoinInner JoinType = iota
	// JoinLeft requests a LEFT JOIN.
	JoinLeft
	// JoinFull requests a FULL OUTER JOIN. The relational translation rejects
	// it explicitly rather than downgrading to another join kind.
	JoinFull
)

// String returns the SQL flavor of the join type for error messages.
func (t JoinType) String() string {
	switch t {
	case JoinInner:
		return "inner"
	case JoinLeft:
		return "left"
	case JoinFull:
		return "full"
	default:
		return "unknown"
	}
}

// PivotInfo describes the intermediate table of a many-to-many relation.
type PivotInfo struct {
	Table          string
	LocalColumn    string // pivot column referencing the parent
	RelationColumn string // pivot column referencing the target
}

// Join describes one relationship join. Nested recursively carries the joined
// entity's own filters, joins, orders, cursor and select list.
type Join struct {
	Alias         string
	Kind          RelationKind
	Strategy      SelectionStrategy
	Type          JoinType
	ParentAlias   string
	ParentIDField string
	LocalField    string
	RelationField string
	Pivot         *PivotInfo
	Nested        *Criteria
}

// Criteria is the root of an expression tree: the abstract, pre-built
// filter/join/order/pagination structure consumed by the translation engine.
//
// Take and Skip use -1 for "not set" so that an explicit LIMIT 0 stays
// expressible.
type Criteria struct {
	Alias   string
	IDField string
	Root    *FilterGroup
	Joins   []*Join
	Orders  []Order
	Cursor  *Cursor
	Fields  []string
	Take    int
	Skip    int
}

// NewCriteria creates an empty criteria for the given alias and identifier
// field, with an AND root group and unset pagination.
func NewCriteria(alias, idField string) *Criteria {
	return &Criteria{
		Alias:   alias,
		IDField: idField,
		Root:    And(),
		Take:    -1,
		Skip:    -1,
	}
}

// Empty reports whether the criteria carries no filters, joins or ordering.
// The join elision optimization relies on this check.
func (c *Criteria) Empty() bool {
	if c == nil {
		return true
	}
	return (c.Root == nil || len(c.Root.Items) == 0) && len(c.Joins) == 0 && len(c.Orders) == 0
}
