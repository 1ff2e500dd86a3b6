package translate

import (
	"fmt"

	"github.com/coregx/criteria/internal/tree"
)

// JoinApplier resolves alias collisions, elides joins where the local foreign
// key already carries the answer, emits inner/left joins with ON conditions,
// and applies each join's selection strategy. One applier serves exactly one
// translation; it tracks every alias bound in the query.
type JoinApplier struct {
	conditions *ConditionBuilder
	state      *QueryState
	aliases    map[string]struct{}
}

// NewJoinApplier creates a join applier accumulating into the given state.
func NewJoinApplier(conditions *ConditionBuilder, state *QueryState) *JoinApplier {
	return &JoinApplier{
		conditions: conditions,
		state:      state,
		aliases:    make(map[string]struct{}),
	}
}

// BindAlias reserves an alias that is already part of the query, such as the
// root entity's alias.
func (ja *JoinApplier) BindAlias(alias string) {
	ja.aliases[alias] = struct{}{}
}

// resolveAlias returns the requested relation alias, suffixed with an
// incrementing number when it is already bound in the query.
func (ja *JoinApplier) resolveAlias(requested string) string {
	alias := requested
	for i := 1; ; i++ {
		if _, taken := ja.aliases[alias]; !taken {
			break
		}
		alias = fmt.Sprintf("%s_%d", requested, i)
	}
	ja.aliases[alias] = struct{}{}
	return alias
}

// canElide reports whether the join may be skipped entirely in favor of
// selecting the local foreign-key column: the relation must not be
// many-to-many, the local side must own the foreign key, only identifiers are
// wanted, and the nested criteria must carry no filters, joins or ordering.
func (ja *JoinApplier) canElide(join *tree.Join) bool {
	return join.Kind != tree.ManyToMany &&
		join.LocalField != join.ParentIDField &&
		join.Strategy == tree.SelectIDOnly &&
		join.Nested.Empty()
}

// Apply translates one join descriptor and recurses into its nested joins,
// rebinding the parent alias at each level. parentPath is the dot-separated
// relation path from the root to the parent entity ("" at the root).
func (ja *JoinApplier) Apply(backend Backend, parentAlias, parentPath string, join *tree.Join) error {
	if ja.canElide(join) {
		ja.state.AddSelect(parentAlias + "." + join.LocalField)
		return nil
	}

	if join.Kind == tree.ManyToMany && join.Pivot == nil {
		return fmt.Errorf("relation %q: many-to-many join requires pivot info", join.Alias)
	}

	path := join.Alias
	if parentPath != "" {
		path = parentPath + "." + join.Alias
	}

	alias := ja.resolveAlias(join.Alias)

	// The ON clause beyond the relationship's own field equality comes from
	// the nested criteria's root group, rendered under the resolved alias.
	var on Fragment
	if join.Nested != nil {
		var err error
		on, err = ja.conditions.BuildGroup(alias, join.Nested.Root)
		if err != nil {
			return fmt.Errorf("relation %q: %w", join.Alias, err)
		}
	}

	target := parentAlias + "." + join.Alias
	switch join.Type {
	case tree.JoinInner:
		backend.AddInnerJoin(target, alias, on.SQL, on.Params)
	case tree.JoinLeft:
		backend.AddLeftJoin(target, alias, on.SQL, on.Params)
	default:
		return fmt.Errorf("%w: %s for relation %q", ErrUnsupportedJoinKind, join.Type, join.Alias)
	}

	switch join.Strategy {
	case tree.SelectFull:
		ja.state.AddSelect(alias)
		if join.Nested != nil && join.Nested.IDField != "" {
			ja.state.AddSelect(alias + "." + join.Nested.IDField)
		}
		ja.state.AddSelect(parentAlias + "." + join.ParentIDField)
		if join.Nested != nil {
			for _, field := range join.Nested.Fields {
				ja.state.AddSelect(alias + "." + field)
			}
			for _, order := range join.Nested.Orders {
				ja.state.AddOrder(alias, order)
			}
			if err := ja.state.AddCursor(alias, join.Nested.Cursor); err != nil {
				return err
			}
		}
	case tree.SelectIDOnly:
		ja.state.DeferIdentifierLoad(path)
	case tree.SelectNone:
		// Join performed for its filtering effect only.
	}

	if join.Nested != nil {
		for _, child := range join.Nested.Joins {
			if err := ja.Apply(backend, alias, path, child); err != nil {
				return err
			}
		}
	}
	return nil
}
