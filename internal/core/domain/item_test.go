package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs(start byte) func() ID {
	next := start
	return func() ID {
		var id ID
		id[15] = next
		next++
		return id
	}
}

func buildTree() *Item {
	root := NewItem(MustParseID("{00000000-0000-0000-0000-0000000000A0}"), "root", TemplateTemplateID, NullID)
	child := NewItem(MustParseID("{00000000-0000-0000-0000-0000000000A1}"), "child", TemplateTemplateID, root.ID)
	grandchild := NewItem(MustParseID("{00000000-0000-0000-0000-0000000000A2}"), "grandchild", TemplateTemplateID, child.ID)
	grandchild.Fields.Shared.Set(titleID, "deep")
	child.Children = append(child.Children, grandchild)
	root.Children = append(root.Children, child)
	return root
}

func TestItem_Definition(t *testing.T) {
	parent := NewID()
	item := NewItem(NewID(), "home", TemplateTemplateID, parent)

	def := item.Definition()

	assert.Equal(t, item.ID, def.ID)
	assert.Equal(t, "home", def.Name)
	assert.Equal(t, TemplateTemplateID, def.TemplateID)
	assert.Equal(t, parent, def.ParentID)
}

func TestRemoveItem_PreservesOrder(t *testing.T) {
	parent := NewItem(NewID(), "p", NullID, NullID)
	a := NewItem(NewID(), "a", NullID, parent.ID)
	b := NewItem(NewID(), "b", NullID, parent.ID)
	c := NewItem(NewID(), "c", NullID, parent.ID)
	parent.Children = []*Item{a, b, c}

	var removed bool
	parent.Children, removed = RemoveItem(parent.Children, b.ID)
	assert.True(t, removed)
	parent.Children, removed = RemoveItem(parent.Children, b.ID)
	assert.False(t, removed)
	assert.Equal(t, []ID{a.ID, c.ID}, parent.ChildIDs())
}

func TestItem_WalkAndContains(t *testing.T) {
	root := buildTree()

	var names []string
	root.Walk(func(i *Item) { names = append(names, i.Name) })

	assert.Equal(t, []string{"root", "child", "grandchild"}, names)
	assert.True(t, root.Contains(MustParseID("{00000000-0000-0000-0000-0000000000A2}")))
	assert.False(t, root.Children[0].Contains(root.ID))
}

func TestItem_Clone_DeepAndFreshIDs(t *testing.T) {
	root := buildTree()
	copyID := NewID()
	dest := NewID()

	c := root.Clone(copyID, "copy", dest, sequentialIDs(1))

	assert.Equal(t, copyID, c.ID)
	assert.Equal(t, "copy", c.Name)
	assert.Equal(t, dest, c.ParentID)
	assert.Equal(t, root.TemplateID, c.TemplateID)
	require.Len(t, c.Children, 1)

	child := c.Children[0]
	assert.NotEqual(t, root.Children[0].ID, child.ID)
	assert.Equal(t, "child", child.Name)
	assert.Equal(t, c.ID, child.ParentID)

	grandchild := child.Children[0]
	assert.Equal(t, child.ID, grandchild.ParentID)
	assert.True(t, root.Children[0].Children[0].Fields.Equal(grandchild.Fields))

	grandchild.Fields.Shared.Set(titleID, "changed")
	v, _ := root.Children[0].Children[0].Fields.Shared.Get(titleID)
	assert.Equal(t, "deep", v)
}

func TestRemoveItem(t *testing.T) {
	a := NewItem(NewID(), "a", NullID, NullID)
	b := NewItem(NewID(), "b", NullID, NullID)

	items, ok := RemoveItem([]*Item{a, b}, a.ID)
	assert.True(t, ok)
	assert.Equal(t, []ID{b.ID}, ItemIDs(items))

	_, ok = RemoveItem(items, a.ID)
	assert.False(t, ok)
}

func TestFieldScope_Parse(t *testing.T) {
	for _, s := range []FieldScope{ScopeShared, ScopeUnversioned, ScopeVersioned} {
		parsed, err := ParseFieldScope(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseFieldScope("global")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "unknown", ScopeUnknown.String())
}

func TestFieldChange_Removes(t *testing.T) {
	uri := NewVersionURI("en", 1)

	assert.False(t, SetField(titleID, ScopeVersioned, uri, "x").Removes())
	assert.True(t, RemoveField(titleID, uri).Removes())
	assert.True(t, FieldChange{FieldID: titleID}.Removes())
}

func TestFormatISOTicks(t *testing.T) {
	ts := mustTime(t, "2024-03-05T10:20:30.1234567Z")

	assert.Equal(t, "20240305T102030.1234567Z", FormatISOTicks(ts))
}

func TestItem_Copy_KeepsIDs(t *testing.T) {
	root := buildTree()

	c := root.Copy()

	var original, copied []ID
	root.Walk(func(i *Item) { original = append(original, i.ID) })
	c.Walk(func(i *Item) { copied = append(copied, i.ID) })
	assert.Equal(t, original, copied)

	c.Children[0].Name = "renamed"
	assert.Equal(t, "child", root.Children[0].Name)
}
