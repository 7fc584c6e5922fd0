package services

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driving"
)

// mappingMachine drives a mapping with random structural edits and
// checks it against a model of parent and child links.
type mappingMachine struct {
	env     *testEnv
	m       driving.Mapping
	subtree bool

	// tops are the ids whose children form the top-level list: the
	// anchor, or the synthetic roots of a forest.
	tops     []domain.ID
	items    []domain.ID
	parent   map[domain.ID]domain.ID
	children map[domain.ID][]domain.ID
	next     int
}

func newMappingMachine(t *rapid.T, subtree bool) *mappingMachine {
	mm := &mappingMachine{
		env:      newTestEnv(),
		subtree:  subtree,
		parent:   make(map[domain.ID]domain.ID),
		children: make(map[domain.ID][]domain.ID),
	}
	mm.m = mm.open(t)
	if subtree {
		mm.tops = []domain.ID{anchorID}
		mm.children[anchorID] = nil
	}
	return mm
}

func (mm *mappingMachine) open(t *rapid.T) driving.Mapping {
	spec := forestSpec()
	if mm.subtree {
		spec = subtreeSpec()
	}
	m, err := NewMapping(spec, mm.env.deps)
	if err != nil {
		t.Fatalf("opening mapping: %v", err)
	}
	return m
}

func (mm *mappingMachine) freshID() domain.ID {
	mm.next++
	return domain.MustParseID(fmt.Sprintf("{10000000-0000-4000-8000-%012d}", mm.next))
}

func (mm *mappingMachine) isTop(id domain.ID) bool {
	return slices.Contains(mm.tops, id)
}

func (mm *mappingMachine) known(id domain.ID) bool {
	_, ok := mm.parent[id]
	return ok
}

// drawParent picks a top, an item, or (sometimes) an unknown id.
func (mm *mappingMachine) drawParent(t *rapid.T, label string) domain.ID {
	candidates := slices.Concat(mm.tops, mm.items)
	if len(candidates) == 0 || rapid.IntRange(0, 9).Draw(t, label+"Fresh") == 0 {
		return mm.freshID()
	}
	return rapid.SampledFrom(candidates).Draw(t, label)
}

func (mm *mappingMachine) drawItem(t *rapid.T, label string) domain.ID {
	if len(mm.items) == 0 {
		t.Skip("no items")
	}
	return rapid.SampledFrom(mm.items).Draw(t, label)
}

// descends reports whether id is item or below it.
func (mm *mappingMachine) descends(id, item domain.ID) bool {
	for {
		if id == item {
			return true
		}
		p, ok := mm.parent[id]
		if !ok {
			return false
		}
		id = p
	}
}

// holds reports whether id already exists in the mapping's cache.
func (mm *mappingMachine) holds(id domain.ID) bool {
	return mm.known(id) || (!mm.subtree && mm.isTop(id))
}

// resolves reports whether id can take children without being created.
func (mm *mappingMachine) resolves(id domain.ID) bool {
	return mm.known(id) || mm.isTop(id)
}

func (mm *mappingMachine) link(id, parent domain.ID) {
	if !mm.resolves(parent) {
		mm.tops = append(mm.tops, parent)
	}
	mm.parent[id] = parent
	mm.children[parent] = append(mm.children[parent], id)
}

func (mm *mappingMachine) unlink(id domain.ID) {
	p := mm.parent[id]
	mm.children[p] = slices.DeleteFunc(mm.children[p], func(c domain.ID) bool { return c == id })
	delete(mm.parent, id)
}

func (mm *mappingMachine) forget(id domain.ID) {
	for _, child := range mm.children[id] {
		mm.forget(child)
	}
	delete(mm.children, id)
	delete(mm.parent, id)
	mm.items = slices.DeleteFunc(mm.items, func(c domain.ID) bool { return c == id })
}

func (mm *mappingMachine) expect(t *rapid.T, op string, want, got bool, err error) {
	if err != nil {
		t.Fatalf("%s: %v", op, err)
	}
	if want != got {
		t.Fatalf("%s: got %v, want %v", op, got, want)
	}
}

func (mm *mappingMachine) Create(t *rapid.T) {
	id := mm.freshID()
	if len(mm.items) > 0 && rapid.IntRange(0, 9).Draw(t, "reuse") == 0 {
		id = mm.drawItem(t, "existing")
	}
	parent := mm.drawParent(t, "parent")

	want := !mm.holds(id) && id != parent
	if mm.subtree {
		want = want && mm.resolves(parent)
	}
	ok, err := mm.m.CreateItem(context.Background(), id, "item", templateID, parent)
	mm.expect(t, "create", want, ok, err)
	if ok {
		mm.link(id, parent)
		mm.children[id] = nil
		mm.items = append(mm.items, id)
	}
}

func (mm *mappingMachine) Copy(t *rapid.T) {
	source := mm.drawItem(t, "source")
	destination := mm.drawParent(t, "destination")
	copyID := mm.freshID()

	want := mm.resolves(destination)
	ok, err := mm.m.CopyItem(context.Background(), source, destination, copyID, "copy")
	mm.expect(t, "copy", want, ok, err)
	if !ok {
		return
	}

	// The copy holds fresh ids; read them back and check the shape.
	var walk func(src, dst domain.ID)
	walk = func(src, dst domain.ID) {
		got, ok := mm.m.ChildIDs(dst)
		if !ok {
			t.Fatalf("copy %s has no children list", dst)
		}
		want := mm.children[src]
		if len(got) != len(want) {
			t.Fatalf("copy %s has %d children, source %s has %d", dst, len(got), src, len(want))
		}
		mm.children[dst] = slices.Clone(got)
		for i, child := range got {
			if mm.holds(child) {
				t.Fatalf("copied id %s already exists", child)
			}
			mm.parent[child] = dst
			mm.items = append(mm.items, child)
			walk(want[i], child)
		}
	}
	walk(source, copyID)
	mm.link(copyID, destination)
	mm.items = append(mm.items, copyID)
}

func (mm *mappingMachine) Move(t *rapid.T) {
	item := mm.drawItem(t, "item")
	target := mm.drawParent(t, "target")

	var want bool
	switch {
	case mm.parent[item] == target:
		want = true
	case mm.descends(target, item):
		want = false
	case mm.subtree:
		want = mm.resolves(target)
	default:
		want = true
	}
	ok, err := mm.m.MoveItem(context.Background(), item, target)
	mm.expect(t, "move", want, ok, err)
	if ok && mm.parent[item] != target {
		mm.unlink(item)
		mm.link(item, target)
	}
}

func (mm *mappingMachine) Delete(t *rapid.T) {
	item := mm.drawItem(t, "item")

	ok, err := mm.m.DeleteItem(context.Background(), item)
	mm.expect(t, "delete", true, ok, err)
	mm.unlink(item)
	mm.forget(item)
}

func (mm *mappingMachine) AddVersion(t *rapid.T) {
	item := mm.drawItem(t, "item")
	before, _ := mm.m.Versions(item)

	n, ok, err := mm.m.AddVersion(context.Background(), item, domain.NewVersionURI(en, 0))
	mm.expect(t, "add version", true, ok, err)
	if want := domain.Version(len(before) + 1); n != want {
		t.Fatalf("add version: got %d, want %d", n, want)
	}
}

func (mm *mappingMachine) Reload(t *rapid.T) {
	if mm.env.snapshots.Saves() == 0 {
		t.Skip("nothing written")
	}
	mm.m = mm.open(t)
}

func (mm *mappingMachine) Check(t *rapid.T) {
	checkConsistency(t, mm.m)

	for _, id := range mm.items {
		got, ok := mm.m.ParentID(id)
		if !ok || got != mm.parent[id] {
			t.Fatalf("parent of %s: got %s (%v), want %s", id, got, ok, mm.parent[id])
		}
	}
	for id, want := range mm.children {
		got, ok := mm.m.ChildIDs(id)
		if !ok {
			t.Fatalf("children of %s: unknown", id)
		}
		if !slices.Equal(got, want) {
			t.Fatalf("children of %s: got %v, want %v", id, got, want)
		}
	}

	want := len(mm.items)
	if !mm.subtree {
		want += len(mm.tops)
	}
	if got := mm.m.Len(); got != want {
		t.Fatalf("len: got %d, want %d", got, want)
	}
}

func runMappingMachine(t *testing.T, subtree bool) {
	rapid.Check(t, func(t *rapid.T) {
		mm := newMappingMachine(t, subtree)
		t.Repeat(map[string]func(*rapid.T){
			"create":     mm.Create,
			"copy":       mm.Copy,
			"move":       mm.Move,
			"delete":     mm.Delete,
			"addVersion": mm.AddVersion,
			"reload":     mm.Reload,
			"":           mm.Check,
		})
	})
}

func TestSubtreeMappingProperty_StateMachine(t *testing.T) {
	runMappingMachine(t, true)
}

func TestForestMappingProperty_StateMachine(t *testing.T) {
	runMappingMachine(t, false)
}
