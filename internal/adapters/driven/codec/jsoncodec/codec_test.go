package jsoncodec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driven"
)

var (
	homeID     = domain.MustParseID("{110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}")
	childID    = domain.MustParseID("{2A3B4C5D-6E7F-4081-92A3-B4C5D6E7F809}")
	templateID = domain.MustParseID("{76036F5E-CBCE-46D1-AF0A-4143F9B557AA}")
	titleID    = domain.MustParseID("{75577384-3C97-45DA-A847-81B00500E250}")
	textID     = domain.MustParseID("{A60ACD61-A6DB-4182-8329-C957982CEC74}")
	rootID     = domain.MustParseID("{0DE95AE4-41AB-4D01-9EB0-67441B7C2450}")
)

func sampleTree() []*domain.Item {
	home := domain.NewItem(homeID, "Home", templateID, domain.NullID)
	home.Fields.Shared.Set(titleID, "Welcome <home> & \"friends\"")
	home.Fields.Unversioned.Ensure("en").Set(textID, "hello")
	home.Fields.Unversioned.Ensure("da") // empty, omitted
	versions := home.Fields.Versioned.Ensure("en")
	v1 := domain.NewFieldMap()
	v1.Set(textID, "first")
	versions.Set(1, v1)
	v3 := domain.NewFieldMap()
	v3.Set(textID, "third")
	versions.Set(3, v3)

	child := domain.NewItem(childID, "Child", templateID, homeID)
	home.Children = []*domain.Item{child}
	return []*domain.Item{home}
}

// assertSameTree compares everything the codec persists.
func assertSameTree(t require.TestingT, want, got []*domain.Item) {
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].TemplateID, got[i].TemplateID)
		assert.True(t, want[i].Fields.Equal(got[i].Fields), "fields of %s differ", want[i].ID)
		assert.Equal(t, want[i].Fields.Shared.Keys(), got[i].Fields.Shared.Keys())
		assertSameTree(t, want[i].Children, got[i].Children)
	}
}

func TestCodec_MarshalItems_Compact(t *testing.T) {
	codec := New()

	data, err := codec.MarshalItems(sampleTree(), false)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, `[{"ID":"{110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}","Name":"Home",`))
	assert.Contains(t, text, `"Welcome \u003chome\u003e \u0026 \"friends\""`)
	assert.Contains(t, text, `"Unversioned":{"en":{`)
	assert.NotContains(t, text, `"da"`)
	assert.Contains(t, text, `"Versioned":{"en":{"1":{`)
	assert.Contains(t, text, `"Children":[]`)
	assert.NotContains(t, text, "\n")
}

func TestCodec_MarshalItems_Pretty(t *testing.T) {
	codec := New()

	data, err := codec.MarshalItems(sampleTree(), true)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "[\n  {\n    \"ID\": "))
	assert.True(t, strings.HasSuffix(text, "]\n"))
}

func TestCodec_MarshalItems_Empty(t *testing.T) {
	data, err := New().MarshalItems(nil, false)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestCodec_Items_RoundTrip(t *testing.T) {
	codec := New()
	tree := sampleTree()

	for _, pretty := range []bool{false, true} {
		data, err := codec.MarshalItems(tree, pretty)
		require.NoError(t, err)

		decoded, err := codec.UnmarshalItems(data)
		require.NoError(t, err)
		assertSameTree(t, tree, decoded)
	}
}

func TestCodec_UnmarshalItems_KeepsKeyOrder(t *testing.T) {
	data := []byte(`[{"ID":"{110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}","Name":"Home",
		"TemplateID":"{76036F5E-CBCE-46D1-AF0A-4143F9B557AA}",
		"Fields":{"Shared":{"{A60ACD61-A6DB-4182-8329-C957982CEC74}":"b","{75577384-3C97-45DA-A847-81B00500E250}":"a"},
		"Versioned":{"en":{"3":{},"1":{}}}}}]`)

	items, err := New().UnmarshalItems(data)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []domain.ID{textID, titleID}, items[0].Fields.Shared.Keys())
	assert.Equal(t, []domain.Version{3, 1}, items[0].Fields.Versioned.Versions("en").Keys())
	assert.Empty(t, items[0].Children)
}

func TestCodec_UnmarshalItems_Null(t *testing.T) {
	items, err := New().UnmarshalItems([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestCodec_UnmarshalItems_SkipsNullItems(t *testing.T) {
	data := []byte(`[null,{"ID":"{110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}","Name":"a","Children":[null]}]`)

	items, err := New().UnmarshalItems(data)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, homeID, items[0].ID)
	assert.Empty(t, items[0].Children)
}

func TestCodec_UnmarshalRoots_SkipsNullChildren(t *testing.T) {
	data := []byte(`{"{0DE95AE4-41AB-4D01-9EB0-67441B7C2450}":[null,{"ID":"{110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}","Children":[null,null]}]}`)

	roots, err := New().UnmarshalRoots(data)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 1)
	assert.Empty(t, roots[0].Children[0].Children)
}

func TestCodec_UnmarshalItems_NullFields(t *testing.T) {
	data := []byte(`[{"ID":"{110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}","TemplateID":"","Fields":{"Shared":null,"Versioned":{"en":{"1":null}}}}]`)

	items, err := New().UnmarshalItems(data)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].TemplateID.IsNull())
	assert.Equal(t, 0, items[0].Fields.Shared.Len())
	assert.Equal(t, 0, items[0].Fields.Unversioned.Len())
	assert.Equal(t, []domain.VersionURI{domain.NewVersionURI("en", 1)}, items[0].Fields.Versioned.URIs())
}

func TestCodec_UnmarshalItems_IgnoresUnknownKeys(t *testing.T) {
	data := []byte(`[{"ID":"{110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}","Extra":{"a":[1,2,3]},"Name":"Home"}]`)

	items, err := New().UnmarshalItems(data)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Home", items[0].Name)
}

func TestCodec_UnmarshalItems_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"object instead of list", `{}`},
		{"truncated", `[{"ID":"{110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}"`},
		{"missing id", `[{"Name":"Home"}]`},
		{"bad id", `[{"ID":"nope"}]`},
		{"bad field id", `[{"ID":"{110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}","Fields":{"Shared":{"x":"y"}}}]`},
		{"bad version", `[{"ID":"{110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}","Fields":{"Versioned":{"en":{"0":{}}}}}]`},
		{"numeric value", `[{"ID":"{110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}","Name":5}]`},
		{"trailing data", `[] []`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().UnmarshalItems([]byte(tt.data))
			assert.ErrorIs(t, err, ErrSyntax)
		})
	}
}

func TestCodec_Roots_RoundTrip(t *testing.T) {
	codec := New()
	otherRoot := domain.MustParseID("{11111111-2222-4333-8444-555555555555}")
	roots := []driven.RootEntry{
		{ID: rootID, Children: sampleTree()},
		{ID: otherRoot},
	}

	data, err := codec.MarshalRoots(roots, false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{"{0DE95AE4-41AB-4D01-9EB0-67441B7C2450}":[`))
	assert.True(t, strings.HasSuffix(string(data), `"{11111111-2222-4333-8444-555555555555}":[]}`))

	decoded, err := codec.UnmarshalRoots(data)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, rootID, decoded[0].ID)
	assert.Equal(t, otherRoot, decoded[1].ID)
	assertSameTree(t, roots[0].Children, decoded[0].Children)
	assert.Empty(t, decoded[1].Children)
}

func TestCodec_UnmarshalRoots_Errors(t *testing.T) {
	codec := New()

	_, err := codec.UnmarshalRoots([]byte(`[]`))
	assert.ErrorIs(t, err, ErrSyntax)

	_, err = codec.UnmarshalRoots([]byte(`{"not-a-guid":[]}`))
	assert.Error(t, err)

	roots, err := codec.UnmarshalRoots([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, roots)
}

// Generators

func genID(t *rapid.T) domain.ID {
	var id domain.ID
	copy(id[:], rapid.SliceOfN(rapid.Byte(), 16, 16).Draw(t, "idBytes"))
	id[0] |= 1
	return id
}

func genFieldMap(t *rapid.T) *domain.FieldMap {
	values := domain.NewFieldMap()
	n := rapid.IntRange(0, 3).Draw(t, "fieldCount")
	for range n {
		values.Set(genID(t), rapid.String().Draw(t, "value"))
	}
	return values
}

func genLanguage(t *rapid.T) domain.Language {
	return domain.Language(rapid.StringMatching(`[a-z]{2}(-[A-Z]{2})?`).Draw(t, "language"))
}

func genFields(t *rapid.T) *domain.ItemFields {
	fields := domain.NewItemFields()
	fields.Shared = genFieldMap(t)
	for range rapid.IntRange(0, 2).Draw(t, "unversionedLanguages") {
		fields.Unversioned.Set(genLanguage(t), genFieldMap(t))
	}
	for range rapid.IntRange(0, 2).Draw(t, "versionedLanguages") {
		versions := fields.Versioned.Ensure(genLanguage(t))
		for range rapid.IntRange(0, 3).Draw(t, "versionCount") {
			versions.Set(domain.Version(rapid.IntRange(1, 20).Draw(t, "version")), genFieldMap(t))
		}
	}
	return fields
}

func genItem(t *rapid.T, depth int) *domain.Item {
	item := domain.NewItem(genID(t), rapid.String().Draw(t, "name"), genID(t), domain.NullID)
	item.Fields = genFields(t)
	if depth > 0 {
		for range rapid.IntRange(0, 3).Draw(t, "childCount") {
			item.Children = append(item.Children, genItem(t, depth-1))
		}
	}
	return item
}

func genTree(t *rapid.T) []*domain.Item {
	var items []*domain.Item
	for range rapid.IntRange(0, 3).Draw(t, "rootCount") {
		items = append(items, genItem(t, 2))
	}
	return items
}

func TestCodecProperty_ItemsRoundTrip(t *testing.T) {
	codec := New()
	rapid.Check(t, func(t *rapid.T) {
		tree := genTree(t)
		pretty := rapid.Bool().Draw(t, "pretty")

		data, err := codec.MarshalItems(tree, pretty)
		if err != nil {
			t.Fatalf("MarshalItems: %v", err)
		}
		decoded, err := codec.UnmarshalItems(data)
		if err != nil {
			t.Fatalf("UnmarshalItems: %v\n%s", err, data)
		}
		assertSameTree(t, tree, decoded)

		again, err := codec.MarshalItems(decoded, pretty)
		if err != nil {
			t.Fatalf("MarshalItems again: %v", err)
		}
		if string(again) != string(data) {
			t.Fatalf("encoding is not stable:\n%s\n%s", data, again)
		}
	})
}
