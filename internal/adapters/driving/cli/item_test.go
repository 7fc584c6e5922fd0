package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
)

func TestItemCmd_Use(t *testing.T) {
	assert.Equal(t, "item", itemCmd.Use)
}

func TestItemCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range itemCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"get", "children", "create", "copy", "move", "rename", "delete"}, names)
}

func TestItemGetCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()

	_, err := execute(t, "item", "get")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestItemGetCmd_ShowsDefinition(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()

	out, err := execute(t, "item", "get", homeID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "Name:      Home")
	assert.Contains(t, out, "ID:        "+homeID.String())
	assert.Contains(t, out, "Template:  "+templateID.String())
	assert.Contains(t, out, "Parent:    "+anchorID.String())
	assert.Contains(t, out, "Mapping:   content")
	assert.Contains(t, out, "Children:  1")
	assert.Contains(t, out, "Versions:  en#1")
}

func TestItemGetCmd_NoVersions(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()

	out, err := execute(t, "item", "get", settingsID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "Mapping:   default")
	assert.Contains(t, out, "Versions:  none")
}

func TestItemGetCmd_SyntheticRootIsNotAnItem(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()

	_, err := execute(t, "item", "get", systemRootID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemChildrenCmd(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()

	out, err := execute(t, "item", "children", anchorID.String())
	require.NoError(t, err)
	assert.Equal(t, "Home "+homeID.String()+"\n", out)

	out, err = execute(t, "item", "children", welcomeID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "No children.")
}

func TestItemCreateCmd(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()
	newID := domain.MustParseID("{C0C0C0C0-0000-4000-8000-000000000001}")

	out, err := execute(t, "item", "create", homeID.String(), "About", "--id", newID.String(), "--template", templateID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "Created About "+newID.String())

	def, ok := fixture.provider.ItemDefinition(newID)
	require.True(t, ok)
	assert.Equal(t, "About", def.Name)
	assert.Equal(t, templateID, def.TemplateID)
	assert.Equal(t, homeID, def.ParentID)

	children, _ := fixture.provider.ChildIDs(homeID)
	assert.Equal(t, []domain.ID{welcomeID, newID}, children)
}

func TestItemCreateCmd_GeneratesID(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()

	_, err := execute(t, "item", "create", systemRootID.String(), "Modules")
	require.NoError(t, err)

	children, _ := fixture.provider.ChildIDs(systemRootID)
	require.Len(t, children, 2)
	def, ok := fixture.provider.ItemDefinition(children[1])
	require.True(t, ok)
	assert.Equal(t, "Modules", def.Name)
	assert.True(t, def.TemplateID.IsNull())
}

func TestItemCreateCmd_ExistingID(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()

	_, err := execute(t, "item", "create", homeID.String(), "Again", "--id", welcomeID.String())
	require.Error(t, err)
	assert.ErrorIs(t, err, errRejected)
}

func TestItemCreateCmd_InvalidTemplate(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()

	_, err := execute(t, "item", "create", homeID.String(), "About", "--template", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid template id")
}

func TestItemCopyCmd(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()
	copyOf := domain.MustParseID("{C0C0C0C0-0000-4000-8000-000000000002}")

	out, err := execute(t, "item", "copy", homeID.String(), anchorID.String(), "--id", copyOf.String())
	require.NoError(t, err)
	assert.Contains(t, out, "as Home "+copyOf.String())

	def, ok := fixture.provider.ItemDefinition(copyOf)
	require.True(t, ok)
	assert.Equal(t, "Home", def.Name)
	children, _ := fixture.provider.ChildIDs(copyOf)
	require.Len(t, children, 1)
	assert.NotEqual(t, welcomeID, children[0])
}

func TestItemCopyCmd_Name(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()

	_, err := execute(t, "item", "copy", welcomeID.String(), anchorID.String(), "--name", "Landing")
	require.NoError(t, err)

	children, _ := fixture.provider.ChildIDs(anchorID)
	require.Len(t, children, 2)
	def, _ := fixture.provider.ItemDefinition(children[1])
	assert.Equal(t, "Landing", def.Name)
}

func TestItemCopyCmd_AcrossMappings(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()

	_, err := execute(t, "item", "copy", homeID.String(), settingsID.String())
	assert.ErrorIs(t, err, errRejected)
}

func TestItemMoveCmd(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()

	out, err := execute(t, "item", "move", welcomeID.String(), anchorID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "Moved "+welcomeID.String())

	parent, ok := fixture.provider.ParentID(welcomeID)
	require.True(t, ok)
	assert.Equal(t, anchorID, parent)
}

func TestItemMoveCmd_Rejections(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()

	tests := []struct {
		name   string
		item   domain.ID
		target domain.ID
	}{
		{"into own subtree", homeID, welcomeID},
		{"across mappings", welcomeID, settingsID},
		{"unknown item", templateID, anchorID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "item", "move", tt.item.String(), tt.target.String())
			assert.ErrorIs(t, err, errRejected)
		})
	}
}

func TestItemRenameCmd(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()

	out, err := execute(t, "item", "rename", welcomeID.String(), "Start")
	require.NoError(t, err)
	assert.Contains(t, out, "Renamed")

	def, _ := fixture.provider.ItemDefinition(welcomeID)
	assert.Equal(t, "Start", def.Name)
}

func TestItemDeleteCmd(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()

	out, err := execute(t, "item", "delete", homeID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+homeID.String())

	_, ok := fixture.provider.ItemDefinition(welcomeID)
	assert.False(t, ok)

	_, err = execute(t, "item", "delete", homeID.String())
	assert.ErrorIs(t, err, errRejected)
}
