package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Read and change items",
	Long:  `Read item definitions and create, copy, move, rename, or delete items.`,
}

var itemGetCmd = &cobra.Command{
	Use:   "get [item-id]",
	Short: "Show an item's definition",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemGet,
}

var itemChildrenCmd = &cobra.Command{
	Use:   "children [item-id]",
	Short: "List an item's children in order",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemChildren,
}

var itemCreateCmd = &cobra.Command{
	Use:   "create [parent-id] [name]",
	Short: "Create an empty item",
	Long: `Create an empty item under a parent. The first mapping that holds the
parent and accepts new children stores it.`,
	Args: cobra.ExactArgs(2),
	RunE: runItemCreate,
}

var itemCopyCmd = &cobra.Command{
	Use:   "copy [item-id] [destination-id]",
	Short: "Copy an item and its descendants",
	Long: `Copy an item and all of its descendants under a destination. Descendants
receive fresh ids.`,
	Args: cobra.ExactArgs(2),
	RunE: runItemCopy,
}

var itemMoveCmd = &cobra.Command{
	Use:   "move [item-id] [target-id]",
	Short: "Move an item under another parent",
	Args:  cobra.ExactArgs(2),
	RunE:  runItemMove,
}

var itemRenameCmd = &cobra.Command{
	Use:   "rename [item-id] [name]",
	Short: "Rename an item",
	Args:  cobra.ExactArgs(2),
	RunE:  runItemRename,
}

var itemDeleteCmd = &cobra.Command{
	Use:   "delete [item-id]",
	Short: "Delete an item and its descendants",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemDelete,
}

var (
	itemTemplate string
	itemNewID    string
	copyName     string
	copyID       string
)

func init() {
	itemCreateCmd.Flags().StringVarP(&itemTemplate, "template", "t", "", "Template id of the new item")
	itemCreateCmd.Flags().StringVar(&itemNewID, "id", "", "Id of the new item (generated if empty)")
	itemCopyCmd.Flags().StringVarP(&copyName, "name", "n", "", "Name of the copy (defaults to the source name)")
	itemCopyCmd.Flags().StringVar(&copyID, "id", "", "Id of the copy (generated if empty)")

	itemCmd.AddCommand(itemGetCmd)
	itemCmd.AddCommand(itemChildrenCmd)
	itemCmd.AddCommand(itemCreateCmd)
	itemCmd.AddCommand(itemCopyCmd)
	itemCmd.AddCommand(itemMoveCmd)
	itemCmd.AddCommand(itemRenameCmd)
	itemCmd.AddCommand(itemDeleteCmd)
	rootCmd.AddCommand(itemCmd)
}

func runItemGet(cmd *cobra.Command, args []string) error {
	p, err := dataProvider()
	if err != nil {
		return err
	}
	id, err := parseID("item id", args[0])
	if err != nil {
		return err
	}
	def, ok := p.ItemDefinition(id)
	if !ok {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	st := newStyles(cmd.OutOrStdout())

	cmd.Printf("Name:      %s\n", st.Name(def.Name))
	cmd.Printf("ID:        %s\n", st.ID(def.ID.String()))
	cmd.Printf("Template:  %s\n", st.ID(def.TemplateID.String()))
	cmd.Printf("Parent:    %s\n", st.ID(def.ParentID.String()))
	if m, ok := p.Owner(id); ok {
		cmd.Printf("Mapping:   %s\n", m.Name())
	}
	children, _ := p.ChildIDs(id)
	cmd.Printf("Children:  %d\n", len(children))

	uris, _ := p.Versions(id)
	labels := make([]string, len(uris))
	for i, uri := range uris {
		labels[i] = uri.String()
	}
	if len(labels) == 0 {
		cmd.Printf("Versions:  %s\n", st.Muted("none"))
	} else {
		cmd.Printf("Versions:  %s\n", strings.Join(labels, ", "))
	}
	return nil
}

func runItemChildren(cmd *cobra.Command, args []string) error {
	p, err := dataProvider()
	if err != nil {
		return err
	}
	id, err := parseID("item id", args[0])
	if err != nil {
		return err
	}
	children, ok := p.ChildIDs(id)
	if !ok {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	st := newStyles(cmd.OutOrStdout())
	if len(children) == 0 {
		cmd.Println(st.Muted("No children."))
		return nil
	}
	for _, child := range children {
		cmd.Println(itemLabel(p, st, child))
	}
	return nil
}

func runItemCreate(cmd *cobra.Command, args []string) error {
	p, err := dataProvider()
	if err != nil {
		return err
	}
	parentID, err := parseID("parent id", args[0])
	if err != nil {
		return err
	}
	name := args[1]
	templateID, err := optionalID("template id", itemTemplate, func() domain.ID { return domain.NullID })
	if err != nil {
		return err
	}
	itemID, err := optionalID("item id", itemNewID, domain.NewID)
	if err != nil {
		return err
	}

	ok, err := p.CreateItem(cmd.Context(), itemID, name, templateID, parentID)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to create item under %s: %w", parentID, errRejected)
	}
	cmd.Printf("Created %s %s\n", name, itemID)
	return nil
}

func runItemCopy(cmd *cobra.Command, args []string) error {
	p, err := dataProvider()
	if err != nil {
		return err
	}
	ids, err := parseIDs(args, "item id", "destination id")
	if err != nil {
		return err
	}
	sourceID, destinationID := ids[0], ids[1]

	name := copyName
	if name == "" {
		def, ok := p.ItemDefinition(sourceID)
		if !ok {
			return fmt.Errorf("item %s: %w", sourceID, domain.ErrNotFound)
		}
		name = def.Name
	}
	newID, err := optionalID("copy id", copyID, domain.NewID)
	if err != nil {
		return err
	}

	ok, err := p.CopyItem(cmd.Context(), sourceID, destinationID, newID, name)
	if err != nil {
		return fmt.Errorf("failed to copy item: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to copy %s to %s: %w", sourceID, destinationID, errRejected)
	}
	cmd.Printf("Copied %s to %s as %s %s\n", sourceID, destinationID, name, newID)
	return nil
}

func runItemMove(cmd *cobra.Command, args []string) error {
	p, err := dataProvider()
	if err != nil {
		return err
	}
	ids, err := parseIDs(args, "item id", "target id")
	if err != nil {
		return err
	}

	ok, err := p.MoveItem(cmd.Context(), ids[0], ids[1])
	if err != nil {
		return fmt.Errorf("failed to move item: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to move %s to %s: %w", ids[0], ids[1], errRejected)
	}
	cmd.Printf("Moved %s to %s\n", ids[0], ids[1])
	return nil
}

func runItemRename(cmd *cobra.Command, args []string) error {
	p, err := dataProvider()
	if err != nil {
		return err
	}
	id, err := parseID("item id", args[0])
	if err != nil {
		return err
	}
	name := args[1]

	ok, err := p.SaveItem(cmd.Context(), id, domain.ItemChanges{Name: &name})
	if err != nil {
		return fmt.Errorf("failed to rename item: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to rename %s: %w", id, errRejected)
	}
	cmd.Printf("Renamed %s to %s\n", id, name)
	return nil
}

func runItemDelete(cmd *cobra.Command, args []string) error {
	p, err := dataProvider()
	if err != nil {
		return err
	}
	id, err := parseID("item id", args[0])
	if err != nil {
		return err
	}

	ok, err := p.DeleteItem(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to delete %s: %w", id, errRejected)
	}
	cmd.Printf("Deleted %s\n", id)
	return nil
}
