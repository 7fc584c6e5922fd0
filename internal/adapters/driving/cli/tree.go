package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driving"
)

var treeCmd = &cobra.Command{
	Use:   "tree [item-id]",
	Short: "Print item trees",
	Long: `Print every mapping's tree, or the subtree below one item.

An id that is not an item itself but has children (a mapping anchor or a
forest root) is accepted too.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

// treeDepth limits how deep the tree is printed; zero means unlimited.
var treeDepth int

func init() {
	treeCmd.Flags().IntVarP(&treeDepth, "depth", "d", 0, "Maximum depth to print (0 for no limit)")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	p, err := dataProvider()
	if err != nil {
		return err
	}
	st := newStyles(cmd.OutOrStdout())

	if len(args) == 1 {
		id, err := parseID("item id", args[0])
		if err != nil {
			return err
		}
		children, ok := p.ChildIDs(id)
		if !ok {
			return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
		}
		cmd.Println(itemLabel(p, st, id))
		for _, child := range children {
			printProviderItem(cmd, p, st, child, 1)
		}
		return nil
	}

	for i, m := range p.Mappings() {
		if i > 0 {
			cmd.Println()
		}
		printMapping(cmd, st, m)
	}
	return nil
}

// printProviderItem prints an item and its descendants as the provider
// sees them, merged across mappings.
func printProviderItem(cmd *cobra.Command, p driving.DataProvider, st *styles, id domain.ID, depth int) {
	cmd.Println(indent(depth) + itemLabel(p, st, id))
	if treeDepth > 0 && depth >= treeDepth {
		return
	}
	children, _ := p.ChildIDs(id)
	for _, child := range children {
		printProviderItem(cmd, p, st, child, depth+1)
	}
}

// printMapping prints the tree one mapping holds. Tops that are not items
// (an anchor, forest roots) are printed as bare ids.
func printMapping(cmd *cobra.Command, st *styles, m driving.Mapping) {
	header := st.Title(m.Name()) + " " + st.Muted(fmt.Sprintf("%s (%d items)", m.Path(), m.Len()))
	if m.ReadOnly() {
		header += " " + st.Warning("read-only")
	}
	cmd.Println(header)

	var (
		top    domain.ID
		topSet bool
	)
	for _, root := range m.Tree() {
		if _, visible := m.ItemDefinition(root.ID); !visible {
			cmd.Println(indent(1) + st.Muted(root.ID.String()))
			for _, child := range root.Children {
				printItem(cmd, st, child, 2)
			}
			continue
		}
		if !topSet || root.ParentID != top {
			top, topSet = root.ParentID, true
			cmd.Println(indent(1) + st.Muted(top.String()))
		}
		printItem(cmd, st, root, 2)
	}
}

func printItem(cmd *cobra.Command, st *styles, item *domain.Item, depth int) {
	cmd.Println(indent(depth) + st.Name(item.Name) + " " + st.ID(item.ID.String()))
	if treeDepth > 0 && depth > treeDepth {
		return
	}
	for _, child := range item.Children {
		printItem(cmd, st, child, depth+1)
	}
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
