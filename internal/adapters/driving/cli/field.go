package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driving"
)

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Read and change field values",
	Long: `Read and change an item's field values.

Fields are named by id or by a name registered in the configuration. The
--language and --version flags select the revision; version 0 means the
latest version of the language.`,
}

var fieldGetCmd = &cobra.Command{
	Use:   "get [item-id]",
	Short: "Show the fields visible for a revision",
	Args:  cobra.ExactArgs(1),
	RunE:  runFieldGet,
}

var fieldSetCmd = &cobra.Command{
	Use:   "set [item-id] [field] [value]",
	Short: "Set a field value",
	Args:  cobra.ExactArgs(3),
	RunE:  runFieldSet,
}

var fieldRemoveCmd = &cobra.Command{
	Use:   "remove [item-id] [field]",
	Short: "Remove a field value",
	Args:  cobra.ExactArgs(2),
	RunE:  runFieldRemove,
}

var (
	fieldLanguage string
	fieldVersion  int
	fieldScope    string
)

func init() {
	for _, c := range []*cobra.Command{fieldGetCmd, fieldSetCmd, fieldRemoveCmd} {
		c.Flags().StringVarP(&fieldLanguage, "language", "l", "", "Language of the revision (empty for invariant)")
		c.Flags().IntVar(&fieldVersion, "version", 0, "Version of the revision (0 for latest)")
	}
	fieldSetCmd.Flags().StringVarP(&fieldScope, "scope", "s", "", "Scope for unregistered fields: shared, unversioned or versioned")

	fieldCmd.AddCommand(fieldGetCmd)
	fieldCmd.AddCommand(fieldSetCmd)
	fieldCmd.AddCommand(fieldRemoveCmd)
	rootCmd.AddCommand(fieldCmd)
}

func runFieldGet(cmd *cobra.Command, args []string) error {
	p, err := dataProvider()
	if err != nil {
		return err
	}
	id, err := parseID("item id", args[0])
	if err != nil {
		return err
	}
	uri, err := versionURI(p, id, fieldLanguage, fieldVersion)
	if err != nil {
		return err
	}
	fields, ok := p.Fields(id, uri)
	if !ok {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	st := newStyles(cmd.OutOrStdout())
	if fields.Len() == 0 {
		cmd.Println(st.Muted("No fields."))
		return nil
	}
	fields.Range(func(fieldID domain.ID, value string) bool {
		cmd.Printf("%s = %s\n", st.Name(fieldLabel(p, fieldID)), value)
		return true
	})
	return nil
}

func runFieldSet(cmd *cobra.Command, args []string) error {
	p, err := dataProvider()
	if err != nil {
		return err
	}
	id, err := parseID("item id", args[0])
	if err != nil {
		return err
	}
	def, err := resolveField(p, args[1])
	if err != nil {
		return err
	}
	if fieldScope != "" {
		if def.Scope, err = domain.ParseFieldScope(fieldScope); err != nil {
			return fmt.Errorf("invalid scope: %w", err)
		}
	}
	uri, err := versionURI(p, id, fieldLanguage, fieldVersion)
	if err != nil {
		return err
	}

	change := domain.SetField(def.ID, def.Scope, uri, args[2])
	ok, err := p.SaveItem(cmd.Context(), id, domain.ItemChanges{Fields: []domain.FieldChange{change}})
	if err != nil {
		return fmt.Errorf("failed to set field: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to set field on %s: %w", id, errRejected)
	}
	cmd.Printf("Set %s on %s\n", fieldLabel(p, def.ID), id)
	return nil
}

func runFieldRemove(cmd *cobra.Command, args []string) error {
	p, err := dataProvider()
	if err != nil {
		return err
	}
	id, err := parseID("item id", args[0])
	if err != nil {
		return err
	}
	def, err := resolveField(p, args[1])
	if err != nil {
		return err
	}
	uri, err := versionURI(p, id, fieldLanguage, fieldVersion)
	if err != nil {
		return err
	}

	change := domain.RemoveField(def.ID, uri)
	ok, err := p.SaveItem(cmd.Context(), id, domain.ItemChanges{Fields: []domain.FieldChange{change}})
	if err != nil {
		return fmt.Errorf("failed to remove field: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to remove field from %s: %w", id, errRejected)
	}
	cmd.Printf("Removed %s from %s\n", fieldLabel(p, def.ID), id)
	return nil
}

// resolveField finds a registered field by name or id. An unregistered id
// is returned with an unknown scope.
func resolveField(p driving.DataProvider, arg string) (domain.FieldDefinition, error) {
	if def, ok := p.FieldResolver().Lookup(arg); ok {
		return def, nil
	}
	id, err := domain.ParseID(arg)
	if err != nil {
		return domain.FieldDefinition{}, fmt.Errorf("unknown field %q: %w", arg, domain.ErrInvalidInput)
	}
	return domain.FieldDefinition{ID: id}, nil
}
