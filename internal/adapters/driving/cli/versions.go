package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Manage item versions",
	Long:  `List, add, and remove the language versions of an item.`,
}

var versionsListCmd = &cobra.Command{
	Use:   "list [item-id]",
	Short: "List an item's versions",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersionsList,
}

var versionsAddCmd = &cobra.Command{
	Use:   "add [item-id] [language]",
	Short: "Add a version",
	Long: `Add a version numbered one past the latest version of the language.
With --from, the fields of an existing version are copied into it.`,
	Args: cobra.ExactArgs(2),
	RunE: runVersionsAdd,
}

var versionsRemoveCmd = &cobra.Command{
	Use:   "remove [item-id] [language] [version]",
	Short: "Remove one version",
	Args:  cobra.ExactArgs(3),
	RunE:  runVersionsRemove,
}

var versionsClearCmd = &cobra.Command{
	Use:   "clear [item-id] [language]",
	Short: "Remove every version of a language, or of all languages",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runVersionsClear,
}

// versionsFrom is the version add copies fields from; zero copies nothing.
var versionsFrom int

func init() {
	versionsAddCmd.Flags().IntVar(&versionsFrom, "from", 0, "Existing version to copy fields from")

	versionsCmd.AddCommand(versionsListCmd)
	versionsCmd.AddCommand(versionsAddCmd)
	versionsCmd.AddCommand(versionsRemoveCmd)
	versionsCmd.AddCommand(versionsClearCmd)
	rootCmd.AddCommand(versionsCmd)
}

func runVersionsList(cmd *cobra.Command, args []string) error {
	p, err := dataProvider()
	if err != nil {
		return err
	}
	id, err := parseID("item id", args[0])
	if err != nil {
		return err
	}
	uris, ok := p.Versions(id)
	if !ok {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	st := newStyles(cmd.OutOrStdout())
	if len(uris) == 0 {
		cmd.Println(st.Muted("No versions."))
		return nil
	}
	for _, uri := range uris {
		cmd.Printf("%-10s %d\n", uri.Language, uri.Version)
	}
	return nil
}

func runVersionsAdd(cmd *cobra.Command, args []string) error {
	p, err := dataProvider()
	if err != nil {
		return err
	}
	id, err := parseID("item id", args[0])
	if err != nil {
		return err
	}
	language, err := parseLanguage(args[1])
	if err != nil {
		return err
	}
	if language.IsInvariant() {
		return fmt.Errorf("versions need a language: %w", domain.ErrInvalidInput)
	}
	if versionsFrom < 0 {
		return fmt.Errorf("invalid version: %w", domain.ErrInvalidInput)
	}

	n, ok, err := p.AddVersion(cmd.Context(), id, domain.NewVersionURI(language, domain.Version(versionsFrom)))
	if err != nil {
		return fmt.Errorf("failed to add version: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to add version to %s: %w", id, errRejected)
	}
	cmd.Printf("Added version %s\n", domain.NewVersionURI(language, n))
	return nil
}

func runVersionsRemove(cmd *cobra.Command, args []string) error {
	p, err := dataProvider()
	if err != nil {
		return err
	}
	id, err := parseID("item id", args[0])
	if err != nil {
		return err
	}
	language, err := parseLanguage(args[1])
	if err != nil {
		return err
	}
	n, err := domain.ParseVersion(args[2])
	if err != nil {
		return fmt.Errorf("invalid version: %w", err)
	}
	uri := domain.NewVersionURI(language, n)

	ok, err := p.RemoveVersion(cmd.Context(), id, uri)
	if err != nil {
		return fmt.Errorf("failed to remove version: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to remove version %s of %s: %w", uri, id, errRejected)
	}
	cmd.Printf("Removed version %s\n", uri)
	return nil
}

func runVersionsClear(cmd *cobra.Command, args []string) error {
	p, err := dataProvider()
	if err != nil {
		return err
	}
	id, err := parseID("item id", args[0])
	if err != nil {
		return err
	}
	language := domain.Invariant
	if len(args) == 2 {
		if language, err = parseLanguage(args[1]); err != nil {
			return err
		}
	}

	ok, err := p.RemoveVersions(cmd.Context(), id, language)
	if err != nil {
		return fmt.Errorf("failed to remove versions: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to remove versions of %s: %w", id, errRejected)
	}
	if language.IsInvariant() {
		cmd.Printf("Removed all versions of %s\n", id)
	} else {
		cmd.Printf("Removed %s versions of %s\n", language, id)
	}
	return nil
}
