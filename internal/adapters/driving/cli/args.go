package cli

import (
	"errors"
	"fmt"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driving"
)

// errRejected reports a mutation whose target could not be resolved.
var errRejected = errors.New("item not found or mapping not writable")

func parseID(what, arg string) (domain.ID, error) {
	id, err := domain.ParseID(arg)
	if err != nil {
		return domain.NullID, fmt.Errorf("invalid %s: %w", what, err)
	}
	return id, nil
}

// parseIDs parses one id per argument, named by what.
func parseIDs(args []string, what ...string) ([]domain.ID, error) {
	ids := make([]domain.ID, len(args))
	for i, arg := range args {
		id, err := parseID(what[i], arg)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// optionalID parses arg, or returns fallback when arg is empty.
func optionalID(what, arg string, fallback func() domain.ID) (domain.ID, error) {
	if arg == "" {
		return fallback(), nil
	}
	return parseID(what, arg)
}

func parseLanguage(arg string) (domain.Language, error) {
	language, err := domain.ParseLanguage(arg)
	if err != nil {
		return domain.Invariant, fmt.Errorf("invalid language: %w", err)
	}
	return language, nil
}

// versionURI builds the revision coordinates for an item. A version of
// zero selects the latest version of the language, if there is one.
func versionURI(p driving.DataProvider, itemID domain.ID, languageArg string, version int) (domain.VersionURI, error) {
	language, err := parseLanguage(languageArg)
	if err != nil {
		return domain.VersionURI{}, err
	}
	if version < 0 {
		return domain.VersionURI{}, fmt.Errorf("invalid version: %w", domain.ErrInvalidInput)
	}
	uri := domain.NewVersionURI(language, domain.Version(version))
	if version == 0 {
		uri.Version = latestVersion(p, itemID, language)
	}
	return uri, nil
}

func latestVersion(p driving.DataProvider, itemID domain.ID, language domain.Language) domain.Version {
	var latest domain.Version
	uris, _ := p.Versions(itemID)
	for _, uri := range uris {
		if uri.Language == language {
			latest = max(latest, uri.Version)
		}
	}
	return latest
}

// itemLabel returns "Name {ID}", or the bare id for an unknown item.
func itemLabel(p driving.DataProvider, st *styles, id domain.ID) string {
	if def, ok := p.ItemDefinition(id); ok {
		return st.Name(def.Name) + " " + st.ID(id.String())
	}
	return st.ID(id.String())
}

// fieldLabel returns a field's registered name, or its id.
func fieldLabel(p driving.DataProvider, id domain.ID) string {
	if def, ok := p.FieldResolver().Lookup(id.String()); ok && def.Name != "" {
		return def.Name
	}
	return id.String()
}
