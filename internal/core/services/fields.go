package services

import (
	"strings"
	"sync"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driving"
)

// Ensure FieldRegistry implements the interface.
var _ driving.FieldResolver = (*FieldRegistry)(nil)

// FieldRegistry classifies fields by id or name. It always knows the
// well-known fields.
type FieldRegistry struct {
	mu     sync.RWMutex
	byID   map[domain.ID]domain.FieldDefinition
	byName map[string]domain.FieldDefinition
	order  []domain.ID
}

// NewFieldRegistry creates a registry holding the well-known fields and defs.
// A later definition with the same id replaces an earlier one.
func NewFieldRegistry(defs ...domain.FieldDefinition) *FieldRegistry {
	r := &FieldRegistry{
		byID:   make(map[domain.ID]domain.FieldDefinition),
		byName: make(map[string]domain.FieldDefinition),
	}
	for _, def := range domain.WellKnownFields {
		r.Register(def)
	}
	for _, def := range defs {
		r.Register(def)
	}
	return r
}

// Register adds or replaces a definition.
func (r *FieldRegistry) Register(def domain.FieldDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byID[def.ID]; ok {
		delete(r.byName, strings.ToLower(old.Name))
	} else {
		r.order = append(r.order, def.ID)
	}
	r.byID[def.ID] = def
	if def.Name != "" {
		r.byName[strings.ToLower(def.Name)] = def
	}
}

// Scope returns the scope of a field, ScopeUnknown if undefined.
func (r *FieldRegistry) Scope(fieldID domain.ID) domain.FieldScope {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[fieldID].Scope
}

// Lookup resolves a field by id text or by case-insensitive name.
func (r *FieldRegistry) Lookup(nameOrID string) (domain.FieldDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, err := domain.ParseID(nameOrID); err == nil {
		if def, ok := r.byID[id]; ok {
			return def, true
		}
	}
	def, ok := r.byName[strings.ToLower(strings.TrimSpace(nameOrID))]
	return def, ok
}

// Definitions lists every known field in registration order.
func (r *FieldRegistry) Definitions() []domain.FieldDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]domain.FieldDefinition, 0, len(r.order))
	for _, id := range r.order {
		defs = append(defs, r.byID[id])
	}
	return defs
}
