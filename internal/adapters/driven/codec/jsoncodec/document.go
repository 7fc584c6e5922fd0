package jsoncodec

import (
	"fmt"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
)

// itemDoc is the persisted form of one item.
type itemDoc struct {
	ID         domain.ID  `json:"ID"`
	Name       string     `json:"Name"`
	TemplateID domain.ID  `json:"TemplateID"`
	Fields     *fieldsDoc `json:"Fields"`
	Children   []*itemDoc `json:"Children"`
}

type fieldsDoc struct {
	Shared      *domain.FieldMap          `json:"Shared"`
	Unversioned *domain.UnversionedFields `json:"Unversioned"`
	Versioned   *domain.VersionedFields   `json:"Versioned"`
}

func newItemDocs(items []*domain.Item) []*itemDoc {
	docs := make([]*itemDoc, 0, len(items))
	for _, item := range items {
		docs = append(docs, newItemDoc(item))
	}
	return docs
}

func newItemDoc(item *domain.Item) *itemDoc {
	fields := item.Fields
	if fields == nil {
		fields = domain.NewItemFields()
	}
	return &itemDoc{
		ID:         item.ID,
		Name:       item.Name,
		TemplateID: item.TemplateID,
		Fields: &fieldsDoc{
			Shared:      fields.Shared,
			Unversioned: fields.Unversioned,
			Versioned:   fields.Versioned,
		},
		Children: newItemDocs(item.Children),
	}
}

// toItems converts decoded documents to items. Null entries are skipped.
func toItems(docs []*itemDoc) ([]*domain.Item, error) {
	var items []*domain.Item
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		item, err := doc.toItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (d *itemDoc) toItem() (*domain.Item, error) {
	if d.ID.IsNull() {
		return nil, fmt.Errorf("item %q has no ID", d.Name)
	}
	item := domain.NewItem(d.ID, d.Name, d.TemplateID, domain.NullID)
	if f := d.Fields; f != nil {
		if f.Shared != nil {
			item.Fields.Shared = f.Shared
		}
		if f.Unversioned != nil {
			item.Fields.Unversioned = f.Unversioned
		}
		if f.Versioned != nil {
			item.Fields.Versioned = f.Versioned
		}
	}
	children, err := toItems(d.Children)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.ID, err)
	}
	item.Children = children
	return item, nil
}
