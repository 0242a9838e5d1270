package clickhouse

import (
	"context"
	"fmt"

	"github.com/ydb-platform/clickhouse-adapter/app/adapter"
)

const (
	typeLabelDatabase = "s"
	typeLabelTable    = "t"
	typeLabelView     = "v"
)

// catalogBuilder materializes the whole database -> relation -> column tree
// eagerly. Any failure aborts the build; a partial tree is never returned.
type catalogBuilder struct {
	introspector *introspector
}

func (b *catalogBuilder) build(ctx context.Context) (*adapter.Catalog, error) {
	databases, err := b.introspector.listDatabases(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*adapter.CatalogItem, 0, len(databases))

	for _, database := range databases {
		item, err := b.buildDatabase(ctx, database)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return &adapter.Catalog{Items: items}, nil
}

func (b *catalogBuilder) buildDatabase(ctx context.Context, database string) (*adapter.CatalogItem, error) {
	relations, err := b.introspector.listRelations(ctx, database)
	if err != nil {
		return nil, err
	}

	children := make([]*adapter.CatalogItem, 0, len(relations))

	for _, rel := range relations {
		item, err := b.buildRelation(ctx, database, rel)
		if err != nil {
			return nil, err
		}

		children = append(children, item)
	}

	id := quoteIdentifier(database)

	return &adapter.CatalogItem{
		QualifiedIdentifier: id,
		QueryName:           id,
		Label:               database,
		TypeLabel:           typeLabelDatabase,
		Children:            children,
	}, nil
}

func (b *catalogBuilder) buildRelation(ctx context.Context, database string, rel relation) (*adapter.CatalogItem, error) {
	columns, err := b.introspector.listColumns(ctx, database, rel.name)
	if err != nil {
		return nil, err
	}

	id := fmt.Sprintf("%s.%s", quoteIdentifier(database), quoteIdentifier(rel.name))

	children := make([]*adapter.CatalogItem, 0, len(columns))
	for _, col := range columns {
		children = append(children, &adapter.CatalogItem{
			QualifiedIdentifier: fmt.Sprintf("%s.%s", id, quoteIdentifier(col.name)),
			QueryName:           quoteIdentifier(col.name),
			Label:               col.name,
			TypeLabel:           ShortType(col.rawType),
			Children:            []*adapter.CatalogItem{},
		})
	}

	typeLabel := typeLabelTable
	if rel.kind == relationKindView {
		typeLabel = typeLabelView
	}

	return &adapter.CatalogItem{
		QualifiedIdentifier: id,
		QueryName:           id,
		Label:               rel.name,
		TypeLabel:           typeLabel,
		Children:            children,
	}, nil
}

func quoteIdentifier(name string) string {
	return `"` + name + `"`
}
