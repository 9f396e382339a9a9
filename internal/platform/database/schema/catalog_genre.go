package schema

// CatalogGenreTable represents the 'catalog.genre' table
type CatalogGenreTable struct {
	Table string
	ID    string
	Name  string
	Slug  string
}

// CatalogGenre is the schema definition for catalog.genre
var CatalogGenre = CatalogGenreTable{
	Table: "catalog.genre",
	ID:    "id",
	Name:  "name",
	Slug:  "slug",
}

// UniqueGenreSlug is the uniqueness constraint on catalog.genre(slug).
const UniqueGenreSlug = "genre_unique_slug"

func (t CatalogGenreTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug}
}
