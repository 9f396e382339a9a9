package schema

// CatalogTitleTable represents the 'catalog.title' table
type CatalogTitleTable struct {
	Table       string
	ID          string
	Name        string
	Year        string
	Description string
	CategoryID  string
}

// CatalogTitle is the schema definition for catalog.title
var CatalogTitle = CatalogTitleTable{
	Table:       "catalog.title",
	ID:          "id",
	Name:        "name",
	Year:        "year",
	Description: "description",
	CategoryID:  "categoryid",
}

func (t CatalogTitleTable) Columns() []string {
	return []string{t.ID, t.Name, t.Year, t.Description, t.CategoryID}
}

// CatalogTitleGenreTable represents the 'catalog.titlegenre' association table
type CatalogTitleGenreTable struct {
	Table   string
	ID      string
	TitleID string
	GenreID string
}

// CatalogTitleGenre is the schema definition for catalog.titlegenre
var CatalogTitleGenre = CatalogTitleGenreTable{
	Table:   "catalog.titlegenre",
	ID:      "id",
	TitleID: "titleid",
	GenreID: "genreid",
}

func (t CatalogTitleGenreTable) Columns() []string {
	return []string{t.ID, t.TitleID, t.GenreID}
}
