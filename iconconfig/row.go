package iconconfig

// Row is one record of the property grid. ID must return a comparable value;
// it identifies the row independently of where it is displayed.
type Row interface {
	ID() any
	Field(name string) (any, bool)
}

// MapRow is a Row backed by a map of field values.
type MapRow struct {
	RowID  any
	Fields map[string]any
}

func (r MapRow) ID() any { return r.RowID }

func (r MapRow) Field(name string) (any, bool) {
	v, ok := r.Fields[name]
	return v, ok
}
