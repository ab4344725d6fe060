package dto

// EditorTable is the JSON shape of a table in the editing UI: named columns
// and one map per row. Cell values are strings on the wire except for the
// fields the editor types specially (checkboxes as booleans, day sets as
// string lists).
type EditorTable struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// SaveTableRequest is a full-table overwrite from the editor. Filtered is set
// by clients whose current view hides rows; saving such a view would silently
// delete the hidden rows, so the server rejects it.
type SaveTableRequest struct {
	Columns  []string         `json:"columns" binding:"required"`
	Rows     []map[string]any `json:"rows"`
	Filtered bool             `json:"filtered"`
}
