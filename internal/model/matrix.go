package model

// MatrixRow is one row of the binary incidence matrix: a transaction and
// its item presence vector, aligned 1:1 with the catalog's column order.
type MatrixRow struct {
	TransactionID string
	Presence      []uint8
}

// Cells renders the row in the matrix artifact's cell layout: the
// transaction id followed by one "0"/"1" cell per catalog column.
func (r MatrixRow) Cells() []string {
	cells := make([]string, len(r.Presence)+1)
	cells[0] = r.TransactionID
	for i, p := range r.Presence {
		if p == 0 {
			cells[i+1] = "0"
		} else {
			cells[i+1] = "1"
		}
	}
	return cells
}
