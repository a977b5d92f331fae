package layout

// Card is one tile of the two-column metric grid
type Card struct {
	Label string
	Value string
	Tone  Tone
}

// CardWidth is the width of one grid slot
func (d *Document) CardWidth() float64 {
	return (d.ContentWidth() - d.metrics.CardGutter) / 2
}

// AddCard places a card in the active grid column. The page break check only
// runs before a new row so a pair of cards is never split across pages.
func (d *Document) AddCard(st *LayoutState, card Card) {
	m := d.metrics
	if st.ActiveGridColumn == 0 {
		d.EnsureSpace(st, m.CardHeight)
	}

	w := d.CardWidth()
	x := d.margins.Left + float64(st.ActiveGridColumn)*(w+m.CardGutter)
	y := st.CursorY

	d.canvas.FillRect(x, y, w, m.CardHeight, ToneColor(card.Tone))
	d.canvas.Text(x+4, y+7, card.Label, m.CardLabelSize, Regular, ColorTextLight)
	d.canvas.Text(x+4, y+m.CardHeight-4, card.Value, m.CardValueSize, Bold, ColorTextLight)

	if st.ActiveGridColumn == 0 {
		st.ActiveGridColumn = 1
		return
	}
	st.ActiveGridColumn = 0
	st.CursorY += m.CardHeight + m.CardRowGap
}

// FlushGrid closes a row left open by an odd number of cards. It must run
// before any non-grid content follows the grid.
func (d *Document) FlushGrid(st *LayoutState) {
	if st.ActiveGridColumn == 0 {
		return
	}
	st.ActiveGridColumn = 0
	st.CursorY += d.metrics.CardHeight + d.metrics.CardRowGap
}
