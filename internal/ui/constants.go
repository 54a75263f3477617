// Package ui holds what the components share: sizing and layout numbers.
package ui

const (
	// ScrollMargin keeps this many rows visible past the cursor.
	ScrollMargin = 3

	// BorderHeight is the top and bottom border of a panel.
	BorderHeight = 2

	// PanelOverhead is the border plus the column header and its rule;
	// the rows of a panel are its height minus this.
	PanelOverhead = BorderHeight + 2

	// MinProgressBarWidth is the narrowest progress bar worth drawing.
	MinProgressBarWidth = 5

	// StatusHeight is the status line under the song list.
	StatusHeight = 1
)
