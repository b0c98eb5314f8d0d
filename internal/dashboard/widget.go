// Package dashboard owns the widget layout: which widget kinds are placed, in
// what order and style, which remain available, and how the layout survives
// restarts.
package dashboard

// Content renders a widget body. It is never persisted; it is re-attached from
// the catalog by widget id.
type Content interface {
	Render(width, height int) string
}

// Widget is the runtime shape of a placed or catalog widget. ID identifies the
// widget kind, not a placement.
type Widget struct {
	ID              int
	Label           string
	Content         Content
	Rows            *int
	Columns         *int
	BackgroundColor *string
	Color           *string
}

// HasContent reports whether a renderable body is attached.
func (w Widget) HasContent() bool { return w.Content != nil }

// Persisted strips the content handle.
func (w Widget) Persisted() PersistedWidget {
	return PersistedWidget{
		ID:              w.ID,
		Label:           w.Label,
		Rows:            w.Rows,
		Columns:         w.Columns,
		BackgroundColor: w.BackgroundColor,
		Color:           w.Color,
	}
}

// PersistedWidget is the stored shape of a placed widget.
type PersistedWidget struct {
	ID              int     `json:"id"`
	Label           string  `json:"label"`
	Rows            *int    `json:"rows,omitempty"`
	Columns         *int    `json:"columns,omitempty"`
	BackgroundColor *string `json:"backgroundColor,omitempty"`
	Color           *string `json:"color,omitempty"`
}

// WithContent returns the runtime shape carrying content (which may be nil).
func (p PersistedWidget) WithContent(content Content) Widget {
	return Widget{
		ID:              p.ID,
		Label:           p.Label,
		Content:         content,
		Rows:            p.Rows,
		Columns:         p.Columns,
		BackgroundColor: p.BackgroundColor,
		Color:           p.Color,
	}
}

// WidgetPatch is a partial update; nil fields are left untouched.
type WidgetPatch struct {
	Label           *string
	Rows            *int
	Columns         *int
	BackgroundColor *string
	Color           *string
}

func (p WidgetPatch) Apply(w Widget) Widget {
	if p.Label != nil {
		w.Label = *p.Label
	}
	if p.Rows != nil {
		w.Rows = p.Rows
	}
	if p.Columns != nil {
		w.Columns = p.Columns
	}
	if p.BackgroundColor != nil {
		w.BackgroundColor = p.BackgroundColor
	}
	if p.Color != nil {
		w.Color = p.Color
	}
	return w
}

func (p WidgetPatch) IsEmpty() bool {
	return p == WidgetPatch{}
}
