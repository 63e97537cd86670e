package trades

// Comment is a user annotation attached to a trade by ticket. The remote
// store holds the authoritative copy; the local one is advisory until the
// next reconciliation.
type Comment struct {
	Text         string `json:"text"`
	Satisfaction int    `json:"satisfaction" validate:"min=0,max=5"`
	Confidence   int    `json:"confiance" validate:"min=0,max=5"`
	Attente      string `json:"attente"`
	Date         string `json:"date,omitempty"`
	Status       string `json:"status,omitempty"`
	Printer      string `json:"printer,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// Empty reports whether the comment carries no user content. A valid save
// requires at least one of Text or Attente to be non-empty.
func (c Comment) Empty() bool {
	return c.Text == "" && c.Attente == ""
}

// AccountSnapshot is the account state as of the last poll. It is replaced
// wholesale on every refresh; there are no partial updates.
type AccountSnapshot struct {
	Balance    float64 `json:"balance"`
	Equity     float64 `json:"equity"`
	FreeMargin float64 `json:"free_margin"`
	Margin     float64 `json:"margin"`
	Leverage   int     `json:"leverage"`
	Number     int64   `json:"number"`
	Currency   string  `json:"currency"`
	Name       string  `json:"name"`
}
