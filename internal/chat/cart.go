package chat

// BookRef carries enough display metadata to render a cart row or a
// recommendation card. Identity is keyed by ID when one is known; a book
// that arrives without a stable id (older classifier payloads) falls back
// to its title.
type BookRef struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	PriceCents  int64  `json:"priceCents"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Pages       int    `json:"pages,omitempty"`
	ReleaseYear int    `json:"releaseYear,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

func (b BookRef) key() string {
	if b.ID != "" {
		return b.ID
	}
	return b.Title
}

type CartLine struct {
	Book     BookRef `json:"book"`
	Quantity int     `json:"quantity"`
}

// Cart is a per-session line store, keyed by book identity with insertion
// order preserved. Not safe for concurrent use; the owning session's lock
// guards it.
type Cart struct {
	lines map[string]*CartLine
	order []string
}

func NewCart() *Cart {
	return &Cart{lines: make(map[string]*CartLine)}
}

// Add inserts the book with quantity 1, or increments the existing line.
// Returns the line's quantity after the add.
func (c *Cart) Add(book BookRef) int {
	k := book.key()
	if line, ok := c.lines[k]; ok {
		line.Quantity++
		return line.Quantity
	}
	c.lines[k] = &CartLine{Book: book, Quantity: 1}
	c.order = append(c.order, k)
	return 1
}

// Remove deletes the line for the given key. Removing an absent key is a
// no-op, not an error.
func (c *Cart) Remove(key string) {
	if _, ok := c.lines[key]; !ok {
		return
	}
	delete(c.lines, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Lines returns the cart lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, *c.lines[k])
	}
	return out
}

// TotalCents is recomputed from the lines on every call, never cached.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, line := range c.lines {
		total += line.Book.PriceCents * int64(line.Quantity)
	}
	return total
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Clear() {
	c.lines = make(map[string]*CartLine)
	c.order = nil
}
