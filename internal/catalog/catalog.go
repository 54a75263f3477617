package catalog

import (
	"slices"
	"sync"
)

// Ticket identifies one fetch. Only the newest ticket may apply its result.
type Ticket uint64

// Catalog is the local copy of the song list. It is only as fresh as the
// last applied fetch.
type Catalog struct {
	mu     sync.Mutex
	songs  []Song
	gen    Ticket
	loaded bool
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Begin issues a ticket for a fetch about to start. It supersedes every
// ticket issued before it.
func (c *Catalog) Begin() Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen
}

// Invalidate supersedes in-flight fetches without starting a new one.
// Called when a mutation lands, before its refetch.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
}

// Current reports whether t is still the newest ticket.
func (c *Catalog) Current(t Ticket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return t == c.gen
}

// Apply replaces the list with songs if t is still current. It returns
// false, leaving the list untouched, for a superseded ticket.
func (c *Catalog) Apply(t Ticket, songs []Song) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t != c.gen {
		return false
	}
	c.songs = slices.Clone(songs)
	c.loaded = true
	return true
}

// Songs returns a copy of the list.
func (c *Catalog) Songs() []Song {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.songs)
}

// Len returns the number of songs.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.songs)
}

// Loaded reports whether any fetch has been applied.
func (c *Catalog) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Find returns the song with the given id.
func (c *Catalog) Find(id string) (Song, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.songs, func(s Song) bool { return s.ID == id })
	if i < 0 {
		return Song{}, false
	}
	return c.songs[i], true
}
