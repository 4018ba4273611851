package sprite

import (
	"path/filepath"
)

// Cache loads sheets from a directory once and keeps them for the process
// lifetime. Sheets are immutable so actors share them.
type Cache struct {
	dir    string
	sheets map[string]*Sheet
	bytes  int
}

func NewCache(dir string) *Cache {
	return &Cache{dir: dir, sheets: make(map[string]*Sheet)}
}

// Get returns the named sheet, loading it on first use.
func (c *Cache) Get(name string) (*Sheet, error) {
	if s, ok := c.sheets[name]; ok {
		return s, nil
	}
	s, err := Load(filepath.Join(c.dir, name))
	if err != nil {
		return nil, err
	}
	s.Name = name
	c.sheets[name] = s
	c.bytes += s.Size()
	return s, nil
}

// Put registers an already decoded sheet under name.
func (c *Cache) Put(name string, s *Sheet) {
	if old, ok := c.sheets[name]; ok {
		c.bytes -= old.Size()
	}
	s.Name = name
	c.sheets[name] = s
	c.bytes += s.Size()
}

// Count returns the number of cached sheets.
func (c *Cache) Count() int { return len(c.sheets) }

// Bytes returns the encoded size of all cached sheets.
func (c *Cache) Bytes() int { return c.bytes }
