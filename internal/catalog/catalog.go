package catalog

import "fmt"

// Flavor is one of the four chickpea chip flavors sold.
type Flavor string

const (
	FlavorCheese    Flavor = "Cheese"
	FlavorSourCream Flavor = "Sour Cream"
	FlavorBBQ       Flavor = "BBQ"
	FlavorOriginal  Flavor = "Original"
)

// Size is the packaging variant. Pouches are 100g, tubs are 200g.
type Size string

const (
	SizePouch Size = "Pouch"
	SizeTub   Size = "Tub"
)

// Entry is one orderable product variant. Entries are immutable after load.
type Entry struct {
	Code      string
	Name      string
	Flavor    Flavor
	Size      Size
	UnitPrice int
}

// Catalog is the fixed product table, loaded once at startup and never mutated.
type Catalog struct {
	entries []Entry
	byCode  map[string]Entry
}

// Default returns the catalog with the eight fixed entries (4 flavors x 2 sizes).
func Default() *Catalog {
	entries := []Entry{
		{Code: "P-CHZ", Name: "Cheese", Flavor: FlavorCheese, Size: SizePouch, UnitPrice: 150},
		{Code: "P-SC", Name: "Sour Cream", Flavor: FlavorSourCream, Size: SizePouch, UnitPrice: 150},
		{Code: "P-BBQ", Name: "BBQ", Flavor: FlavorBBQ, Size: SizePouch, UnitPrice: 150},
		{Code: "P-OG", Name: "Original Blend", Flavor: FlavorOriginal, Size: SizePouch, UnitPrice: 150},
		{Code: "2L-CHZ", Name: "Cheese", Flavor: FlavorCheese, Size: SizeTub, UnitPrice: 290},
		{Code: "2L-SC", Name: "Sour Cream", Flavor: FlavorSourCream, Size: SizeTub, UnitPrice: 290},
		{Code: "2L-BBQ", Name: "BBQ", Flavor: FlavorBBQ, Size: SizeTub, UnitPrice: 290},
		{Code: "2L-OG", Name: "Original Spice Blend", Flavor: FlavorOriginal, Size: SizeTub, UnitPrice: 290},
	}
	c := &Catalog{
		entries: entries,
		byCode:  make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		c.byCode[e.Code] = e
	}
	if err := c.validate(); err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) validate() error {
	for _, e := range c.entries {
		if e.Code == "" || e.UnitPrice <= 0 {
			return fmt.Errorf("catalog: invalid entry %+v", e)
		}
		if _, ok := c.ByFlavorSize(e.Flavor, e.Size); !ok {
			return fmt.Errorf("catalog: unreachable variant %s/%s", e.Flavor, e.Size)
		}
	}
	return nil
}

// Lookup finds an entry by exact product code.
func (c *Catalog) Lookup(code string) (Entry, bool) {
	e, ok := c.byCode[code]
	return e, ok
}

// ByFlavorSize finds the entry for a flavor/size combination.
func (c *Catalog) ByFlavorSize(f Flavor, s Size) (Entry, bool) {
	for _, e := range c.entries {
		if e.Flavor == f && e.Size == s {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns the catalog in its fixed order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}
