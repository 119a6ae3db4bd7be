package consignment

import (
	"fmt"
	"time"

	"github.com/bits-and-blooms/bitset"
)

// Consignment is one shipment: Boxes boxes, each holding ItemsPerBox items,
// for a total of ItemCount() items. ItemContaminated and ItemInspected are
// compact bit arrays (≈1 bit/item) rather than []bool, since a realistic
// workload can reach 500 boxes × 1,000 items = 500,000 items per
// consignment (spec.md §9).
type Consignment struct {
	ID          string
	Boxes       int
	ItemsPerBox int

	Commodity string
	Origin    string
	Port      string
	Pathway   string
	Date      time.Time

	ItemContaminated *bitset.BitSet
	ItemInspected    *bitset.BitSet
}

// New creates an empty (uncontaminated, uninspected) consignment of the
// given shape and categorical attributes.
func New(id string, boxes, itemsPerBox int, commodity, origin, port, pathway string, date time.Time) *Consignment {
	n := uint(boxes * itemsPerBox)
	return &Consignment{
		ID:               id,
		Boxes:            boxes,
		ItemsPerBox:      itemsPerBox,
		Commodity:        commodity,
		Origin:           origin,
		Port:             port,
		Pathway:          pathway,
		Date:             date,
		ItemContaminated: bitset.New(n),
		ItemInspected:    bitset.New(n),
	}
}

// ItemCount returns N = Boxes * ItemsPerBox.
func (c *Consignment) ItemCount() int {
	return c.Boxes * c.ItemsPerBox
}

// BoxRange returns the [start, end) item-index range belonging to box b.
// Panics if b is out of [0, Boxes).
func (c *Consignment) BoxRange(b int) (start, end int) {
	if b < 0 || b >= c.Boxes {
		panic(fmt.Sprintf("consignment: box index %d out of range [0,%d)", b, c.Boxes))
	}
	return b * c.ItemsPerBox, (b + 1) * c.ItemsPerBox
}

// BoxOf returns the box index that contains item index i.
func (c *Consignment) BoxOf(item int) int {
	if c.ItemsPerBox == 0 {
		return 0
	}
	return item / c.ItemsPerBox
}

// BoxContaminated reports whether any item in box b is contaminated (I2).
func (c *Consignment) BoxContaminated(b int) bool {
	start, end := c.BoxRange(b)
	for i := start; i < end; i++ {
		if c.ItemContaminated.Test(uint(i)) {
			return true
		}
	}
	return false
}

// ContaminatedItemCount returns sum(item_contaminated) (I1).
func (c *Consignment) ContaminatedItemCount() int {
	return int(c.ItemContaminated.Count())
}

// InspectedItemCount returns the number of items examined during inspection.
func (c *Consignment) InspectedItemCount() int {
	return int(c.ItemInspected.Count())
}

// ContaminatedBoxCount returns the number of boxes with at least one
// contaminated item.
func (c *Consignment) ContaminatedBoxCount() int {
	count := 0
	for b := 0; b < c.Boxes; b++ {
		if c.BoxContaminated(b) {
			count++
		}
	}
	return count
}

// HasContamination reports whether any item in the consignment is
// contaminated; used for slippage reporting (§4.3 observation).
func (c *Consignment) HasContamination() bool {
	return c.ItemContaminated.Count() > 0
}

// TrueContaminationRate returns the realized item-level contamination rate,
// 0 for an empty consignment.
func (c *Consignment) TrueContaminationRate() float64 {
	n := c.ItemCount()
	if n == 0 {
		return 0
	}
	return float64(c.ContaminatedItemCount()) / float64(n)
}
