package report

import (
	"fmt"
	"strings"

	"github.com/inspectsim/inspectsim/pkg/config"
	"github.com/inspectsim/inspectsim/pkg/consignment"
)

// Mode selects what the text renderer prints per box.
type Mode int

const (
	ModeItems Mode = iota
	ModeBoxes
	ModeBoxesOnly
)

// RenderText renders one consignment as a line of glyphs with a header,
// one glyph per item (contaminated vs. clean) separated by a box-delimiter
// glyph (spec.md §6), configurable via PrettyConfig.
func RenderText(c *consignment.Consignment, cfg config.PrettyConfig, mode Mode) string {
	var b strings.Builder

	header := fmt.Sprintf("%s Consignment %s Boxes: %d %s Items: %d %s\n",
		strings.Repeat(cfg.HorizontalLine, 2), strings.Repeat(cfg.HorizontalLine, 2),
		c.Boxes, strings.Repeat(cfg.HorizontalLine, 2), c.ItemCount(), strings.Repeat(cfg.HorizontalLine, 2))
	b.WriteString(header)

	spaces := strings.Repeat(" ", cfg.Spaces)

	for box := 0; box < c.Boxes; box++ {
		if box > 0 {
			b.WriteString(spaces + cfg.BoxLine + spaces)
		}
		if mode == ModeBoxesOnly {
			b.WriteString(boxGlyph(c, cfg, box))
			continue
		}
		start, end := c.BoxRange(box)
		for i := start; i < end; i++ {
			if i > start {
				b.WriteString(spaces)
			}
			b.WriteString(itemGlyph(c, cfg, i))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func itemGlyph(c *consignment.Consignment, cfg config.PrettyConfig, item int) string {
	if c.ItemContaminated.Test(uint(item)) {
		return cfg.Bug
	}
	return cfg.Flower
}

func boxGlyph(c *consignment.Consignment, cfg config.PrettyConfig, box int) string {
	if c.BoxContaminated(box) {
		return cfg.Bug
	}
	return cfg.Flower
}
