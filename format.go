package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/robalobadob/liquidsort/apps/go-server/internal/game"
)

// printLayouts writes one line per bottle, bottom segment first:
//
//	#0  red 0.3 | blue 0.5 | red 0.2 | -
func printLayouts(w io.Writer, layouts []game.Layout) {
	for _, l := range layouts {
		parts := make([]string, len(l.Segments))
		for i, s := range l.Segments {
			if s.Liquid == nil {
				parts[i] = "-"
				continue
			}
			parts[i] = fmt.Sprintf("%s %.1f", s.Liquid.Name, s.Amount)
		}
		fmt.Fprintf(w, "#%-2d %s\n", l.Slot, strings.Join(parts, " | "))
	}
}
