/*
Package portrait renders portrait (Gleckler) plots: grids of tiles where each
tile is subdivided into two or four triangles, colored either by mapping scalar
values through a colormap or by explicit RGBA values. The plots are built on
top of gonum/plot and can be annotated with a colorbar and a legend inset.

The package provides a command line interface, supporting various flags for the
different rendering options. To check the supported commands type:

	$ portrait --help

In case you wish to integrate the API in a self constructed environment here is
a simple example:

	package main

	import (
		"fmt"
		"os"

		"github.com/ATMO-IUP-UHEI/portrait"
	)

	func main() {
		g, err := portrait.NewGrid(values)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid grid: %s", err)
			os.Exit(1)
		}

		p := &portrait.Processor{
			Cmap:        "viridis",
			AddColorbar: true,
		}
		fig, err := p.Render(g)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error rendering the plot: %s", err)
			os.Exit(1)
		}
		if err := fig.Save("portrait.png"); err != nil {
			fmt.Fprintf(os.Stderr, "error saving the plot: %s", err)
			os.Exit(1)
		}
	}
*/
package portrait
