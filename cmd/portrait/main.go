package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/colornames"
	"golang.org/x/term"
	"gonum.org/v1/plot/vg"

	"github.com/ATMO-IUP-UHEI/portrait"
	"github.com/ATMO-IUP-UHEI/portrait/utils"
)

const HelpBanner = `
┌─┐┌─┐┬─┐┌┬┐┬─┐┌─┐┬┌┬┐
├─┘│ │├┬┘ │ ├┬┘├─┤│ │
┴  └─┘┴└─ ┴ ┴└─┴ ┴┴ ┴
Portrait (Gleckler) plot renderer.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// spinner used to instantiate and call the progress indicator.
var spinner *utils.Spinner

// Version indicates the current build version.
var Version string

var (
	// Flags
	source       = flag.String("in", pipeName, "Source grid document (JSON)")
	destination  = flag.String("out", pipeName, "Destination file")
	cmap         = flag.String("cmap", "viridis", "Colormap name")
	edgeColor    = flag.String("edge", "black", "Triangle edge color (name or #rrggbb)")
	lineWidth    = flag.Float64("width", 0.3, "Edge line width in points")
	addColorbar  = flag.Bool("cbar", false, "Display a colorbar")
	cbarLabel    = flag.String("cbar-label", "", "Colorbar axis label")
	legendTitle  = flag.String("legend-title", "", "Legend inset title")
	legendLabels = flag.String("legend-labels", "", "Comma separated legend labels, one per triangle")
	vmin         = flag.Float64("vmin", 0, "Lower normalization bound")
	vmax         = flag.Float64("vmax", 0, "Upper normalization bound (values derived from data when vmin >= vmax)")
	figHeight    = flag.Float64("height", 6, "Figure height in inches")
	outScale     = flag.Int("scale", 1, "Integer upscale factor for raster output")
	outFormat    = flag.String("format", "", "Output format, defaults to the destination file extension (png when piping)")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	edge, err := parseColor(*edgeColor)
	if err != nil {
		log.Fatalf(utils.DecorateText("Invalid edge color: %v\n", utils.ErrorMessage), err)
	}

	proc := &portrait.Processor{
		Cmap:        *cmap,
		EdgeColor:   edge,
		LineWidth:   vg.Points(*lineWidth),
		Vmin:        *vmin,
		Vmax:        *vmax,
		AddColorbar: *addColorbar,
		CbarLabel:   *cbarLabel,
		LegendTitle: *legendTitle,
		FigHeight:   vg.Length(*figHeight) * vg.Inch,
		Format:      resolveFormat(*outFormat, *destination),
	}
	if *legendLabels != "" {
		proc.LegendLabels = strings.Split(*legendLabels, ",")
	}

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("◩ PORTRAIT", utils.StatusMessage),
		utils.DecorateText("is rendering the plot...", utils.DefaultMessage))
	spinner = utils.NewSpinner(spinnerText, time.Millisecond*200, true)

	now := time.Now()
	err = render(*source, *destination, proc)
	printStatus(*destination, err)

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

// render reads the grid document, runs the processor and writes the figure to
// the destination.
func render(in, out string, proc *portrait.Processor) error {
	src, dst, err := pathToFile(in, out)
	if err != nil {
		return err
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}
	if c, ok := dst.(io.Closer); ok {
		defer c.Close()
	}

	// Capture CTRL-C signal and restore the cursor visibility back.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		spinner.RestoreCursor()
		os.Exit(1)
	}()

	// Start the progress indicator.
	spinner.Start()
	if *outScale > 1 {
		err = renderScaled(src, dst, proc)
	} else {
		err = proc.Process(src, dst)
	}

	spinner.StopMsg = fmt.Sprintf("%s %s",
		utils.DecorateText("◩ PORTRAIT", utils.StatusMessage),
		utils.DecorateText("is rendering the plot... ✔", utils.DefaultMessage))

	// Stop the progress indicator.
	spinner.Stop()

	return err
}

// renderScaled rasterizes the figure and upscales it before encoding. Only
// the raster formats supported by the imaging package are accepted here.
func renderScaled(src io.Reader, dst io.Writer, proc *portrait.Processor) error {
	format, err := imaging.FormatFromExtension(proc.Format)
	if err != nil {
		return fmt.Errorf("the scale option requires a raster output format, got %q", proc.Format)
	}

	g, err := portrait.DecodeGrid(src)
	if err != nil {
		return err
	}
	fig, err := proc.Render(g)
	if err != nil {
		return err
	}

	img := fig.Image()
	img = imaging.Resize(img, img.Bounds().Dx()*(*outScale), 0, imaging.Lanczos)
	return imaging.Encode(dst, img, format)
}

// resolveFormat picks the output encoding: the explicit flag wins, then the
// destination file extension, then png.
func resolveFormat(format, out string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	if ext := filepath.Ext(out); out != pipeName && ext != "" {
		return strings.ToLower(strings.TrimPrefix(ext, "."))
	}
	return "png"
}

// parseColor resolves a named color or a #rrggbb(aa) hex string.
func parseColor(s string) (color.Color, error) {
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	return portrait.ParseHexColor(s)
}

// pathToFile converts the source and destination paths to readable and writable files.
func pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if in == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %v", err)
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == pipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to create the destination file: %v", err)
		}
	}
	return src, dst, nil
}

// printStatus displays the relevant information about the rendering process.
func printStatus(fname string, err error) {
	if err != nil {
		log.Fatalf("%s%s",
			utils.DecorateText("\nError rendering the plot:", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
		)
	}
	if fname != pipeName {
		fmt.Fprintf(os.Stderr, "\nThe plot has been saved as: %s %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
}
