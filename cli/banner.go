package cli

import (
	"fmt"
	"io"
)

const asciiTitle = `██████╗  ██████╗      ██╗███████╗███████╗ █████╗ ██████╗  ██████╗██╗  ██╗
██╔══██╗██╔═══██╗     ██║██╔════╝██╔════╝██╔══██╗██╔══██╗██╔════╝██║  ██║
██║  ██║██║   ██║     ██║███████╗█████╗  ███████║██████╔╝██║     ███████║
██║  ██║██║   ██║██   ██║╚════██║██╔══╝  ██╔══██║██╔══██╗██║     ██╔══██║
██████╔╝╚██████╔╝╚█████╔╝███████║███████╗██║  ██║██║  ██║╚██████╗██║  ██║
╚═════╝  ╚═════╝  ╚════╝ ╚══════╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝`

// printBanner writes the startup banner. Shown on a bare invocation,
// before the generated usage text.
func printBanner(w io.Writer) {
	fmt.Fprintln(w, bannerStyle.Render(asciiTitle))
	fmt.Fprintln(w, taglineStyle.Render("DOJ multimedia-search metadata client"))
	fmt.Fprintln(w)
}
