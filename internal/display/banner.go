package display

import (
	"fmt"
	"io"

	"github.com/backmassage/fixbatch/internal/term"
)

// PrintBanner writes the ASCII art banner to w; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, ` _____ _      ____        _       _
|  ___(_)_  _| __ )  __ _| |_ ___| |__
| |_  | \ \/ /  _ \ / _`+"`"+` | __/ __| '_ \
|  _| | |>  <| |_) | (_| | || (__| | | |
|_|   |_/_/\_\____/ \__,_|\__\___|_| |_|
`)
	if term.Enabled() {
		fmt.Fprintln(w, term.NC)
	}
}
