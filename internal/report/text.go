package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteText renders t as an aligned plain-text table for terminals.
func WriteText(w io.Writer, t Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	var b strings.Builder
	b.WriteString("\t")
	for _, a := range t.Ages {
		fmt.Fprintf(&b, "age %d\t", a)
	}
	fmt.Fprintln(tw, b.String())
	for _, r := range t.Rows {
		b.Reset()
		b.WriteString(r.Name + "\t")
		for _, v := range r.Values {
			fmt.Fprintf(&b, "%.2f\t", v)
		}
		fmt.Fprintln(tw, b.String())
	}
	return tw.Flush()
}
