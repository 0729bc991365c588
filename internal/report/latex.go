package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`%`, `\%`,
	`&`, `\&`,
	`_`, `\_`,
	`#`, `\#`,
	`$`, `\$`,
)

// WriteLaTeX renders t as a booktabs tabular with the ages grouped under a
// common "Age" header. Values are printed with two decimals.
func WriteLaTeX(w io.Writer, t Table) error {
	bw := bufio.NewWriter(w)
	n := len(t.Ages)

	fmt.Fprintf(bw, "\\begin{tabular}{l%s}\n", strings.Repeat("r", n))
	fmt.Fprintln(bw, `\toprule`)
	fmt.Fprintf(bw, " & \\multicolumn{%d}{c}{Age} \\\\\n", n)
	fmt.Fprintf(bw, "\\cmidrule(lr){2-%d}\n", n+1)
	for _, a := range t.Ages {
		fmt.Fprintf(bw, " & %d", a)
	}
	fmt.Fprintln(bw, ` \\`)
	fmt.Fprintln(bw, `\midrule`)
	for _, r := range t.Rows {
		bw.WriteString(latexEscaper.Replace(r.Name))
		for _, v := range r.Values {
			fmt.Fprintf(bw, " & %.2f", v)
		}
		fmt.Fprintln(bw, ` \\`)
	}
	fmt.Fprintln(bw, `\bottomrule`)
	fmt.Fprintln(bw, `\end{tabular}`)
	return bw.Flush()
}

// WriteLaTeXFile writes the table to path.
func WriteLaTeXFile(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	defer f.Close()
	if err := WriteLaTeX(f, t); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return f.Close()
}
