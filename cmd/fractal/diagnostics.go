package main

import (
	"fmt"
	"io"

	"github.com/fractal-lang/fractal/core/diag"
)

// printDiagnostics writes one colorized line per diagnostic, errors in
// red and warnings in yellow. Diagnostics are only ever formatted at
// the CLI boundary; core packages stay logger-free and return typed
// diag.Diagnostic values instead.
func printDiagnostics(w io.Writer, result *diag.Result, useColor bool) {
	for _, d := range result.Diagnostics {
		color, label := colorYellow, "warning"
		if d.Severity == diag.SeverityError {
			color, label = colorRed, "error"
		}
		fmt.Fprintf(w, "%s %s %s: %s\n",
			colorize(d.Pos.String(), colorGray, useColor),
			colorize(string(d.Code), color, useColor),
			label,
			d.Message,
		)
	}
}
