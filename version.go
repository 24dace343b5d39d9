package stackcalc

import _ "embed"

// Version is the release of the calculator, read from the VERSION file at build time.
//
//go:embed VERSION
var Version string
