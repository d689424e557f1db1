package static

import _ "embed"

// APIGuide is the markdown reference of the local HTTP API.
//
//go:embed api.md
var APIGuide string
