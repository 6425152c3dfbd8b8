// Package stylemod recognizes style modules emitted by css-loader, extracts the
// CSS they register, and writes a trimmed version back into the module code.
package stylemod

import (
	"regexp"
	"strings"
)

// Markers of the css-loader pipeline stage.
const (
	// LoaderMarker appears in the identifier of every module css-loader processed.
	LoaderMarker = "css-loader"
	// LoaderIndexMarker identifies the css-loader entry module of a stylesheet.
	LoaderIndexMarker = "css-loader/index.js!"
	// LocalsMarker starts the export of locally scoped class names.
	LocalsMarker = "exports.locals"
	// RemovedMarker replaces module code that was extracted into a CSS asset.
	RemovedMarker = "removed by extract-text-webpack-plugin"
)

// pushPattern matches the call css-loader uses to register a stylesheet.
var pushPattern = regexp.MustCompile(`exports\.push\(\[module\.`)

// IsStyleModule reports whether a module carries a css-loader style payload.
// Both the identifier and the module's original code have to match, so modules
// that only mention the loader (configuration, for instance) are rejected.
func IsStyleModule(identifier, originalCode string) bool {
	if !strings.Contains(identifier, LoaderMarker) {
		return false
	}
	return pushPattern.MatchString(originalCode)
}

// IsLoaderIndex reports whether the identifier names a css-loader entry module.
func IsLoaderIndex(identifier string) bool {
	return strings.Contains(identifier, LoaderIndexMarker)
}
