package stamper

import (
	"github.com/valyala/fasttemplate"
)

// Placeholder names available to templates.
const (
	VarVersion = "version"
)

// ReleaseVars returns the template variables describing
// a release version.
func ReleaseVars(version string) map[string]interface{} {
	return map[string]interface{}{
		VarVersion: version,
	}
}

// Stamp substitutes {VAR} placeholders in format with
// values from vars. Unknown variables are preserved
// as-is.
func Stamp(
	format string,
	vars map[string]interface{},
) string {
	return fasttemplate.ExecuteStringStd(
		format, "{", "}", vars,
	)
}
