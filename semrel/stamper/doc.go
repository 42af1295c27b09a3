// Package stamper substitutes single-brace {VAR}
// placeholders in release name templates such as
// "release/v{version}". ReleaseVars builds the variable map
// for a release; Stamp performs the substitution.
package stamper
