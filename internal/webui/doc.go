// Package webui serves the browser front-end and the JSON API.
//
// The form offers checkboxes for the subdirectories of the configured
// base directory, a free-form extra path, recursive and overwrite
// toggles, and a per-file results table.
// The JSON API exposes the same pipeline plus run history for scripting.
package webui
