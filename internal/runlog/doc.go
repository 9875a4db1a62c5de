// Package runlog persists generation run history in SQLite.
//
// Every invocation of the pipeline, whether from the CLI or the web
// form, records one run row plus a result row per media file. The CLI
// runs command and the web UI read this history back.
package runlog
