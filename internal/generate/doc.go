// Package generate runs the scan-and-transcribe pipeline.
//
// A run enumerates media files under the requested roots, skips files
// whose subtitle already exists unless overwrite is set, transcribes the
// rest through the engine, and writes one .srt next to each source file.
// Files are processed sequentially; a per-file failure is recorded and
// never aborts the remaining files. Runs are serialized with a file lock
// so the web form and the CLI cannot transcribe concurrently.
package generate
