// Command subgen generates SRT subtitles for media files using a local
// faster-whisper engine, either from the command line or through a small
// web front-end.
package main
