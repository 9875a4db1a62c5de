// Package whisper drives the external faster-whisper engine.
//
// The engine is the whisper-ctranslate2 command line front-end. The
// client builds the argument list from configuration, runs the binary
// with a per-invocation output directory, and parses the JSON transcript
// it leaves behind. All audio decoding and model inference happens inside
// the engine; this package only shuttles files and arguments.
package whisper
