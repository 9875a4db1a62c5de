// Package subtitles renders and inspects SubRip (.srt) files.
//
// Rendering is done from parsed engine segments rather than taking the
// engine's own SRT output, so cue text sanitation and the overwrite
// policy stay under application control.
package subtitles
