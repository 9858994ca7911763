// Package audio serves byte slices and re-encoded time windows of the audio
// files backing indexed caption files.
//
// The audio file is resolved by swapping the caption file's extension through
// a configured priority list; the first existing candidate wins. A request
// carries either a timestamp window (handed to ffmpeg for re-encoding) or an
// HTTP byte range (sliced directly from the file), never both. Time-windowed
// extraction is bounded by a timeout so a wedged ffmpeg cannot hang a request
// forever.
package audio
