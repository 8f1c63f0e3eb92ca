// Package subtitles parses SRT sidecar files and detects profanity in
// dialogue, yielding the audio mute zones for a media item.
//
// Detection is word-list driven: one pattern per line, case-insensitive,
// matched on word boundaries, with * as a wildcard inside a word. A matched
// cue produces one mute zone spanning the cue's interval, labeled with the
// pattern that hit.
package subtitles
