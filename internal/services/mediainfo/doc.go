// Package mediainfo extracts subtitle track metadata from container
// files using the mediainfo and mkvinfo command line tools.
//
// mediainfo supplies per-track language, forced flag, and element count;
// mkvinfo supplies the mapping from mediainfo track numbers to the track
// IDs that mkvpropedit addresses. Both tools must describe the same file
// in one invocation so the IDs line up.
package mediainfo
