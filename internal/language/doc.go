// Package language normalizes subtitle track language tags.
//
// Tracks are grouped for classification by a canonical ISO 639-2 key;
// every recognized spelling of a language (2-letter, 3-letter alternates,
// full words) maps to the same group key so that "fre", "fra" and
// "French" end up in one comparison group. Unrecognized or missing tags
// collapse into the "und" group.
package language
