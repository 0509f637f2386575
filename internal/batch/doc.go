// Package batch orchestrates a pass over a media library: extract
// subtitle metadata per file, classify which tracks should be forced,
// diff against the flags already set, and apply only the edits needed.
//
// Files are independent units of work and fan out over a bounded worker
// pool; edits within one file are applied serially. A failure anywhere in
// one file's processing is contained to that file's outcome record and
// never aborts the batch. Rerunning on an unchanged library is a no-op
// because tracks whose flags already match their decisions produce no
// edit instructions.
package batch
