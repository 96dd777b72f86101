// Package directory holds the in-memory session directory: the ground truth
// for which correspondent owns which thread.
//
// The directory keeps two maps, correspondent -> thread and thread ->
// correspondent, that are always exact inverses of one another. A single
// mutex guards both; it is held only for the map work itself and never across
// a platform call, so callers capture what they need and release before doing
// any network I/O.
//
// Nothing is persisted. On startup the recovery service rebuilds the content
// from platform history and installs it with ReplaceAll.
package directory
