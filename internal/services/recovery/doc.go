// Package recovery rebuilds the session directory from the platform.
//
// The directory lives only in memory, so after a restart the bot scans the
// active threads of the modmail forum and reads each thread's opening message
// to learn which correspondent it belongs to. The identity is taken from the
// first user mention in that message, or failing that from the literal
// "(ID: <digits>)" marker written when the thread was opened.
package recovery
