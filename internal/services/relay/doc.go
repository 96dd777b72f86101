// Package relay routes messages between correspondents and the staff threads
// that mirror their conversations.
//
// Inbound, a direct message from a correspondent is forwarded into their
// thread. A thread is opened on first contact, and a new one is opened when
// the tracked thread was deleted on the platform. Outbound, a staff message
// posted in a tracked thread is forwarded to the correspondent's DM channel
// and the outcome is reported back into the thread.
//
// Thread creation for one correspondent is collapsed with singleflight, so
// two messages arriving together produce a single thread. The directory lock
// is never held across a platform call.
package relay
