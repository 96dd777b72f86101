// Package marker implements the textual contract that lets a restarted
// process find out who owns each thread.
//
// When a thread is opened, its first message mentions the correspondent and
// embeds their identity in a literal marker:
//
//	<@&ROLE> New modmail from <@123456789> (ID: 123456789)
//
// Recovery reads the earliest message back and extracts the identity using
// two strategies in order:
//
//  1. the first whitespace-delimited token that is a user mention
//     (<@123> or <@!123>; role mentions <@&123> never match);
//  2. the literal "(ID: <digits>)" marker.
//
// The marker text must stay byte-stable across versions that need to recover
// each other's threads. Change Opening and Extract together or not at all.
package marker
