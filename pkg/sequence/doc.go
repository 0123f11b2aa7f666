/*
Package sequence builds the transactional script sent as the `steps`
argument of the Sequence and SyncedSequence messages: a tree of Steps
(Set, Delete, a nested Sequence, Assert, DeletePrefix, AssertExists,
Replace) serialised into a byte buffer that the protocol layer wraps as
a single wire string.

Execution is all-or-nothing on the server: if any Assert/AssertExists
step fails or any other step errors, none of the sequence's side
effects are retained.
*/
package sequence
