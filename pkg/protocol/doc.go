/*
Package protocol catalogues every request the cluster understands: the
32-bit tag scheme, the prologue, the common response framing, and one
type per message in §4.2 plus the admin group.

A Message[R] writes its own arguments and knows how to parse its own
return type R out of the payload that follows a zero response code;
ReadResponse centralises the `int32 code` demultiplexing shared by
every message so individual types only implement the payload shape.
*/
package protocol
