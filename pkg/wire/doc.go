/*
Package wire implements the little-endian binary codec shared by every
protocol message: fixed-width integers, length-prefixed strings,
booleans, and the composite option/list/array/named-field/statistics/
consistency types.

Every primitive is a pair of plain functions over io.Reader/io.Writer
rather than an explicit incremental state machine. io.Reader is already
Go's transport-agnostic pull interface — it composes over a net.Conn, a
bufio.Reader, a bytes.Reader, or a test pipe without any adaptation —
so a coroutine-style "request N more bytes" parser would only
reimplement what io.Reader already gives for free. Composite readers
(ReadOption, ReadList, ...) call the element reader function directly;
there is no separate decoder object to construct per type.

Check functions validate a value before serialisation is attempted, so
a bad argument never puts a partial message on the wire.
*/
package wire
