// Package codec implements the versioned project serialization protocol:
// a self-describing binary envelope holding the (nodes, edges) graph, with
// per-node-type pluggable codecs supplied by the host.
//
// The envelope is encoded to compact binary CBOR, then the smaller of the
// raw and zlib-compressed forms is emitted behind a one-byte format
// prefix. A URL-safe textual variant exists for embedding a project in a
// hyperlink fragment.
//
// Backward compatibility is additive only: the flat-spec codec lets a
// node type declare per-field defaults so projects saved before a field
// existed still decode. Unknown envelope versions and stream prefixes are
// surfaced as errors, never silently recovered.
package codec
