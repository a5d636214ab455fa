// Package codec converts payloads between wire bytes and application values.
//
// Ownership boundary:
// - the Codec contract and its fixed implementor set
// - ordered filter dispatch (Registry)
// - the default codec list for the binary protocol
package codec
