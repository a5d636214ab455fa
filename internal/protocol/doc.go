// Package protocol owns the payload contract shared by every codec.
//
// Ownership boundary:
// - message metadata and the raw/decoded payload union
// - wire type tags and internal message identifiers
// - error kinds surfaced by codecs and the registry
// - delimiter splitting over shared buffers
package protocol
