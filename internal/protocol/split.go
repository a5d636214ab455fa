package protocol

import "bytes"

// Split breaks buf on every occurrence of delim. Pieces alias buf; nothing is
// copied. A trailing delimiter yields a trailing empty piece and an empty buf
// yields a single empty piece.
func Split(buf []byte, delim []byte) [][]byte {
	if len(delim) == 0 {
		return [][]byte{buf}
	}
	pieces := make([][]byte, 0, bytes.Count(buf, delim)+1)
	for {
		i := bytes.Index(buf, delim)
		if i < 0 {
			break
		}
		pieces = append(pieces, buf[:i:i])
		buf = buf[i+len(delim):]
	}
	return append(pieces, buf)
}

// Terminated returns the bytes before the first delim, and whether delim was found.
func Terminated(buf []byte, delim byte) ([]byte, bool) {
	i := bytes.IndexByte(buf, delim)
	if i < 0 {
		return buf, false
	}
	return buf[:i:i], true
}
