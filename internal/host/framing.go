// Package host implements the native-messaging side of LoginKeeper: the
// length-prefixed JSON framing the browser speaks and the request dispatcher
// that routes extension calls to the services.
package host

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dmitrijs2005/loginkeeper/internal/common"
)

// MaxMessageSize caps a single frame in either direction. Chrome rejects
// host-to-browser messages over 1 MiB, so we enforce the same limit both ways.
const MaxMessageSize = 1024 * 1024

// ReadMessage reads one native-messaging frame: a uint32 little-endian
// length followed by that many bytes of JSON. io.EOF is returned unwrapped
// when the stream ends cleanly between frames.
func ReadMessage(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read frame length: %w", err)
	}

	if length > MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", common.ErrorMessageTooLarge, length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("failed to read frame payload: %w", err)
	}

	return payload, nil
}

// WriteMessage writes one native-messaging frame.
func WriteMessage(w io.Writer, payload []byte) error {
	if len(payload) > MaxMessageSize {
		return fmt.Errorf("%w: %d bytes", common.ErrorMessageTooLarge, len(payload))
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(payload))); err != nil {
		return fmt.Errorf("failed to write frame length: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("failed to write frame payload: %w", err)
	}
	return nil
}
