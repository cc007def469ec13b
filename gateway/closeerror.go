package gateway

import (
	"errors"

	"github.com/gorilla/websocket"
)

// asCloseError extracts the numeric close code from a websocket read
// error, if the peer sent a proper close frame.
func asCloseError(err error) (int, bool) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, true
	}
	return 0, false
}
