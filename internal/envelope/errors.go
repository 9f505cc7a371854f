package envelope

import "errors"

var errNoPayload = errors.New("envelope: no payload present")
