package cli

import (
	"encoding/json"
	"fmt"

	"github.com/timon-db/timon/internal/envelope"
)

// printEnvelope renders an envelope.Envelope to stdout and converts a
// non-OK status into a Go error so cobra reports a non-zero exit code.
func printEnvelope(env envelope.Envelope) error {
	if !env.IsOK() {
		return fmt.Errorf("%s", env.Message)
	}
	fmt.Println(env.Message)
	if len(env.Payload) > 0 && string(env.Payload) != "null" {
		pretty, err := json.MarshalIndent(json.RawMessage(env.Payload), "", "  ")
		if err != nil {
			pretty = env.Payload
		}
		fmt.Println(string(pretty))
	}
	return nil
}
