package packet

import (
	"encoding/json"

	"github.com/birchwood-mc/gate/pkg/edition/java/proto/chat"
)

func jsonMarshal(c chat.Component) (string, error) {
	b, err := json.Marshal(c)
	return string(b), err
}

func jsonUnmarshal(s string, c *chat.Component) error {
	return json.Unmarshal([]byte(s), c)
}
