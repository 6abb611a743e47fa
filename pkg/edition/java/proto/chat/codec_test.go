package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTripLiteral(t *testing.T) {
	c := TextColor("Could not connect to down", "red")
	b, err := json.Marshal(c)
	require.NoError(t, err)

	var got Component
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, c, got)
}

func TestJSONRoundTripTranslateWithChildren(t *testing.T) {
	c := Component{
		Translate: &Translate{
			Key:  "multiplayer.disconnect.unverified_username",
			Args: []Component{Text("Steve")},
		},
		Children: []Component{TextColor(" (retry later)", "gray")},
		Style: Style{
			ClickEvent: &ClickEvent{Action: SuggestCommand, Value: "/server lobby"},
		},
	}
	b, err := json.Marshal(c)
	require.NoError(t, err)

	var got Component
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, c, got)
}

func TestPlainFlattensTree(t *testing.T) {
	c := Component{
		Text:     "Welcome, ",
		Children: []Component{Text("Steve"), Text("!")},
	}
	assert.Equal(t, "Welcome, Steve!", Plain(c))
}
