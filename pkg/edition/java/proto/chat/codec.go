package chat

import (
	"encoding/json"
	"strings"
)

// wireNode is the JSON-on-the-wire shape of a Component, matching the
// vanilla client's chat JSON grammar.
type wireNode struct {
	Text       string            `json:"text,omitempty"`
	Translate  string            `json:"translate,omitempty"`
	With       []wireNode        `json:"with,omitempty"`
	Keybind    string            `json:"keybind,omitempty"`
	Score      *wireScore        `json:"score,omitempty"`
	Color      string            `json:"color,omitempty"`
	Bold       *bool             `json:"bold,omitempty"`
	Italic     *bool             `json:"italic,omitempty"`
	Underlined *bool             `json:"underlined,omitempty"`
	Strike     *bool             `json:"strikethrough,omitempty"`
	Obfuscated *bool             `json:"obfuscated,omitempty"`
	Font       string            `json:"font,omitempty"`
	Insertion  string            `json:"insertion,omitempty"`
	ClickEvent *wireClickEvent   `json:"clickEvent,omitempty"`
	HoverEvent *wireHoverEvent   `json:"hoverEvent,omitempty"`
	Extra      []wireNode        `json:"extra,omitempty"`
}

type wireScore struct {
	Name      string `json:"name"`
	Objective string `json:"objective"`
}

type wireClickEvent struct {
	Action string `json:"action"`
	Value  string `json:"value"`
}

type wireHoverEvent struct {
	Action   string          `json:"action"`
	Contents json.RawMessage `json:"contents,omitempty"`
}

// MarshalJSON encodes the component tree into the vanilla chat JSON shape.
func (c Component) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(c))
}

// UnmarshalJSON decodes a vanilla chat JSON payload into a Component tree.
func (c *Component) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = fromWire(w)
	return nil
}

func toWire(c Component) wireNode {
	w := wireNode{
		Color:      c.Style.Color,
		Bold:       c.Style.Bold,
		Italic:     c.Style.Italic,
		Underlined: c.Style.Underlined,
		Strike:     c.Style.Strikethrough,
		Obfuscated: c.Style.Obfuscated,
		Font:       c.Style.Font,
		Insertion:  c.Style.Insertion,
	}
	switch {
	case c.Translate != nil:
		w.Translate = c.Translate.Key
		for _, a := range c.Translate.Args {
			w.With = append(w.With, toWire(a))
		}
	case c.Keybind != "":
		w.Keybind = c.Keybind
	case c.Score != nil:
		w.Score = &wireScore{Name: c.Score.Name, Objective: c.Score.Objective}
	default:
		w.Text = c.Text
	}
	if c.Style.ClickEvent != nil {
		w.ClickEvent = &wireClickEvent{Action: string(c.Style.ClickEvent.Action), Value: c.Style.ClickEvent.Value}
	}
	if c.Style.HoverEvent != nil {
		h := c.Style.HoverEvent
		w.HoverEvent = &wireHoverEvent{Action: string(h.Action)}
		if h.Action == ShowText && h.Value != nil {
			b, _ := json.Marshal(toWire(*h.Value))
			w.HoverEvent.Contents = b
		} else if h.Raw != nil {
			b, _ := json.Marshal(h.Raw)
			w.HoverEvent.Contents = b
		}
	}
	for _, child := range c.Children {
		w.Extra = append(w.Extra, toWire(child))
	}
	return w
}

func fromWire(w wireNode) Component {
	c := Component{
		Style: Style{
			Color:         w.Color,
			Bold:          w.Bold,
			Italic:        w.Italic,
			Underlined:    w.Underlined,
			Strikethrough: w.Strike,
			Obfuscated:    w.Obfuscated,
			Font:          w.Font,
			Insertion:     w.Insertion,
		},
	}
	switch {
	case w.Translate != "":
		tr := &Translate{Key: w.Translate}
		for _, a := range w.With {
			tr.Args = append(tr.Args, fromWire(a))
		}
		c.Translate = tr
	case w.Keybind != "":
		c.Keybind = w.Keybind
	case w.Score != nil:
		c.Score = &Score{Name: w.Score.Name, Objective: w.Score.Objective}
	default:
		c.Text = w.Text
	}
	if w.ClickEvent != nil {
		c.Style.ClickEvent = &ClickEvent{Action: ClickAction(w.ClickEvent.Action), Value: w.ClickEvent.Value}
	}
	if w.HoverEvent != nil {
		he := &HoverEvent{Action: HoverAction(w.HoverEvent.Action)}
		if he.Action == ShowText && len(w.HoverEvent.Contents) > 0 {
			var inner wireNode
			if json.Unmarshal(w.HoverEvent.Contents, &inner) == nil {
				v := fromWire(inner)
				he.Value = &v
			}
		} else if len(w.HoverEvent.Contents) > 0 {
			var raw map[string]any
			if json.Unmarshal(w.HoverEvent.Contents, &raw) == nil {
				he.Raw = raw
			}
		}
		c.Style.HoverEvent = he
	}
	for _, e := range w.Extra {
		c.Children = append(c.Children, fromWire(e))
	}
	return c
}

// Plain flattens a component tree to its visible text, discarding all
// styling — used for log lines the way the teacher logs disconnect
// reasons through codec.Plain.
func Plain(c Component) string {
	var b strings.Builder
	writePlain(&b, c)
	return b.String()
}

func writePlain(b *strings.Builder, c Component) {
	switch {
	case c.Translate != nil:
		b.WriteString(c.Translate.Key)
	case c.Keybind != "":
		b.WriteString(c.Keybind)
	case c.Score != nil:
		b.WriteString(c.Score.Name)
	default:
		b.WriteString(c.Text)
	}
	for _, child := range c.Children {
		writePlain(b, child)
	}
}
