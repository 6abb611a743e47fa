// Package chat implements the recursive Minecraft chat-component tree:
// literal text, translation keys with arguments, keybinds and scoreboard
// scores, each optionally styled and carrying click/hover events and
// children. This generalizes the teacher's use of
// go.minekube.com/common/minecraft/component into the full node set §4.2
// requires.
package chat

// Component is a node in a chat-component tree.
type Component struct {
	// Exactly one of these is set, selecting the node kind.
	Text      string      // literal text node
	Translate *Translate  // translation-key node
	Keybind   string      // keybind node (identifier of the bound key)
	Score     *Score      // scoreboard-score node

	Style    Style
	Children []Component
}

// Translate is a translation-key node: the key is looked up client-side in
// the active language file, with Args substituted positionally.
type Translate struct {
	Key  string
	Args []Component
}

// Score embeds a live scoreboard value: "name" may be "*" for the viewer.
type Score struct {
	Name      string
	Objective string
}

// Style carries optional formatting and interactivity shared by every node
// kind.
type Style struct {
	Color         string // e.g. "red" or "#AABBCC"; empty = inherit
	Bold          *bool
	Italic        *bool
	Underlined    *bool
	Strikethrough *bool
	Obfuscated    *bool
	Font          string
	Insertion     string
	ClickEvent    *ClickEvent
	HoverEvent    *HoverEvent
}

type ClickAction string

const (
	OpenURL         ClickAction = "open_url"
	RunCommand      ClickAction = "run_command"
	SuggestCommand  ClickAction = "suggest_command"
	ChangePage      ClickAction = "change_page"
	CopyToClipboard ClickAction = "copy_to_clipboard"
)

type ClickEvent struct {
	Action ClickAction
	Value  string
}

type HoverAction string

const (
	ShowText   HoverAction = "show_text"
	ShowItem   HoverAction = "show_item"
	ShowEntity HoverAction = "show_entity"
)

type HoverEvent struct {
	Action HoverAction
	// Value holds ShowText's component tree. ShowItem/ShowEntity payloads
	// are out of scope for the proxy's own messages (§1 scope) and are
	// passed through opaquely via Raw when decoded from a backend.
	Value *Component
	Raw   map[string]any
}

// Text builds a plain literal-text node, the common case used by the
// proxy's own kick/chat/title messages.
func Text(s string) Component { return Component{Text: s} }

// TextColor builds a literal-text node with a color.
func TextColor(s, color string) Component {
	return Component{Text: s, Style: Style{Color: color}}
}

func TranslateKey(key string, args ...Component) Component {
	return Component{Translate: &Translate{Key: key, Args: args}}
}

func boolPtr(b bool) *bool { return &b }
