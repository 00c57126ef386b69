package editor

import (
	"fmt"
	"strings"
)

// Mode is the active editing tool.
type Mode int

const (
	ModeSelect Mode = iota
	ModePan
	ModeAddNode
	ModeAddEdge
	ModeDeleteNode
	ModeDeleteEdge
)

var modeNames = [...]string{
	ModeSelect:     "select",
	ModePan:        "pan",
	ModeAddNode:    "add_node",
	ModeAddEdge:    "add_edge",
	ModeDeleteNode: "delete_node",
	ModeDeleteEdge: "delete_edge",
}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Modes lists every mode in toolbar order.
func Modes() []Mode {
	return []Mode{ModeSelect, ModePan, ModeAddNode, ModeAddEdge, ModeDeleteNode, ModeDeleteEdge}
}

// ParseMode maps a mode name ("add_edge", "add-edge" and "addedge" are all
// accepted) to a Mode.
func ParseMode(s string) (Mode, error) {
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	for _, m := range Modes() {
		if strings.ReplaceAll(m.String(), "_", "") == norm {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return fmt.Sprintf("Button(%d)", int(b))
	}
}
