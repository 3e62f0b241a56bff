package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// MessageRole represents the sender of a conversation turn
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Turn is a single message of a conversation
type Turn struct {
	Role    MessageRole `json:"role" validate:"required,oneof=user assistant system"`
	Content Content     `json:"content"`
}

// ContentPart is one element of a multi-part message payload.
// Raw keeps the original JSON so unknown part kinds survive a round trip.
type ContentPart struct {
	Type    string
	Text    string
	HasText bool
	Raw     json.RawMessage
}

// Content is either plain text or a list of parts.
// A nil Parts slice means plain text.
type Content struct {
	Text  string
	Parts []ContentPart
}

// TextContent creates plain text content
func TextContent(s string) Content {
	return Content{Text: s}
}

// PartedContent creates multi-part content
func PartedContent(parts ...ContentPart) Content {
	if parts == nil {
		parts = []ContentPart{}
	}
	return Content{Parts: parts}
}

// TextPart creates a text part
func TextPart(s string) ContentPart {
	return ContentPart{Type: "text", Text: s, HasText: true}
}

// IsParted reports whether the content arrived as a list of parts
func (c Content) IsParted() bool {
	return c.Parts != nil
}

// String flattens the content: textual parts are concatenated in order and
// everything else is dropped.
func (c Content) String() string {
	if !c.IsParted() {
		return c.Text
	}
	var b strings.Builder
	for _, p := range c.Parts {
		if p.HasText {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// Flatten returns plain text content holding the flattened text
func (c Content) Flatten() Content {
	return TextContent(c.String())
}

var errInvalidContent = errors.New("content must be a string or an array of parts")

// UnmarshalJSON accepts a string, an array of parts, or null
func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errInvalidContent
	}

	switch data[0] {
	case 'n':
		*c = Content{}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = TextContent(s)
		return nil
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(data, &raws); err != nil {
			return err
		}
		parts := make([]ContentPart, 0, len(raws))
		for _, raw := range raws {
			parts = append(parts, parsePart(raw))
		}
		*c = Content{Parts: parts}
		return nil
	default:
		return errInvalidContent
	}
}

func parsePart(raw json.RawMessage) ContentPart {
	part := ContentPart{Raw: append(json.RawMessage(nil), raw...)}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		// scalars inside the array are not text parts
		return part
	}
	if t, ok := fields["type"]; ok {
		_ = json.Unmarshal(t, &part.Type)
	}
	if t, ok := fields["text"]; ok {
		var s string
		if err := json.Unmarshal(t, &s); err == nil {
			part.Text = s
			part.HasText = true
		}
	}
	return part
}

// MarshalJSON writes the content back in the shape it arrived in
func (c Content) MarshalJSON() ([]byte, error) {
	if !c.IsParted() {
		return json.Marshal(c.Text)
	}

	parts := make([]json.RawMessage, 0, len(c.Parts))
	for _, p := range c.Parts {
		if len(p.Raw) > 0 {
			parts = append(parts, p.Raw)
			continue
		}
		raw, err := json.Marshal(map[string]string{"type": p.Type, "text": p.Text})
		if err != nil {
			return nil, err
		}
		parts = append(parts, raw)
	}
	return json.Marshal(parts)
}

// NormalizeTurns returns a copy of turns with every content flattened to text
func NormalizeTurns(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	for i, t := range turns {
		out[i] = Turn{Role: t.Role, Content: t.Content.Flatten()}
	}
	return out
}
