package chatdemo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Role identifies who "speaks" a scripted message and how it is rendered.
type Role string

const (
	RoleAssistant    Role = "assistant"
	RoleUser         Role = "user"
	RoleConfirmation Role = "confirmation"
)

// ParseRole accepts the canonical role names and the short aliases used in
// older site configs ("ai", "confirm").
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "assistant", "ai":
		return RoleAssistant, nil
	case "user":
		return RoleUser, nil
	case "confirmation", "confirm":
		return RoleConfirmation, nil
	default:
		return "", fmt.Errorf("chatdemo: unknown role %q", s)
	}
}

// UnmarshalJSON normalizes aliases while decoding transcripts.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Message is one scripted line of the demo conversation.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Transcript is the ordered, read-only script a Player reveals.
type Transcript []Message

var ErrEmptyTranscript = errors.New("chatdemo: transcript is empty")

// Validate checks every message carries a known role.
func (t Transcript) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTranscript
	}
	for i, m := range t {
		if _, err := ParseRole(string(m.Role)); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	return nil
}

// Roles returns the role sequence, in order.
func (t Transcript) Roles() []Role {
	roles := make([]Role, len(t))
	for i, m := range t {
		roles[i] = m.Role
	}
	return roles
}
