package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReply_RuleOrder(t *testing.T) {
	c := Context{FirstName: "Ana", Location: "Lisbon", HostedEvents: 3}

	tests := []struct {
		msg  string
		rule string
	}{
		{"Hello there", "greeting"},
		{"hello, how do I pay", "greeting"},
		{"I forgot my password", "forgot_password"},
		{"create", "create"},
		{"How do I get a refund", "refund"},
		{"xyz", "fallback"},
		// substring matching: "this" contains "hi"
		{"what about this", "greeting"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			_, rule := match(tt.msg, c)
			assert.Equal(t, tt.rule, rule)
		})
	}
}

func TestReply_Templates(t *testing.T) {
	c := Context{FirstName: "Ana", HostedEvents: 3}

	assert.Contains(t, Reply("HELLO", c), "Hello Ana!")
	assert.Contains(t, Reply("HELLO", c), "from Earth")
	assert.Contains(t, Reply("create", c), "**3 events**")
	assert.Equal(t, fallbackReply, Reply("xyz", c))
}
