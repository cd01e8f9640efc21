package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatrelay/internal/domain"
)

func TestEncodeEvent(t *testing.T) {
	tests := []struct {
		name  string
		event domain.Event
		want  string
	}{
		{
			name:  "message carries sender and text",
			event: domain.Message{Sender: "alice", Text: "hi"},
			want:  `{"type":"message","message":"hi","username":"alice"}`,
		},
		{
			name:  "join announces the identity",
			event: domain.Join{Identity: "bob"},
			want:  `{"type":"join","message":"bob has joined the chat."}`,
		},
		{
			name:  "leave announces the identity",
			event: domain.Leave{Identity: "bob"},
			want:  `{"type":"leave","message":"bob has left the chat."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.EncodeEvent(tt.event)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}
