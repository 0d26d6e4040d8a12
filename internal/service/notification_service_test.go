package service

import (
	"strings"
	"testing"

	"shelterconnect/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRecipients(t *testing.T) {
	uid := func(v uint) *uint { return &v }
	tests := []struct {
		name   string
		p      models.Participants
		sender uint
		want   []uint
	}{
		{"creator sends, no assignee", models.Participants{CreatorID: 1}, 1, nil},
		{"creator sends to assignee", models.Participants{CreatorID: 1, AssignedToID: uid(2)}, 1, []uint{2}},
		{"assignee sends to creator", models.Participants{CreatorID: 1, AssignedToID: uid(2)}, 2, []uint{1}},
		{"third party reaches both", models.Participants{CreatorID: 1, AssignedToID: uid(2)}, 3, []uint{1, 2}},
		{"third party, pending request", models.Participants{CreatorID: 1}, 3, []uint{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recipients(tt.p, tt.sender))
		})
	}
}

func TestPreviewTruncates(t *testing.T) {
	assert.Equal(t, "short", preview("short"))
	long := strings.Repeat("é", pushPreviewRune+5)
	got := preview(long)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, pushPreviewRune+1, len([]rune(got)))
}
