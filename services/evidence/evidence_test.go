package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noname9006/form2100/models"
)

func TestDetectEvidence_Address(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		expectAddress bool
		expectMatches int
	}{
		{
			name:          "valid address",
			text:          "my wallet is 0xABCDEF0123456789ABCDEF0123456789ABCDEF01 thanks",
			expectAddress: true,
			expectMatches: 1,
		},
		{
			name:          "lowercase address",
			text:          "0xabcdef0123456789abcdef0123456789abcdef01",
			expectAddress: true,
			expectMatches: 1,
		},
		{
			name:          "multiple addresses still a single signal",
			text:          "0xABCDEF0123456789ABCDEF0123456789ABCDEF01 and 0x1111111111111111111111111111111111111111",
			expectAddress: true,
			expectMatches: 2,
		},
		{
			name:          "too short",
			text:          "0xABCDEF0123456789",
			expectAddress: false,
		},
		{
			name:          "missing prefix",
			text:          "ABCDEF0123456789ABCDEF0123456789ABCDEF01",
			expectAddress: false,
		},
		{
			name:          "empty text",
			text:          "",
			expectAddress: false,
		},
		{
			name:          "plain chatter",
			text:          "hello, I need help with my order",
			expectAddress: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := DetectEvidence(tc.text, nil)
			assert.Equal(t, tc.expectAddress, result.HasAddress)
			assert.Len(t, result.Addresses, tc.expectMatches)
			assert.False(t, result.HasImage)
		})
	}
}

func TestDetectEvidence_Image(t *testing.T) {
	tests := []struct {
		name        string
		attachments []models.Attachment
		expectImage bool
	}{
		{
			name:        "png attachment",
			attachments: []models.Attachment{{ID: "a1", ContentType: "image/png"}},
			expectImage: true,
		},
		{
			name: "image among other attachments",
			attachments: []models.Attachment{
				{ID: "a1", ContentType: "application/pdf"},
				{ID: "a2", ContentType: "image/jpeg"},
			},
			expectImage: true,
		},
		{
			name:        "non-image attachment",
			attachments: []models.Attachment{{ID: "a1", ContentType: "video/mp4"}},
			expectImage: false,
		},
		{
			name:        "empty content type",
			attachments: []models.Attachment{{ID: "a1", ContentType: ""}},
			expectImage: false,
		},
		{
			name:        "no attachments",
			attachments: nil,
			expectImage: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := DetectEvidence("", tc.attachments)
			assert.Equal(t, tc.expectImage, result.HasImage)
			assert.False(t, result.HasAddress)
		})
	}
}

func TestDetectEvidence_BothSignalsIndependent(t *testing.T) {
	result := DetectEvidence(
		"0xABCDEF0123456789ABCDEF0123456789ABCDEF01",
		[]models.Attachment{{ID: "a1", ContentType: "image/png"}},
	)
	assert.True(t, result.HasAddress)
	assert.True(t, result.HasImage)
}
