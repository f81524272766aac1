// Package evidence classifies messages against the two intake requirements:
// a structured wallet address in the text and an image attachment.
package evidence

import (
	"regexp"
	"strings"

	"github.com/noname9006/form2100/models"
)

// addressRegex matches a "0x" prefix followed by 40 hex characters
var addressRegex = regexp.MustCompile(`0x[0-9a-fA-F]{40}`)

const imageContentTypePrefix = "image/"

// DetectEvidence classifies a message's text and attachments. It is pure and
// never fails: empty text and nil attachment lists simply yield no evidence.
func DetectEvidence(text string, attachments []models.Attachment) models.EvidenceResult {
	result := models.EvidenceResult{}

	if text != "" {
		matches := addressRegex.FindAllString(text, -1)
		if len(matches) > 0 {
			result.HasAddress = true
			result.Addresses = matches
		}
	}

	for _, attachment := range attachments {
		if strings.HasPrefix(attachment.ContentType, imageContentTypePrefix) {
			result.HasImage = true
			break
		}
	}

	return result
}
