package google

import (
	"strings"

	"github.com/spetersoncode/bloom"
	"google.golang.org/genai"
)

// isSafetyFinish reports whether a finish reason means the output was
// withheld by a content policy rather than simply not produced.
func isSafetyFinish(reason genai.FinishReason) bool {
	switch reason {
	case genai.FinishReasonSafety,
		"PROHIBITED_CONTENT",
		"BLOCKLIST",
		"SPII",
		"IMAGE_SAFETY",
		"IMAGE_PROHIBITED_CONTENT":
		return true
	}
	return false
}

// noImageDetails is surfaced to clients when the reply carries no image.
type noImageDetails struct {
	FinishReason       string `json:"finishReason,omitempty"`
	FinishMessage      string `json:"finishMessage,omitempty"`
	BlockReason        string `json:"blockReason,omitempty"`
	BlockReasonMessage string `json:"blockReasonMessage,omitempty"`
	Text               string `json:"text,omitempty"`
}

// extractImage returns the first inline image part of the first candidate.
// A reply without one becomes a NoImageProduced error, tagged safety-filtered
// when the prompt was blocked or the candidate stopped for a policy reason.
func extractImage(resp *genai.GenerateContentResponse) (*bloom.Image, error) {
	var details noImageDetails
	safety := false

	if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" &&
		resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		details.BlockReason = string(resp.PromptFeedback.BlockReason)
		details.BlockReasonMessage = resp.PromptFeedback.BlockReasonMessage
		safety = true
	}

	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		candidate := resp.Candidates[0]
		var text []string
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part == nil {
					continue
				}
				if part.InlineData != nil && len(part.InlineData.Data) > 0 {
					return bloom.NewImage(part.InlineData.MIMEType, part.InlineData.Data), nil
				}
				if part.Text != "" {
					text = append(text, part.Text)
				}
			}
		}
		details.Text = strings.Join(text, "\n")
		details.FinishReason = string(candidate.FinishReason)
		details.FinishMessage = candidate.FinishMessage
		if isSafetyFinish(candidate.FinishReason) {
			safety = true
		}
	}

	reason := bloom.ReasonNoImagePart
	if safety {
		reason = bloom.ReasonSafetyFiltered
	}
	return nil, bloom.NewNoImageError(reason, details)
}

var harmCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

// SafetyThresholds lists the accepted values for WithSafetyThreshold.
var SafetyThresholds = []string{
	"BLOCK_LOW_AND_ABOVE",
	"BLOCK_MEDIUM_AND_ABOVE",
	"BLOCK_ONLY_HIGH",
	"BLOCK_NONE",
	"OFF",
}

// ValidSafetyThreshold reports whether threshold is empty or one of SafetyThresholds.
func ValidSafetyThreshold(threshold string) bool {
	if threshold == "" {
		return true
	}
	for _, t := range SafetyThresholds {
		if t == threshold {
			return true
		}
	}
	return false
}

func safetySettings(threshold string) []*genai.SafetySetting {
	if threshold == "" {
		return nil
	}
	settings := make([]*genai.SafetySetting, len(harmCategories))
	for i, cat := range harmCategories {
		settings[i] = &genai.SafetySetting{
			Category:  cat,
			Threshold: genai.HarmBlockThreshold(threshold),
		}
	}
	return settings
}
