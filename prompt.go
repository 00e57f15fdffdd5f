package bloom

import "fmt"

const sculpturePromptTemplate = `Create a PRESERVED HYDRANGEA FLOWER SCULPTURE based on this photo.

CONSTRUCTION (CRITICAL):
- Made ENTIRELY of small preserved hydrangea flower petals clustered together
- Fluffy, textured surface from hundreds of tiny flower petals
- Like a teddy bear made of real dried flowers - soft, organic, tactile
- Each petal is visible, creating rich texture
- NOT smooth plastic, NOT cartoon render - real preserved flowers

FLOWER COLORS:
- Soft natural tones: cream, blush pink, dusty rose, lavender, tan, brown
- Colors should match the subject's natural coloring where possible
- Subtle color gradients across the sculpture

STYLE TRANSFORMATION:
%s

DETAILS:
- Small black bead eyes
- Recognizable features from the original photo
- Sitting/standing pose, front-facing
- Subject fills 70%% of frame, centered

BACKGROUND:
- Pure solid black (#000000)
- NO other elements, NO floor, NO shadows

Output: A flower petal sculpture on pure black background.`

// BuildPrompt composes the generation prompt for a style key.
func BuildPrompt(styleKey string) (string, error) {
	style, ok := LookupStyle(styleKey)
	if !ok {
		return "", NewInvalidInputError(fmt.Sprintf("Unknown style %q", styleKey), nil)
	}
	return fmt.Sprintf(sculpturePromptTemplate, style.Prompt), nil
}
