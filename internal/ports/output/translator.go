package output

import "context"

// Translator interface - Output port
// Renders native-script text in the canonical language of the doctor view.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}
