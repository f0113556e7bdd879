package port

import "context"

// CompletionInput carries one chat-completion request to the inference
// provider. FileData, when set, is a PDF attached to the user message for
// multimodal extraction; text-only requests leave it nil.
type CompletionInput struct {
	System    string
	Prompt    string
	FileData  []byte
	FileName  string
	MaxTokens int
}

// ChatCompleter abstracts the multimodal inference provider. Implementations
// return the raw assistant reply text; callers own prompt construction and
// response sanitizing.
type ChatCompleter interface {
	Complete(ctx context.Context, input CompletionInput) (string, error)
}
