// Package classifier wraps the Gemini API as the cheat-detection backend.
package classifier

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"sketchparty/internal/game"
)

const prompt = "Look at this sketch. The secret word is %q. Does the image contain " +
	"written letters or words that spell out the answer? If it is mostly text/words, " +
	"respond with 'text'. If it is a drawing, respond with 'drawing'."

// Gemini classifies canvas snapshots with a Gemini vision model.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Classify sends the snapshot alongside the secret word and maps the model's
// free-text answer onto a verdict. Anything that doesn't clearly say "text"
// counts as a drawing.
func (g *Gemini) Classify(ctx context.Context, snapshot, expectedWord string) (game.Verdict, error) {
	data, mime, err := decodeSnapshot(snapshot)
	if err != nil {
		return game.VerdictDrawing, err
	}

	parts := []*genai.Part{
		genai.NewPartFromText(fmt.Sprintf(prompt, expectedWord)),
		genai.NewPartFromBytes(data, mime),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return game.VerdictDrawing, fmt.Errorf("generate content: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(resp.Text()))
	if strings.Contains(answer, "text") {
		return game.VerdictText, nil
	}
	return game.VerdictDrawing, nil
}

// decodeSnapshot accepts either a bare base64 payload or a browser-style
// data URL ("data:image/png;base64,....").
func decodeSnapshot(snapshot string) (data []byte, mime string, err error) {
	mime = "image/png"
	if strings.HasPrefix(snapshot, "data:") {
		rest := strings.TrimPrefix(snapshot, "data:")
		meta, b64, ok := strings.Cut(rest, ",")
		if !ok {
			return nil, "", fmt.Errorf("malformed data url")
		}
		if m := strings.TrimSuffix(meta, ";base64"); m != "" {
			mime = m
		}
		snapshot = b64
	}

	data, err = base64.StdEncoding.DecodeString(snapshot)
	if err != nil {
		return nil, "", fmt.Errorf("decode snapshot: %w", err)
	}
	return data, mime, nil
}
