package shortcode

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"
	"k8s.io/klog/v2"
)

// DefaultModel is the Gemini model used for captions.
var DefaultModel = "gemini-2.5-flash"

// CaptionPrompt asks for a caption suitable for a photo blog.
var CaptionPrompt = "Write a short caption (at most 12 words) for this photo, " +
	"as a photographer would on their personal blog. Mention the place if you recognize it. " +
	"Reply with the caption only: no quotes, no hashtags, no trailing period."

// Captioner suggests a caption for an image file.
type Captioner interface {
	Caption(ctx context.Context, path string) (string, error)
}

// GeminiCaptioner suggests captions using a Gemini model.
type GeminiCaptioner struct {
	client *genai.Client
	model  string
}

// NewGeminiCaptioner returns a captioner authenticated with apiKey.
func NewGeminiCaptioner(ctx context.Context, apiKey string, model string) (*GeminiCaptioner, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("no API key")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}

	return &GeminiCaptioner{client: client, model: model}, nil
}

// Caption implements Captioner.
func (g *GeminiCaptioner) Caption(ctx context.Context, path string) (string, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(bs, mimeType(path)),
		genai.NewPartFromText(CaptionPrompt),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	return cleanCaption(resp.Text()), nil
}

func mimeType(path string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t
	}
	return "image/jpeg"
}

func cleanCaption(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	s = strings.TrimSuffix(s, ".")
	return strings.Join(strings.Fields(s), " ")
}

// suggestCaption asks cp for a caption; failures are logged and yield "".
func suggestCaption(ctx context.Context, cp Captioner, path string) string {
	c, err := cp.Caption(ctx, path)
	if err != nil {
		klog.Warningf("unable to caption %s: %v", path, err)
		return ""
	}
	klog.V(1).Infof("suggested caption for %s: %q", path, c)
	return c
}
