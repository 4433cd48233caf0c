// Package resume is the boundary to the external resume-parsing API. The
// auth service consumes only the Parser interface.
package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Parser turns raw resume text into structured profile JSON.
type Parser interface {
	Parse(ctx context.Context, resumeText string) (json.RawMessage, error)
}

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent"

const promptTemplate = `You are an AI resume parser.
Extract structured information from the resume text below.
Return ONLY valid minified JSON with keys: profile, skills, experience_level,
projects, interests, collaboration_preferences, open_source, achievements.
Do NOT include explanations, markdown, or extra text.

Resume Text:
"""%s"""`

// HTTPParser calls a generative-AI endpoint to parse resume text.
type HTTPParser struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

var _ Parser = (*HTTPParser)(nil)

// NewHTTPParser returns a Parser backed by the default endpoint.
func NewHTTPParser(apiKey string) *HTTPParser {
	return &HTTPParser{
		endpoint: defaultEndpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (p *HTTPParser) Parse(ctx context.Context, resumeText string) (json.RawMessage, error) {
	body := generateRequest{Contents: []content{{Parts: []part{{Text: fmt.Sprintf(promptTemplate, resumeText)}}}}}

	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal parser request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"?key="+p.apiKey, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("build parser request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call parser: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read parser response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parser returned %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return nil, fmt.Errorf("decode parser response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("parser returned no candidates")
	}

	text := strings.TrimSpace(gr.Candidates[0].Content.Parts[0].Text)
	// Models occasionally wrap output in a markdown fence despite the prompt.
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("parser output is not valid json")
	}
	return json.RawMessage(text), nil
}
