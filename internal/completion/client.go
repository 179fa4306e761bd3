package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// MaxAttributes is the documented ceiling on extracted attributes per product.
// Responses with more keys violate the extraction contract.
const MaxAttributes = 5

// Client calls an OpenAI-compatible chat completion endpoint and turns the
// replies into schema-checked classification results.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	HTTPClient *http.Client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

const classifySystem = "Você é um especialista em categorização de produtos de e-commerce. Responda somente com JSON."

const classifyPrompt = `Dada a seguinte informação do produto:
Nome: %s
Descrição: %s

Classifique este produto em uma hierarquia de categorias concisa e comum em e-commerce (ex: Casa e Cozinha > Móveis > Sofás).
Retorne apenas um objeto JSON no formato {"category": "..."}.`

const extractSystem = "Você é um especialista em extração de informações de produtos de e-commerce. Responda somente com JSON."

const extractPrompt = `Dada a seguinte informação do produto:
Nome: %s
Descrição: %s

Extraia até 5 atributos chave relevantes do produto em formato JSON (ex: {"material": "couro sintético", "cor": "preto", "cancelamento_de_ruido": true}).
Se nenhum atributo óbvio for encontrado, retorne um JSON vazio {}.
Retorne apenas o objeto JSON.`

// ClassifyCategory asks the completion service for a concise hierarchical
// category label for the product. The reply must decode to {"category": string}.
func (c *Client) ClassifyCategory(ctx context.Context, name, description string) (string, error) {
	content, err := c.chat(ctx, classifySystem, fmt.Sprintf(classifyPrompt, name, description))
	if err != nil {
		return "", err
	}

	var out struct {
		Category string `json:"category"`
	}
	if err := decodeJSONReply(content, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Category) == "" {
		return "", &ValidationError{Reason: "missing category field"}
	}
	return strings.TrimSpace(out.Category), nil
}

// ExtractAttributes asks the completion service for up to MaxAttributes
// key/value pairs describing the product. An empty object is a valid
// "no attributes found" reply.
func (c *Client) ExtractAttributes(ctx context.Context, name, description string) (map[string]any, error) {
	content, err := c.chat(ctx, extractSystem, fmt.Sprintf(extractPrompt, name, description))
	if err != nil {
		return nil, err
	}

	attrs := map[string]any{}
	if err := decodeJSONReply(content, &attrs); err != nil {
		return nil, err
	}
	// the flow may wrap the object in an "attributes" envelope; unwrap it
	if inner, ok := attrs["attributes"].(map[string]any); ok && len(attrs) == 1 {
		attrs = inner
	}
	if len(attrs) > MaxAttributes {
		return nil, &ValidationError{Reason: fmt.Sprintf("extraction returned %d attributes, limit is %d", len(attrs), MaxAttributes)}
	}
	for key, value := range attrs {
		switch value.(type) {
		case string, bool, float64:
		default:
			return nil, &ValidationError{Reason: fmt.Sprintf("attribute %q is not a flat value", key)}
		}
	}
	return attrs, nil
}

func (c *Client) chat(ctx context.Context, system, user string) (string, error) {
	if c.BaseURL == "" || c.Model == "" {
		return "", &ServiceError{Reason: "base URL and model required"}
	}

	reqBody, err := json.Marshal(chatRequest{
		Model:    c.Model,
		Messages: []chatMessage{{Role: "system", Content: system}, {Role: "user", Content: user}},
	})
	if err != nil {
		return "", &ServiceError{Reason: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", &ServiceError{Reason: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", &ServiceError{Reason: "completion service unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "", &ServiceError{Reason: fmt.Sprintf("completion service returned %d", resp.StatusCode)}
	}

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &ValidationError{Reason: "reply is not valid JSON"}
	}
	if payload.Error != nil {
		return "", &ServiceError{Reason: payload.Error.Message}
	}
	if len(payload.Choices) == 0 {
		return "", &ValidationError{Reason: "reply has no choices"}
	}
	return payload.Choices[0].Message.Content, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}

// decodeJSONReply parses the model reply into v. Models occasionally wrap the
// JSON in markdown fences or prose, so the outermost object is cut out first.
func decodeJSONReply(content string, v any) error {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return &ValidationError{Reason: "reply contains no JSON object"}
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), v); err != nil {
		return &ValidationError{Reason: "reply does not match expected schema"}
	}
	return nil
}
