// Package ai wraps the OpenAI API calls the app depends on: fact text
// generation, embeddings, quiz question generation, illustrative images
// and stats commentary.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/config"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/logger"
)

// VectorSize is the dimension of text-embedding-3-small vectors.
const VectorSize = 1536

type Client struct {
	api        *openai.Client
	textModel  string
	embedModel openai.EmbeddingModel
	imageModel string
	imageSize  string
	log        *logger.Logger
}

func New(cfg *config.Config, log *logger.Logger) (*Client, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}
	return &Client{
		api:        openai.NewClient(cfg.OpenAIAPIKey),
		textModel:  cfg.TextModel,
		embedModel: openai.EmbeddingModel(cfg.EmbedModel),
		imageModel: cfg.ImageModel,
		imageSize:  cfg.ImageSize,
		log:        log,
	}, nil
}

// GenerateFactForCategory asks for a single paragraph of trivia in the
// given category, steering the model away from the avoid list.
func (c *Client) GenerateFactForCategory(ctx context.Context, category string, avoid []string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.textModel,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: factSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildFactPrompt(category, avoid)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("generating fact: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Embed generates a vector embedding for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: c.embedModel,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embeddings returned")
	}
	return resp.Data[0].Embedding, nil
}

// GeneratedQuestion is the model's raw quiz item, pre-shuffle.
type GeneratedQuestion struct {
	Text         string   `json:"soru"`
	Options      []string `json:"secenekler"`
	CorrectIndex int      `json:"dogruIndex"`
}

// GenerateQuestionForFact produces one four-option question answerable
// strictly from the fact's text.
func (c *Client) GenerateQuestionForFact(ctx context.Context, factText string) (*GeneratedQuestion, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.textModel,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: questionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildQuestionPrompt(factText)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generating question: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty completion response")
	}
	q, err := parseGeneratedQuestion(resp.Choices[0].Message.Content)
	if err != nil {
		c.log.Error("question response rejected", "err", err)
		return nil, err
	}
	return q, nil
}

// GenerateFactImage returns a URL or data URI for an illustration of the
// fact. If the primary prompt is refused for safety reasons a neutral
// fallback prompt is tried once; other errors propagate.
func (c *Client) GenerateFactImage(ctx context.Context, factText, category string) (string, error) {
	url, err := c.createImage(ctx, buildImagePrompt(factText, category))
	if err == nil {
		return url, nil
	}
	if !isSafetyRefusal(err) {
		return "", err
	}
	c.log.Warn("image prompt refused, retrying with fallback", "category", category)
	return c.createImage(ctx, fallbackImagePrompt)
}

func (c *Client) createImage(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
		Model:  c.imageModel,
		Prompt: prompt,
		Size:   c.imageSize,
		N:      1,
	})
	if err != nil {
		return "", fmt.Errorf("creating image: %w", err)
	}
	if len(resp.Data) == 0 {
		return "", errors.New("no image returned")
	}
	if resp.Data[0].URL != "" {
		return resp.Data[0].URL, nil
	}
	if resp.Data[0].B64JSON != "" {
		return "data:image/png;base64," + resp.Data[0].B64JSON, nil
	}
	return "", errors.New("image response had neither url nor b64 payload")
}

func isSafetyRefusal(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "safety") || strings.Contains(msg, "sexual")
}

// StatsComments asks the model for a general and a today-specific remark
// about the serialized stats payload.
func (c *Client) StatsComments(ctx context.Context, payloadJSON string) (overall, today string, err error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.textModel,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: statsSystemPrompt},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "Bu JSON istatistiklerine göre iki yorum üret: {overallComment, todayComment}.\n" + payloadJSON,
			},
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("generating stats comments: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", "", errors.New("empty completion response")
	}
	return parseStatsComments(resp.Choices[0].Message.Content)
}
