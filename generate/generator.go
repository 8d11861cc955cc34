// Package generate drives a generative-model provider toward output that
// validates against a schema: it renders the schema into the prompt,
// extracts and decodes the model's JSON reply, validates it, and re-prompts
// with the error list as corrective feedback when validation fails.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/promptshape/promptshape/render"
	"github.com/promptshape/promptshape/schema"
	"github.com/promptshape/promptshape/validate"
)

const tracerName = "github.com/promptshape/promptshape/generate"

// Config bounds the structured generation loop.
type Config struct {
	// MaxAttempts is the total number of provider calls allowed, including
	// corrective re-prompts after validation failures.
	MaxAttempts int
}

// DefaultConfig returns the default generation configuration.
func DefaultConfig() *Config {
	return &Config{MaxAttempts: 2}
}

// Option configures a Generator.
type Option func(*Generator)

// WithValidator replaces the default lenient validator.
func WithValidator(v *validate.Validator) Option {
	return func(g *Generator) {
		if v != nil {
			g.validator = v
		}
	}
}

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(g *Generator) {
		if cfg != nil {
			g.config = cfg
		}
	}
}

// WithLogger sets a custom zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Generator produces validated records from a generative-model provider.
type Generator struct {
	schema    *schema.Schema
	provider  Provider
	validator *validate.Validator
	config    *Config
	logger    *zap.Logger
	tracer    trace.Tracer
}

// New creates a generator for the given schema and provider.
func New(s *schema.Schema, provider Provider, opts ...Option) (*Generator, error) {
	if s == nil {
		return nil, fmt.Errorf("schema cannot be nil")
	}
	if provider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}
	g := &Generator{
		schema:    s,
		provider:  provider,
		validator: validate.New(),
		config:    DefaultConfig(),
		logger:    zap.NewNop(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, o := range opts {
		o(g)
	}
	return g, nil
}

// Generate sends the prompt to the provider and returns a record validated
// against the generator's schema. When a reply fails validation the full
// error list is fed back to the provider as a corrective message, up to
// Config.MaxAttempts calls in total.
func (g *Generator) Generate(ctx context.Context, prompt string) (*validate.Record, error) {
	return g.GenerateWithMessages(ctx, []Message{{Role: RoleUser, Content: prompt}})
}

// GenerateWithMessages is Generate over a caller-supplied message list.
func (g *Generator) GenerateWithMessages(ctx context.Context, messages []Message) (*validate.Record, error) {
	ctx, span := g.tracer.Start(ctx, "promptshape.generate",
		trace.WithAttributes(attribute.String("schema", g.schema.Name())))
	defer span.End()

	conversation := make([]Message, 0, len(messages)+1)
	conversation = append(conversation, Message{Role: RoleSystem, Content: g.systemPrompt()})
	conversation = append(conversation, messages...)

	var lastErr error
	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		span.AddEvent("attempt", trace.WithAttributes(attribute.Int("number", attempt)))

		resp, err := g.provider.Completion(ctx, &ChatRequest{Messages: conversation})
		if err != nil {
			return nil, fmt.Errorf("provider completion failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("no response choices returned")
		}
		raw := resp.Choices[0].Message.Content

		data, err := decodeObject(extractJSON(raw))
		if err != nil {
			lastErr = err
			g.logger.Debug("reply is not a JSON object",
				zap.String("schema", g.schema.Name()), zap.Int("attempt", attempt), zap.Error(err))
			conversation = appendFeedback(conversation, raw,
				fmt.Sprintf("The previous reply could not be parsed as a JSON object: %v. Reply again with only the JSON object.", err))
			continue
		}

		rec, err := g.validator.Validate(g.schema, data)
		if err == nil {
			span.SetAttributes(attribute.Int("attempts", attempt))
			return rec, nil
		}
		lastErr = err
		g.logger.Debug("reply failed validation",
			zap.String("schema", g.schema.Name()), zap.Int("attempt", attempt), zap.Error(err))
		conversation = appendFeedback(conversation, raw, correction(err))
	}
	return nil, fmt.Errorf("structured generation failed after %d attempts: %w", g.config.MaxAttempts, lastErr)
}

// systemPrompt renders the schema plus the output-discipline instructions.
func (g *Generator) systemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are a helpful assistant that replies with structured JSON output.\n\n")
	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. You MUST reply with a single valid JSON object matching the field list below.\n")
	sb.WriteString("2. Do NOT include any text before or after the JSON.\n")
	sb.WriteString("3. Ensure every required field is present; fields marked (optional) may be omitted.\n\n")
	sb.WriteString(render.Render(g.schema))
	return sb.String()
}

// correction turns a validation error list into a corrective user message.
func correction(err error) string {
	var sb strings.Builder
	sb.WriteString("The previous reply did not validate. Fix ALL of the following and reply again with only the corrected JSON object:\n")
	if errs, ok := validate.AsErrors(err); ok {
		for i := range errs {
			sb.WriteString("- ")
			sb.WriteString(errs[i].Error())
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("- ")
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}

func appendFeedback(conversation []Message, raw, feedback string) []Message {
	return append(conversation,
		Message{Role: RoleAssistant, Content: raw},
		Message{Role: RoleUser, Content: feedback},
	)
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// extractJSON pulls a JSON object out of a reply that may wrap it in a
// markdown code fence or surround it with prose.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if strings.Contains(response, "```") {
		if m := fenceRe.FindStringSubmatch(response); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start >= 0 && end > start {
		return response[start : end+1]
	}
	return response
}

// decodeObject decodes a JSON object preserving numeric literals as
// json.Number so the validator can apply its own coercion policy.
func decodeObject(jsonStr string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(jsonStr))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}
