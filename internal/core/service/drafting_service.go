package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
	"github.com/smarttask/smarttask/internal/pkg/metrics"
)

const (
	opDraft    = "draft"
	opPriority = "priority"
	opSpeech   = "speech"

	speechUploadName = "command.webm"
)

// jsonObjectPattern picks the JSON object out of a reply that wraps it in a
// markdown fence or prose.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

type draftingService struct {
	generator   ports.TextGenerator
	transcriber ports.Transcriber
	log         zerolog.Logger
}

func NewDraftingService(generator ports.TextGenerator, transcriber ports.Transcriber, log zerolog.Logger) ports.DraftingService {
	return &draftingService{generator: generator, transcriber: transcriber, log: log}
}

// DraftTaskDescription asks the generator for a title and description. Both
// must come back non-empty.
func (s *draftingService) DraftTaskDescription(ctx context.Context, in ports.DraftInput) (*domain.TaskDraft, error) {
	serviceType := strings.TrimSpace(in.ServiceType)
	keywords := strings.TrimSpace(in.Keywords)
	if serviceType == "" || keywords == "" {
		return nil, &domain.ValidationError{Message: "Service type and keywords are required"}
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Generate a professional %s task", serviceType)
	if c := strings.TrimSpace(in.ClientName); c != "" {
		fmt.Fprintf(&prompt, " for client %s", c)
	}
	if p := strings.TrimSpace(in.Priority); p != "" {
		fmt.Fprintf(&prompt, " with %s priority", p)
	}
	fmt.Fprintf(&prompt, ". Task keywords: %s", keywords)
	prompt.WriteString("\nFormat the response as JSON with 'title' (max 10 words) and 'description' (2-3 paragraphs) fields.")

	out, err := s.generate(ctx, opDraft, ports.GenerationRequest{
		System: fmt.Sprintf("You are a professional %s task description generator. "+
			"Create clear, concise task descriptions that follow industry standards.", serviceType),
		Prompt:      prompt.String(),
		JSON:        true,
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	var draft domain.TaskDraft
	if err := decodeJSONObject(out, &draft); err != nil {
		metrics.AIRequestsTotal.WithLabelValues(opDraft, "error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	if draft.Title == "" || draft.Description == "" {
		metrics.AIRequestsTotal.WithLabelValues(opDraft, "error").Inc()
		return nil, fmt.Errorf("%w: response is missing title or description", domain.ErrGeneration)
	}
	metrics.AIRequestsTotal.WithLabelValues(opDraft, "ok").Inc()
	return &draft, nil
}

// SuggestPriority returns low, medium or high. Backend failures and unexpected
// answers resolve to the default priority.
func (s *draftingService) SuggestPriority(ctx context.Context, description string, deadlineDays *int) domain.Priority {
	prompt := "Analyze this task description and recommend a priority level (low, medium, or high):\n\n" + description
	if deadlineDays != nil {
		prompt += fmt.Sprintf("\n\nThe deadline for this task is %d days from now.", *deadlineDays)
	}

	out, err := s.generate(ctx, opPriority, ports.GenerationRequest{
		System:      "You are a task priority analyzer. Respond with only 'low', 'medium', or 'high' based on task urgency and importance.",
		Prompt:      prompt,
		Temperature: 0.3,
		MaxTokens:   50,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("priority suggestion failed, using default")
		metrics.AIRequestsTotal.WithLabelValues(opPriority, "fallback").Inc()
		return domain.DefaultPriority
	}
	p, ok := domain.ParsePriority(out)
	if !ok {
		s.log.Warn().Str("answer", out).Msg("unexpected priority answer, using default")
		metrics.AIRequestsTotal.WithLabelValues(opPriority, "fallback").Inc()
		return domain.DefaultPriority
	}
	metrics.AIRequestsTotal.WithLabelValues(opPriority, "ok").Inc()
	return p
}

// ExtractTaskFromSpeech transcribes a base64 recording (optionally a data URL)
// and extracts task fields from the transcript. Any failing stage fails the
// whole call.
func (s *draftingService) ExtractTaskFromSpeech(ctx context.Context, audio string) (*domain.SpeechTask, error) {
	raw, err := decodeAudio(audio)
	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues(opSpeech, "error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrTranscription, err)
	}

	start := time.Now()
	transcript, err := s.transcriber.Transcribe(ctx, bytes.NewReader(raw), speechUploadName)
	metrics.AIRequestDuration.WithLabelValues(opSpeech).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues(opSpeech, "error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrTranscription, err)
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		metrics.AIRequestsTotal.WithLabelValues(opSpeech, "error").Inc()
		return nil, fmt.Errorf("%w: empty transcript", domain.ErrTranscription)
	}

	prompt := fmt.Sprintf("Extract task information from this voice command: '%s'\n", transcript) +
		"Parse it into JSON format with the following fields:\n" +
		"1. title: The task title (create a concise, professional title based on the context)\n" +
		"2. description: Detailed task description (expand on what was mentioned to create a comprehensive task description)\n" +
		"3. service_type: Type of service (e.g., Legal, IT, Consulting, Design, etc.)\n" +
		"4. priority: Task priority (low, medium, high - infer based on urgency words or task importance)\n" +
		"5. client_name: Name of the client (exact name as mentioned)\n" +
		"6. deadline_in_days: Suggested deadline in days from now (if mentioned or can be reasonably inferred)\n" +
		"Always extract as much detail as possible from the voice command. " +
		"If specific information isn't provided, make a reasonable inference based on the context of the task."

	out, err := s.generate(ctx, opSpeech, ports.GenerationRequest{
		System:      "You are an assistant that extracts task information from voice commands.",
		Prompt:      prompt,
		JSON:        true,
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}

	var fields extractedFields
	if err := decodeJSONObject(out, &fields); err != nil {
		metrics.AIRequestsTotal.WithLabelValues(opSpeech, "error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}
	info := fields.toTask()
	if info.Title == "" {
		metrics.AIRequestsTotal.WithLabelValues(opSpeech, "error").Inc()
		return nil, fmt.Errorf("%w: no title could be extracted", domain.ErrExtraction)
	}
	metrics.AIRequestsTotal.WithLabelValues(opSpeech, "ok").Inc()
	return &domain.SpeechTask{Transcript: transcript, TaskInfo: info}, nil
}

// generate calls the backend and records timing. Empty replies are errors.
func (s *draftingService) generate(ctx context.Context, op string, req ports.GenerationRequest) (string, error) {
	start := time.Now()
	out, err := s.generator.Generate(ctx, req)
	metrics.AIRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err == nil && strings.TrimSpace(out) == "" {
		err = fmt.Errorf("no content received")
	}
	if err != nil {
		if op != opPriority {
			metrics.AIRequestsTotal.WithLabelValues(op, "error").Inc()
		}
		s.log.Error().Err(err).Str("operation", op).Msg("text generation failed")
		return "", err
	}
	return out, nil
}

// extractedFields accepts the loosely typed reply of the extraction prompt.
type extractedFields struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	ServiceType    string          `json:"service_type"`
	Priority       string          `json:"priority"`
	ClientName     string          `json:"client_name"`
	DeadlineInDays json.RawMessage `json:"deadline_in_days"`
	Deadline       json.RawMessage `json:"deadline"`
}

func (f extractedFields) toTask() domain.ExtractedTask {
	p, ok := domain.ParsePriority(f.Priority)
	if !ok {
		p = domain.DefaultPriority
	}
	days := parseDays(f.DeadlineInDays)
	if days == nil {
		days = parseDays(f.Deadline)
	}
	return domain.ExtractedTask{
		Title:          strings.TrimSpace(f.Title),
		Description:    strings.TrimSpace(f.Description),
		ServiceType:    strings.TrimSpace(f.ServiceType),
		Priority:       p,
		ClientName:     strings.TrimSpace(f.ClientName),
		DeadlineInDays: days,
	}
}

// parseDays reads a day count given as a JSON number or a numeric string.
func parseDays(raw json.RawMessage) *int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		fields := strings.Fields(s)
		if len(fields) == 0 {
			return nil
		}
		if n, err = strconv.ParseFloat(fields[0], 64); err != nil {
			return nil
		}
	}
	if n < 0 {
		return nil
	}
	days := int(n)
	return &days
}

func decodeJSONObject(content string, v any) error {
	raw := jsonObjectPattern.FindString(content)
	if raw == "" {
		return fmt.Errorf("no JSON object in response")
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAudio strips an optional data-URL prefix and decodes base64.
func decodeAudio(audio string) ([]byte, error) {
	audio = strings.TrimSpace(audio)
	if i := strings.Index(audio, ","); i >= 0 {
		audio = audio[i+1:]
	}
	if audio == "" {
		return nil, fmt.Errorf("no audio data")
	}
	raw, err := base64.StdEncoding.DecodeString(audio)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no audio data")
	}
	return raw, nil
}
