package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/output"
)

const instrumentationName = "sehatnama/interview"

// Controller defaults
const (
	DefaultMaxAgentCalls = 4
	DefaultAgentTimeout  = 45 * time.Second
)

// replySeparator joins the texts of the agent invocations of one cycle
const replySeparator = "\n\n"

// ControllerOptions struct
type ControllerOptions struct {
	// MaxAgentCalls bounds agent invocations per inbound message
	MaxAgentCalls int
	// AgentTimeout bounds a single agent invocation
	AgentTimeout time.Duration
}

// InterviewController drives a session through the section state machine.
// It does no locking; callers hold the session lock for a whole cycle.
type InterviewController struct {
	catalog       *domain.Catalog
	agent         output.Agent
	maxAgentCalls int
	agentTimeout  time.Duration

	tracer   trace.Tracer
	duration metric.Float64Histogram
	applied  metric.Int64Counter
	dropped  metric.Int64Counter
	advanced metric.Int64Counter
	degraded metric.Int64Counter
}

// CycleResult is the outcome of one controller cycle
type CycleResult struct {
	Message  string
	Calls    int
	Degraded bool
}

// NewInterviewController func
func NewInterviewController(catalog *domain.Catalog, agent output.Agent, opts ControllerOptions) *InterviewController {
	if opts.MaxAgentCalls <= 0 {
		opts.MaxAgentCalls = DefaultMaxAgentCalls
	}
	if opts.AgentTimeout <= 0 {
		opts.AgentTimeout = DefaultAgentTimeout
	}

	meter := otel.Meter(instrumentationName)
	c := &InterviewController{
		catalog:       catalog,
		agent:         agent,
		maxAgentCalls: opts.MaxAgentCalls,
		agentTimeout:  opts.AgentTimeout,
		tracer:        otel.Tracer(instrumentationName),
	}

	var err error
	if c.duration, err = meter.Float64Histogram(
		"interview.agent.duration",
		metric.WithDescription("Agent invocation duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		logrus.Warnf("Failed to create agent duration histogram: %v", err)
	}
	if c.applied, err = meter.Int64Counter(
		"interview.extractions.applied",
		metric.WithDescription("Extraction requests written to the record"),
	); err != nil {
		logrus.Warnf("Failed to create applied extraction counter: %v", err)
	}
	if c.dropped, err = meter.Int64Counter(
		"interview.extractions.dropped",
		metric.WithDescription("Malformed extraction requests"),
	); err != nil {
		logrus.Warnf("Failed to create dropped extraction counter: %v", err)
	}
	if c.advanced, err = meter.Int64Counter(
		"interview.sections.advanced",
		metric.WithDescription("Completed sections"),
	); err != nil {
		logrus.Warnf("Failed to create section counter: %v", err)
	}
	if c.degraded, err = meter.Int64Counter(
		"interview.agent.degraded",
		metric.WithDescription("Agent invocations answered with the placeholder reply"),
	); err != nil {
		logrus.Warnf("Failed to create degraded counter: %v", err)
	}

	return c
}

// Catalog returns the section catalog the controller walks
func (c *InterviewController) Catalog() *domain.Catalog {
	return c.catalog
}

// Accept records an inbound patient utterance and arms the next cycle.
// A finished interview rejects the utterance and is left untouched.
func (c *InterviewController) Accept(session *domain.InterviewSession, utterance string) error {
	if session.Finished || session.State == domain.StateFinished {
		return fmt.Errorf("%w: session %s", domain.ErrInterviewFinished, session.ID)
	}
	if session.Language == "" {
		session.Language = domain.DetectLanguage(utterance)
		logrus.Infof("Session %s language detected: %s", session.ID, session.Language)
	}
	session.AppendTurn(domain.RolePatient, utterance)
	session.State = domain.StateAwaitingAgent
	return nil
}

// Run invokes the agent until the session awaits the patient or is finished.
// onToken, when set, receives reply text as it is produced; the concatenation of
// everything passed to it equals CycleResult.Message unless an invocation failed midway.
// Without onToken each invocation is a single non-streaming agent call.
func (c *InterviewController) Run(ctx context.Context, session *domain.InterviewSession, onToken func(string)) CycleResult {
	var (
		result CycleResult
		texts  []string
	)

	for session.State == domain.StateAwaitingAgent {
		if result.Calls >= c.maxAgentCalls {
			logrus.Warnf("Session %s reached %d agent calls in one cycle, waiting for the patient", session.ID, c.maxAgentCalls)
			session.State = domain.StateAwaitingPatient
			break
		}
		result.Calls++
		session.AgentCalls++

		emit := c.tokenSink(onToken, len(texts) > 0)
		reply, err := c.invoke(ctx, session, emit)
		if err != nil {
			logrus.Errorf("Agent failed for session %s in section %s: %v", session.ID, session.CurrentSection, err)
			c.add(ctx, c.degraded, 1, session.CurrentSection)
			result.Degraded = true
			if emit != nil {
				emit(domain.PlaceholderReply)
			}
			texts = append(texts, domain.PlaceholderReply)
			session.State = domain.StateAwaitingPatient
			break
		}

		if strings.TrimSpace(reply.Text) != "" {
			session.AppendTurn(domain.RoleAgent, reply.Text)
			texts = append(texts, reply.Text)
		}

		switch reply.Kind {
		case domain.ReplyKindExtract:
			// the agent still owes the patient a question, so it runs again
			c.applyExtractions(ctx, session, reply.Extractions)
			if reply.CompleteAfter {
				c.advance(ctx, session)
			}
		case domain.ReplyKindComplete:
			c.advance(ctx, session)
		default:
			session.State = domain.StateAwaitingPatient
		}
	}

	if len(texts) == 0 && !session.Finished {
		logrus.Warnf("Session %s produced no reply text in %d agent calls", session.ID, result.Calls)
		c.add(ctx, c.degraded, 1, session.CurrentSection)
		result.Degraded = true
		if emit := c.tokenSink(onToken, false); emit != nil {
			emit(domain.PlaceholderReply)
		}
		texts = append(texts, domain.PlaceholderReply)
	}

	result.Message = strings.Join(texts, replySeparator)
	return result
}

// tokenSink forwards tokens and inserts the reply separator before the first
// token of an invocation that follows an earlier non-empty text.
// It is nil when the cycle is not streamed.
func (c *InterviewController) tokenSink(onToken func(string), separate bool) func(string) {
	if onToken == nil {
		return nil
	}
	first := true
	return func(token string) {
		if token == "" {
			return
		}
		if first && separate {
			onToken(replySeparator)
		}
		first = false
		onToken(token)
	}
}

// invoke makes one agent call for the current section under the per-call timeout
func (c *InterviewController) invoke(ctx context.Context, session *domain.InterviewSession, onToken func(string)) (*domain.AgentReply, error) {
	ctx, span := c.tracer.Start(ctx, "agent.respond", trace.WithAttributes(
		attribute.String("session.id", session.ID),
		attribute.String("interview.section", string(session.CurrentSection)),
	))
	defer span.End()

	instruction, err := c.catalog.RenderInstruction(session.CurrentSection, session.Record)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	request := domain.AgentRequest{
		Section:     session.CurrentSection,
		Instruction: instruction,
		Turns:       session.GetHistory(),
	}

	callCtx, cancel := context.WithTimeout(ctx, c.agentTimeout)
	defer cancel()

	start := time.Now()
	var reply *domain.AgentReply
	if onToken != nil {
		reply, err = c.agent.RespondStream(callCtx, request, onToken)
	} else {
		reply, err = c.agent.Respond(callCtx, request)
	}
	if c.duration != nil {
		c.duration.Record(ctx, float64(time.Since(start).Milliseconds()),
			metric.WithAttributes(attribute.String("interview.section", string(session.CurrentSection))))
	}

	if err == nil && reply == nil {
		err = fmt.Errorf("%w: agent returned no reply", domain.ErrCollaboratorUnavailable)
	}
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, domain.ErrCollaboratorTimeout) {
			err = fmt.Errorf("%w: %v", domain.ErrCollaboratorTimeout, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("agent.reply.kind", string(reply.Kind)),
		attribute.Int("agent.reply.extractions", len(reply.Extractions)),
	)
	return reply, nil
}

// applyExtractions writes valid requests in order and returns how many were applied.
// An empty section resolves to the current one; unknown sections are malformed.
func (c *InterviewController) applyExtractions(ctx context.Context, session *domain.InterviewSession, requests []domain.ExtractionRequest) int {
	applied := 0
	for _, req := range requests {
		if req.Section == "" {
			req.Section = session.CurrentSection
		}
		err := req.Validate()
		if err == nil && !c.catalog.Contains(req.Section) {
			err = fmt.Errorf("%w: unknown section %q", domain.ErrMalformedExtraction, req.Section)
		}
		if err != nil {
			logrus.Warnf("Dropping extraction for session %s: %v", session.ID, err)
			c.add(ctx, c.dropped, 1, session.CurrentSection)
			continue
		}
		session.Record.Apply(req)
		applied++
	}
	if applied > 0 {
		c.add(ctx, c.applied, int64(applied), session.CurrentSection)
	}
	return applied
}

// advance completes the current section and moves to its successor, or finishes
func (c *InterviewController) advance(ctx context.Context, session *domain.InterviewSession) {
	session.SectionComplete = true
	c.add(ctx, c.advanced, 1, session.CurrentSection)

	next, ok := c.catalog.Next(session.CurrentSection)
	if !ok {
		logrus.Infof("Session %s completed the last section %s", session.ID, session.CurrentSection)
		session.Finished = true
		session.State = domain.StateFinished
		return
	}

	logrus.Infof("Session %s advanced from %s to %s", session.ID, session.CurrentSection, next)
	session.CurrentSection = next
	session.SectionComplete = false
	session.State = domain.StateAwaitingAgent
}

func (c *InterviewController) add(ctx context.Context, counter metric.Int64Counter, n int64, section domain.SectionID) {
	if counter == nil {
		return
	}
	counter.Add(ctx, n, metric.WithAttributes(attribute.String("interview.section", string(section))))
}
