// Package chat owns the conversational side of a session: the introductory
// location summary, follow-up question generation, and free-text answers.
// Every model call is primed with the locked location and the dialect sample.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/couchcryptid/locale-scout/internal/domain"
	"github.com/couchcryptid/locale-scout/internal/observability"
)

// maxDialectSampleRunes bounds the dialect sample embedded in the system
// instruction; the sample is a style reference, not content, so a short
// excerpt is enough.
const maxDialectSampleRunes = 500

// questionCount is how many follow-up suggestions initialization produces.
const questionCount = 3

// Engine drives the conversation for locked sessions.
type Engine struct {
	completer       domain.Completer
	maxContextTurns int
	logger          *slog.Logger
	metrics         *observability.Metrics
}

// NewEngine creates a conversation engine. maxContextTurns caps how many
// prior turns are replayed as model context; pass 0 to disable the cap.
func NewEngine(completer domain.Completer, maxContextTurns int, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		completer:       completer,
		maxContextTurns: maxContextTurns,
		logger:          logger,
		metrics:         metrics,
	}
}

// Initialize seeds a freshly locked session: one introductory assistant
// message and exactly three follow-up questions, via two completion calls.
func (e *Engine) Initialize(ctx context.Context, sess *domain.Session) error {
	if !sess.Locked() {
		return fmt.Errorf("initialize conversation: %w", domain.ErrNoLocationResolved)
	}

	system := e.systemMessage(sess)
	location := sess.Location.DisplayName

	intro, err := e.complete(ctx, "intro", []domain.Message{
		system,
		{Role: domain.RoleUser, Content: introPrompt(location)},
	})
	if err != nil {
		return err
	}
	sess.AppendTurn(domain.RoleAssistant, strings.TrimSpace(intro))

	reply, err := e.complete(ctx, "questions", []domain.Message{
		system,
		{Role: domain.RoleUser, Content: questionsPrompt(location)},
	})
	if err != nil {
		return err
	}

	questions := parseQuestions(reply, questionCount)
	if len(questions) < questionCount {
		return fmt.Errorf("got %d questions, want %d: %w", len(questions), questionCount, domain.ErrInferenceUnavailable)
	}
	sess.ReplaceQuestions(questions)
	return nil
}

// AnswerFreeText handles a typed user message: append the USER turn, answer
// it with full (capped) prior context, append the ASSISTANT turn, then
// regenerate the follow-up suggestions from the extended context.
//
// On a backend error the appended user turn stays — history is never
// rewritten — and the caller surfaces the failure as a transient error turn.
func (e *Engine) AnswerFreeText(ctx context.Context, sess *domain.Session, text string) error {
	if !sess.Locked() {
		return fmt.Errorf("answer: %w", domain.ErrNoLocationResolved)
	}

	sess.AppendTurn(domain.RoleUser, text)

	answer, err := e.complete(ctx, "answer", e.contextMessages(sess))
	if err != nil {
		return err
	}
	sess.AppendTurn(domain.RoleAssistant, strings.TrimSpace(answer))

	e.regenerateQuestions(ctx, sess)
	return nil
}

// AnswerQuestion handles a pre-generated suggestion the user selected.
// Identical contract to AnswerFreeText; the input just originates from the
// pending-question list instead of the keyboard.
func (e *Engine) AnswerQuestion(ctx context.Context, sess *domain.Session, question string) error {
	return e.AnswerFreeText(ctx, sess, question)
}

// regenerateQuestions replaces the pending suggestions based on the turns so
// far. Failure here is not fatal: the answer already landed, so the previous
// suggestions are kept and the error only logged.
func (e *Engine) regenerateQuestions(ctx context.Context, sess *domain.Session) {
	msgs := append(e.contextMessages(sess), domain.Message{
		Role:    domain.RoleUser,
		Content: followupPrompt(),
	})

	reply, err := e.complete(ctx, "questions", msgs)
	if err != nil {
		e.logger.Warn("follow-up question generation failed", "session_id", sess.ID, "error", err)
		return
	}

	if questions := parseQuestions(reply, questionCount); len(questions) > 0 {
		sess.ReplaceQuestions(questions)
	}
}

// contextMessages builds the model context: the system instruction followed
// by the most recent turns in insertion order.
func (e *Engine) contextMessages(sess *domain.Session) []domain.Message {
	turns := sess.RecentTurns(e.maxContextTurns)
	msgs := make([]domain.Message, 0, len(turns)+1)
	msgs = append(msgs, e.systemMessage(sess))
	for _, turn := range turns {
		msgs = append(msgs, domain.Message{Role: turn.Role, Content: turn.Text})
	}
	return msgs
}

func (e *Engine) systemMessage(sess *domain.Session) domain.Message {
	return domain.Message{
		Role:    domain.RoleSystem,
		Content: buildSystemPrompt(sess.Location.DisplayName, sess.DialectSample),
	}
}

func (e *Engine) complete(ctx context.Context, kind string, msgs []domain.Message) (string, error) {
	start := time.Now()
	reply, err := e.completer.Complete(ctx, msgs)
	e.metrics.CompletionDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		e.metrics.CompletionRequests.WithLabelValues(kind, "error").Inc()
		return "", err
	}
	e.metrics.CompletionRequests.WithLabelValues(kind, "success").Inc()
	return reply, nil
}

// buildSystemPrompt names the persona, pins the locked location, and embeds
// the truncated dialect sample strictly as a tone reference.
func buildSystemPrompt(location, dialectSample string) string {
	var b strings.Builder
	b.WriteString("Sen \"Rehber\"sin: fotoğrafın çekildiği yeri candan, samimi bir yerel ağızla anlatan bir rehbersin. ")
	b.WriteString("Sohbetin konusu şu konum: ")
	b.WriteString(location)
	b.WriteString(". Cevapların kısa, sıcak ve bilgilendirici olsun; yapay zekâ olduğundan söz etme.")

	if sample := truncateRunes(dialectSample, maxDialectSampleRunes); sample != "" {
		b.WriteString("\n\nAşağıdaki örnek metin yalnızca üslup ve ağız referansıdır. ")
		b.WriteString("Örnekteki kişileri, olayları ve mekânları asla kullanma; sadece konuşma tonunu yansıt:\n---\n")
		b.WriteString(sample)
		b.WriteString("\n---")
	}
	return b.String()
}

func introPrompt(location string) string {
	return fmt.Sprintf("Kullanıcının fotoğrafı şurada çekildi: %s. Bu yeri iki üç cümleyle sıcak ve davetkâr bir dille tanıt.", location)
}

func questionsPrompt(location string) string {
	return fmt.Sprintf("%s hakkında kullanıcının sorabileceği tam olarak %d kısa soru üret. Her soruyu ayrı bir satıra yaz.", location, questionCount)
}

func followupPrompt() string {
	return "Bu sohbete dayanarak kullanıcının sorabileceği 2-3 yeni kısa soru üret. Daha önce sorulanları tekrarlama. Her soruyu ayrı bir satıra yaz."
}

// parseQuestions extracts up to max non-empty lines from a model reply,
// stripping leading bullet markers ("-", "*", "•") and list numbering.
func parseQuestions(reply string, max int) []string {
	var questions []string
	for _, line := range strings.Split(reply, "\n") {
		q := stripBullet(line)
		if q == "" {
			continue
		}
		questions = append(questions, q)
		if len(questions) == max {
			break
		}
	}
	return questions
}

func stripBullet(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "-*•·")
	s = strings.TrimSpace(s)

	// Numbered lists: "1. Soru" or "2) Soru". A bare leading number without a
	// list delimiter is content ("3 günde neler yapılır?") and stays intact.
	trimmed := strings.TrimLeftFunc(s, unicode.IsDigit)
	if trimmed != s && (strings.HasPrefix(trimmed, ".") || strings.HasPrefix(trimmed, ")")) {
		s = strings.TrimLeft(trimmed, ".)")
	}
	return strings.TrimSpace(s)
}

// truncateRunes shortens s to at most n runes without splitting a character.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
