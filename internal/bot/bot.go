// internal/bot/bot.go
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"planora/internal/domain"
	"planora/internal/insights"
	"planora/internal/questionnaire"
	"planora/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/encoding/charmap"
)

const helpText = "🧭 Planora\n\n" +
	"Commands:\n" +
	"/list - available questionnaires\n" +
	"/plan <id> - start or resume a questionnaire\n" +
	"/next - next step\n" +
	"/back - previous step\n" +
	"/skip - skip an optional question\n" +
	"/submit - get your results from the review step\n" +
	"/results - latest results of the current questionnaire\n" +
	"/cancel - discard the current draft\n\n" +
	"Anything else you send answers the current question."

// API is the part of *tgbotapi.BotAPI the bot talks to.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type chat struct {
	questionnaire domain.QuestionnaireID
	skipped       map[string]bool
}

// Bot runs questionnaires over Telegram chats. Each chat is its own session,
// and messages of one chat are handled one at a time.
type Bot struct {
	svc *questionnaire.Service

	mu    sync.Mutex
	chats map[int64]*chat
	locks map[int64]*sync.Mutex
}

func New(svc *questionnaire.Service) *Bot {
	return &Bot{svc: svc, chats: map[int64]*chat{}, locks: map[int64]*sync.Mutex{}}
}

// lockChat blocks until no other message of chatID is being handled.
func (b *Bot) lockChat(chatID int64) (unlock func()) {
	b.mu.Lock()
	l, ok := b.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		b.locks[chatID] = l
	}
	b.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func sessionOf(chatID int64) string {
	return "tg-" + strconv.FormatInt(chatID, 10)
}

// Run long-polls for updates until ctx is done.
func (b *Bot) Run(ctx context.Context, api API) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			chatID := update.Message.Chat.ID
			reply := b.Handle(ctx, chatID, update.Message.Text)
			if _, err := api.Send(tgbotapi.NewMessage(chatID, reply)); err != nil {
				slog.Error("send failed", "error", err, "chat_id", chatID)
			}
		}
	}
}

// Handle answers one incoming message.
func (b *Bot) Handle(ctx context.Context, chatID int64, raw string) string {
	text := sanitizeInput(fixEncoding(raw))
	slog.Debug("message received", "chat_id", chatID, "text", text)

	defer b.lockChat(chatID)()

	cmd, arg, _ := strings.Cut(text, " ")
	var (
		reply string
		err   error
	)
	switch cmd {
	case "/start", "/help":
		reply = helpText
	case "/list":
		reply = b.list()
	case "/plan":
		reply, err = b.plan(ctx, chatID, domain.QuestionnaireID(strings.TrimSpace(arg)))
	case "/back":
		reply, err = b.back(ctx, chatID)
	case "/next":
		reply, err = b.next(ctx, chatID)
	case "/skip":
		reply, err = b.skip(ctx, chatID)
	case "/submit":
		reply, err = b.submit(ctx, chatID)
	case "/results":
		reply, err = b.results(ctx, chatID)
	case "/cancel":
		reply, err = b.cancel(ctx, chatID)
	default:
		if strings.HasPrefix(cmd, "/") {
			reply = "Unknown command. Send /help"
		} else {
			reply, err = b.answer(ctx, chatID, text)
		}
	}

	if err != nil {
		slog.Error("bot command failed", "error", err, "chat_id", chatID, "command", cmd)
		reply = "❌ Something went wrong, please try again later."
	}
	return reply
}

func (b *Bot) active(chatID int64) (*chat, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.chats[chatID]
	return c, ok
}

func (b *Bot) list() string {
	var sb strings.Builder
	sb.WriteString("Questionnaires:\n")
	for _, d := range b.svc.Registry().List() {
		fmt.Fprintf(&sb, "/plan %s - %s\n", d.ID, d.Title)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *Bot) plan(ctx context.Context, chatID int64, id domain.QuestionnaireID) (string, error) {
	if id == "" {
		return "Usage: /plan <id>\n\n" + b.list(), nil
	}
	m, err := b.svc.Resume(ctx, sessionOf(chatID), id)
	if errors.Is(err, questionnaire.ErrUnknownQuestionnaire) {
		return fmt.Sprintf("❌ Unknown questionnaire %q\n\n%s", id, b.list()), nil
	}
	if err != nil {
		return "", err
	}

	c := &chat{questionnaire: id, skipped: map[string]bool{}}
	b.mu.Lock()
	b.chats[chatID] = c
	b.mu.Unlock()

	return b.advance(ctx, chatID, c, m, "📝 "+m.Definition().Title)
}

const noActive = "No questionnaire in progress. Send /list to pick one."

func (b *Bot) back(ctx context.Context, chatID int64) (string, error) {
	c, ok := b.active(chatID)
	if !ok {
		return noActive, nil
	}
	m, err := b.svc.Previous(ctx, sessionOf(chatID), c.questionnaire)
	if err != nil {
		return "", err
	}
	// Revisiting a step asks its optional questions again.
	c.skipped = map[string]bool{}
	return prompt(m, c), nil
}

func (b *Bot) next(ctx context.Context, chatID int64) (string, error) {
	c, ok := b.active(chatID)
	if !ok {
		return noActive, nil
	}
	m, errs, err := b.svc.Next(ctx, sessionOf(chatID), c.questionnaire)
	if err != nil {
		return "", err
	}
	if len(errs) > 0 {
		return "⚠️ " + errs.Error() + "\n\n" + prompt(m, c), nil
	}
	return prompt(m, c), nil
}

func (b *Bot) skip(ctx context.Context, chatID int64) (string, error) {
	c, ok := b.active(chatID)
	if !ok {
		return noActive, nil
	}
	m, err := b.svc.Resume(ctx, sessionOf(chatID), c.questionnaire)
	if err != nil {
		return "", err
	}
	q := pending(m, c)
	if q == nil || !q.Optional {
		return "This question can't be skipped.\n\n" + prompt(m, c), nil
	}
	c.skipped[q.ID] = true
	return b.advance(ctx, chatID, c, m, "")
}

func (b *Bot) answer(ctx context.Context, chatID int64, text string) (string, error) {
	c, ok := b.active(chatID)
	if !ok {
		return noActive, nil
	}
	session := sessionOf(chatID)
	m, err := b.svc.Resume(ctx, session, c.questionnaire)
	if err != nil {
		return "", err
	}
	q := pending(m, c)
	if q == nil {
		return prompt(m, c), nil
	}

	m, err = b.svc.Answer(ctx, session, c.questionnaire, map[string]questionnaire.Value{q.ID: parseAnswer(q, text)})
	if err != nil {
		return "", err
	}
	if msg := m.Validate()[q.ID]; msg != "" {
		return "⚠️ " + msg + "\n\n" + prompt(m, c), nil
	}
	delete(c.skipped, q.ID)
	return b.advance(ctx, chatID, c, m, "")
}

// advance moves past a step once every visible question on it is settled.
func (b *Bot) advance(ctx context.Context, chatID int64, c *chat, m *questionnaire.Machine, header string) (string, error) {
	for !m.AtReview() && pending(m, c) == nil {
		next, errs, err := b.svc.Next(ctx, sessionOf(chatID), c.questionnaire)
		if err != nil {
			return "", err
		}
		if len(errs) > 0 {
			return joinLines(header, "⚠️ "+errs.Error(), prompt(next, c)), nil
		}
		m = next
	}
	return joinLines(header, prompt(m, c)), nil
}

func (b *Bot) submit(ctx context.Context, chatID int64) (string, error) {
	c, ok := b.active(chatID)
	if !ok {
		return noActive, nil
	}
	out, m, err := b.svc.Submit(ctx, sessionOf(chatID), c.questionnaire)
	var fe questionnaire.FieldErrors
	switch {
	case errors.Is(err, questionnaire.ErrNotAtReview):
		return "Answer the remaining questions first.", nil
	case errors.As(err, &fe) && m != nil:
		return "⚠️ " + fe.Error() + "\n\n" + prompt(m, c), nil
	case err != nil:
		return "", err
	}

	b.mu.Lock()
	delete(b.chats, chatID)
	b.mu.Unlock()
	return renderReport(insights.Render(out.Record, &out.Stored.Analysis)), nil
}

func (b *Bot) results(ctx context.Context, chatID int64) (string, error) {
	c, ok := b.active(chatID)
	if !ok {
		return noActive, nil
	}
	out, err := b.svc.Results(ctx, sessionOf(chatID), c.questionnaire)
	if errors.Is(err, storage.ErrNotFound) {
		return renderReport(insights.Empty(c.questionnaire)), nil
	}
	if err != nil {
		return "", err
	}
	return renderReport(insights.Render(out.Record, &out.Stored.Analysis)), nil
}

func (b *Bot) cancel(ctx context.Context, chatID int64) (string, error) {
	c, ok := b.active(chatID)
	if !ok {
		return noActive, nil
	}
	if err := b.svc.Discard(ctx, sessionOf(chatID), c.questionnaire); err != nil {
		return "", err
	}
	b.mu.Lock()
	delete(b.chats, chatID)
	b.mu.Unlock()
	return "✅ Draft discarded", nil
}

// pending is the first visible question on the current step still needing an
// answer. Optional questions count until answered or skipped.
func pending(m *questionnaire.Machine, c *chat) *questionnaire.Question {
	if m.AtReview() {
		return nil
	}
	errs := m.Validate()
	answers := m.Answers()
	for _, q := range m.VisibleQuestions(m.Position()) {
		if c.skipped[q.ID] {
			continue
		}
		if errs[q.ID] != "" || (q.Optional && answers[q.ID].Empty()) {
			return &q
		}
	}
	return nil
}

func prompt(m *questionnaire.Machine, c *chat) string {
	if m.AtReview() {
		return review(m)
	}
	step := m.Current()
	q := pending(m, c)
	if q == nil {
		return fmt.Sprintf("%s\nSend /next to continue.", step.Title)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s\n", step.Title, q.Prompt)
	for i, opt := range q.Options {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, opt)
	}
	switch q.Kind {
	case questionnaire.KindMultiSelect:
		sb.WriteString("Send the numbers separated by commas.\n")
	case questionnaire.KindSelect:
		sb.WriteString("Send the number of your choice.\n")
	}
	if q.Optional {
		sb.WriteString("Optional: /skip\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func review(m *questionnaire.Machine) string {
	def := m.Definition()
	answers := m.Answers()
	var sb strings.Builder
	sb.WriteString("✅ All done. Your answers:\n")
	for i := range def.Steps {
		if !m.StepVisible(i) {
			continue
		}
		for _, q := range m.VisibleQuestions(i) {
			v, ok := answers[q.ID]
			if !ok {
				continue
			}
			ans := v.Text
			if v.IsList() {
				ans = strings.Join(v.Choices, ", ")
			}
			fmt.Fprintf(&sb, "• %s %s\n", q.Prompt, ans)
		}
	}
	sb.WriteString("\nSend /submit for your results or /back to change something.")
	return sb.String()
}

// parseAnswer reads option numbers or option text for choice questions.
func parseAnswer(q *questionnaire.Question, text string) questionnaire.Value {
	switch q.Kind {
	case questionnaire.KindSelect:
		return domain.Text(option(q.Options, text))
	case questionnaire.KindMultiSelect:
		var picks []string
		for _, part := range strings.Split(text, ",") {
			if part = strings.TrimSpace(part); part != "" {
				picks = append(picks, option(q.Options, part))
			}
		}
		return domain.Choices(picks...)
	default:
		return domain.Text(text)
	}
}

func option(options []string, s string) string {
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(options) {
		return options[n-1]
	}
	for _, opt := range options {
		if strings.EqualFold(opt, s) {
			return opt
		}
	}
	return s
}

var badges = map[domain.Severity]string{
	domain.SeverityDanger:  "🔴",
	domain.SeverityWarning: "🟠",
	domain.SeveritySuccess: "🟢",
	domain.SeverityInfo:    "ℹ️",
}

func renderReport(r insights.Report) string {
	blocks := make([]string, 0, len(r.Insights)+1)
	for _, in := range r.Insights {
		blocks = append(blocks, fmt.Sprintf("%s %s\n%s", badges[in.Severity], in.Title, in.Body))
	}
	if r.Action != nil {
		next := "/list"
		if r.Questionnaire != "" {
			next = "/plan " + string(r.Questionnaire)
		}
		blocks = append(blocks, "👉 "+r.Action.Label+": "+next)
	}
	return strings.Join(blocks, "\n\n")
}

func joinLines(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

// sanitizeInput collapses every run of whitespace into a single space.
func sanitizeInput(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// fixEncoding repairs text that arrived as Windows-1251 instead of UTF-8.
func fixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	fixed, err := charmap.Windows1251.NewDecoder().String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}
	return strings.ToValidUTF8(s, "")
}
