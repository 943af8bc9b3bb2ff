package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/holica49/led-rental-chatbot-sub000/entity"
	"github.com/holica49/led-rental-chatbot-sub000/internal/lib/sl"
)

const (
	msgNoPreviousStep = "이전 단계가 없습니다."
	msgTurnFailed     = "처리 중 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."
	msgCompleted      = "접수가 완료되었습니다! 담당자가 확인 후 빠르게 연락드리겠습니다. 감사합니다 😊"
)

// Engine is the dispatcher: one inbound message in, exactly one prompt out.
// It owns the cross-cutting reset/back protocol, graph-driven transitions,
// and the completion hand-off.
type Engine struct {
	store    Store
	flows    Flows
	quoter   Quoter
	listener CompletionListener
	log      *slog.Logger
}

func NewEngine(store Store, flows Flows, quoter Quoter, log *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		flows:  flows,
		quoter: quoter,
		log:    log.With(sl.Module("chat.engine")),
	}
}

// SetCompletionListener registers the collaborator receiving completed intakes.
func (e *Engine) SetCompletionListener(l CompletionListener) {
	e.listener = l
}

// Handle processes one message for one user. Validation failures and
// navigation errors are recovered into prompts; a fatal error inside a
// turn rolls the session back to its pre-turn state.
func (e *Engine) Handle(ctx context.Context, userID, raw string) (Prompt, error) {
	s := e.store.Get(userID)
	s.Lock()
	defer s.Unlock()

	text := strings.TrimSpace(raw)

	if IsResetKeyword(text) {
		e.store.Reset(userID)
		fresh := e.store.Get(userID)
		fresh.Lock()
		defer fresh.Unlock()
		return e.render(e.flows.Initial(), fresh, ""), nil
	}

	if IsBackKeyword(text) {
		snap, ok := s.PopHistory()
		if !ok {
			return e.render(e.handlerFor(s.Step), s, msgNoPreviousStep), nil
		}
		s.Restore(snap)
		return e.render(e.handlerFor(s.Step), s, ""), nil
	}

	snap := s.Snapshot()
	s.PushHistory(snap)

	h := e.handlerFor(s.Step)
	res := h.Handle(text, s)

	if res.Err != nil {
		e.log.Error("step handler failed",
			slog.String("user_id", userID),
			slog.String("step_id", string(s.Step)),
			sl.Err(res.Err),
		)
		return e.rollback(s), nil
	}

	if res.Retry {
		// The answer did not advance the step, so the pushed snapshot
		// would make "back" repeat the same question. Drop it.
		s.PopHistory()
		return e.render(h, s, res.Notice), nil
	}

	if res.Complete {
		return e.complete(ctx, s)
	}

	tr, err := e.flows.Next(s)
	if err != nil {
		e.log.Error("transition failed",
			slog.String("user_id", userID),
			slog.String("step_id", string(s.Step)),
			sl.Err(err),
		)
		return e.rollback(s), nil
	}
	if tr.AdvanceCursor {
		s.CurrentIdx++
	}
	s.Step = tr.Next

	return e.render(e.handlerFor(s.Step), s, ""), nil
}

// complete computes the quote, emits the finished project and clears the
// session. A quote failure leaves the session exactly as it was before
// this turn.
func (e *Engine) complete(ctx context.Context, s *Session) (Prompt, error) {
	var quote *entity.QuoteBreakdown
	if len(s.Data.LedSpecs) > 0 {
		var err error
		quote, err = e.quoter.Quote(s.Data.LedSpecs, s.Data.RentalDays)
		if err != nil {
			e.log.Error("quote computation failed",
				slog.String("user_id", s.UserID),
				slog.String("service", s.Service),
				sl.Err(err),
			)
			return e.rollback(s), nil
		}
	}

	project := entity.NewProject(s.Service, s.Data.Clone(), quote)
	if e.listener != nil {
		e.listener.OnIntakeComplete(ctx, project)
	}

	e.log.Info("intake completed",
		slog.String("user_id", s.UserID),
		slog.String("service", s.Service),
		slog.String("project_uuid", project.UUID),
	)

	e.store.Reset(s.UserID)
	return Prompt{Text: msgCompleted}, nil
}

// rollback restores the pre-turn snapshot and answers with a neutral
// failure prompt, keeping the conversation usable.
func (e *Engine) rollback(s *Session) Prompt {
	if snap, ok := s.PopHistory(); ok {
		s.Restore(snap)
	}
	return Prompt{Text: msgTurnFailed}
}

// handlerFor resolves the handler for a step, falling back to service
// selection for the initial or an unknown step id.
func (e *Engine) handlerFor(id StepID) Handler {
	if h, ok := e.flows.Handler(id); ok {
		return h
	}
	return e.flows.Initial()
}

// render produces the outbound prompt: optional notice, the step's
// question, and the progress indicator for the active path.
func (e *Engine) render(h Handler, s *Session, notice string) Prompt {
	p := h.Prompt(s)

	var sb strings.Builder
	if notice != "" {
		sb.WriteString("⚠️ ")
		sb.WriteString(notice)
		sb.WriteString("\n\n")
	}
	sb.WriteString(p.Text)

	if pos, total := e.flows.Progress(s); total > 0 {
		sb.WriteString(fmt.Sprintf("\n\n(%d/%d)", pos, total))
	}

	p.Text = sb.String()
	return p
}
