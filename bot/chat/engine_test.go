package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holica49/led-rental-chatbot-sub000/entity"
)

type stubHandler struct {
	id     StepID
	text   string
	handle func(raw string, s *Session) HandleResult
}

func (h *stubHandler) ID() StepID                { return h.id }
func (h *stubHandler) Prompt(_ *Session) Prompt  { return Prompt{Text: h.text} }
func (h *stubHandler) Handle(raw string, s *Session) HandleResult {
	if h.handle == nil {
		return HandleResult{}
	}
	return h.handle(raw, s)
}

type stubFlows struct {
	handlers map[StepID]Handler
	initial  StepID
	next     func(s *Session) (Transition, error)
}

func (f *stubFlows) Handler(id StepID) (Handler, bool) {
	h, ok := f.handlers[id]
	return h, ok
}
func (f *stubFlows) Initial() Handler                       { return f.handlers[f.initial] }
func (f *stubFlows) Next(s *Session) (Transition, error)    { return f.next(s) }
func (f *stubFlows) Progress(_ *Session) (pos, total int)   { return 0, 0 }

type stubQuoter struct {
	quote *entity.QuoteBreakdown
	err   error
	calls int
}

func (q *stubQuoter) Quote(_ []entity.EquipmentSpec, _ int) (*entity.QuoteBreakdown, error) {
	q.calls++
	return q.quote, q.err
}

type captureListener struct {
	projects []*entity.Project
}

func (l *captureListener) OnIntakeComplete(_ context.Context, p *entity.Project) {
	l.projects = append(l.projects, p)
}

// twoStepFlows is a minimal linear flow: start → second → (complete).
func twoStepFlows(secondResult HandleResult) *stubFlows {
	f := &stubFlows{
		handlers: make(map[StepID]Handler),
		initial:  "start",
	}
	f.handlers["start"] = &stubHandler{
		id:   "start",
		text: "first question",
		handle: func(raw string, s *Session) HandleResult {
			s.Data.Venue = raw
			return HandleResult{}
		},
	}
	f.handlers["second"] = &stubHandler{
		id:   "second",
		text: "second question",
		handle: func(_ string, _ *Session) HandleResult {
			return secondResult
		},
	}
	f.next = func(s *Session) (Transition, error) {
		return Transition{Next: "second"}, nil
	}
	return f
}

func newTestEngine(flows Flows, quoter Quoter) (*Engine, *MemoryStore, *captureListener) {
	store := NewMemoryStore(30*time.Minute, discardLogger())
	listener := &captureListener{}
	e := NewEngine(store, flows, quoter, discardLogger())
	e.SetCompletionListener(listener)
	return e, store, listener
}

func TestEngineAdvancesOnAcceptedAnswer(t *testing.T) {
	e, store, _ := newTestEngine(twoStepFlows(HandleResult{}), &stubQuoter{})

	p, err := e.Handle(context.Background(), "u1", "코엑스")
	require.NoError(t, err)
	assert.Contains(t, p.Text, "second question")

	s := store.Get("u1")
	assert.Equal(t, StepID("second"), s.Step)
	assert.Equal(t, "코엑스", s.Data.Venue)
	assert.Len(t, s.History, 1)
}

func TestEngineRetryDoesNotAdvance(t *testing.T) {
	flows := twoStepFlows(HandleResult{})
	flows.handlers["start"] = &stubHandler{
		id:   "start",
		text: "first question",
		handle: func(_ string, _ *Session) HandleResult {
			return HandleResult{Retry: true, Notice: "다시 입력해 주세요"}
		},
	}
	e, store, _ := newTestEngine(flows, &stubQuoter{})

	p, err := e.Handle(context.Background(), "u1", "???")
	require.NoError(t, err)
	assert.Contains(t, p.Text, "⚠️ 다시 입력해 주세요")
	assert.Contains(t, p.Text, "first question")

	s := store.Get("u1")
	assert.Equal(t, StepID(""), s.Step)
	assert.Empty(t, s.History, "rejected answers leave no back target")
}

func TestEngineBackRestoresPreviousStep(t *testing.T) {
	e, store, _ := newTestEngine(twoStepFlows(HandleResult{}), &stubQuoter{})

	_, err := e.Handle(context.Background(), "u1", "코엑스")
	require.NoError(t, err)

	p, err := e.Handle(context.Background(), "u1", "이전")
	require.NoError(t, err)
	assert.Contains(t, p.Text, "first question")

	s := store.Get("u1")
	assert.Equal(t, StepID(""), s.Step)
	assert.Empty(t, s.Data.Venue, "answer captured by the undone turn is gone")
}

func TestEngineBackWithoutHistory(t *testing.T) {
	e, _, _ := newTestEngine(twoStepFlows(HandleResult{}), &stubQuoter{})

	p, err := e.Handle(context.Background(), "u1", "이전")
	require.NoError(t, err)
	assert.Contains(t, p.Text, "이전 단계가 없습니다")
	assert.Contains(t, p.Text, "first question")
}

func TestEngineResetDropsSession(t *testing.T) {
	e, store, _ := newTestEngine(twoStepFlows(HandleResult{}), &stubQuoter{})

	_, err := e.Handle(context.Background(), "u1", "코엑스")
	require.NoError(t, err)

	p, err := e.Handle(context.Background(), "u1", "처음부터")
	require.NoError(t, err)
	assert.Contains(t, p.Text, "first question")

	s := store.Get("u1")
	assert.Equal(t, StepID(""), s.Step)
	assert.Empty(t, s.Data.Venue)
}

func TestEngineCompleteEmitsProjectAndResets(t *testing.T) {
	quoter := &stubQuoter{quote: &entity.QuoteBreakdown{Total: 1100000}}
	e, store, listener := newTestEngine(twoStepFlows(HandleResult{Complete: true}), quoter)

	_, err := e.Handle(context.Background(), "u1", "코엑스")
	require.NoError(t, err)

	s := store.Get("u1")
	s.Service = entity.ServiceRental
	s.Data.LedSpecs = []entity.EquipmentSpec{{WidthMM: 3000, HeightMM: 2000}}

	p, err := e.Handle(context.Background(), "u1", "네")
	require.NoError(t, err)
	assert.Contains(t, p.Text, "접수가 완료되었습니다")

	require.Len(t, listener.projects, 1)
	project := listener.projects[0]
	assert.Equal(t, entity.ServiceRental, project.Service)
	assert.NotEmpty(t, project.UUID)
	require.NotNil(t, project.Quote)
	assert.Equal(t, int64(1100000), project.Quote.Total)
	assert.Equal(t, 1, quoter.calls)

	assert.Equal(t, StepID(""), store.Get("u1").Step, "session starts over")
}

func TestEngineCompleteWithoutEquipmentSkipsQuote(t *testing.T) {
	quoter := &stubQuoter{}
	e, store, listener := newTestEngine(twoStepFlows(HandleResult{Complete: true}), quoter)

	_, err := e.Handle(context.Background(), "u1", "서울 강남구")
	require.NoError(t, err)

	store.Get("u1").Service = entity.ServiceInstall

	_, err = e.Handle(context.Background(), "u1", "네")
	require.NoError(t, err)

	require.Len(t, listener.projects, 1)
	assert.Nil(t, listener.projects[0].Quote)
	assert.Equal(t, 0, quoter.calls)
}

func TestEngineQuoteFailureRollsBack(t *testing.T) {
	quoter := &stubQuoter{err: errors.New("bad spec")}
	e, store, listener := newTestEngine(twoStepFlows(HandleResult{Complete: true}), quoter)

	_, err := e.Handle(context.Background(), "u1", "코엑스")
	require.NoError(t, err)
	store.Get("u1").Data.LedSpecs = []entity.EquipmentSpec{{WidthMM: 3000, HeightMM: 2000}}

	p, err := e.Handle(context.Background(), "u1", "네")
	require.NoError(t, err)
	assert.Contains(t, p.Text, "오류가 발생했습니다")
	assert.Empty(t, listener.projects)

	assert.Equal(t, StepID("second"), store.Get("u1").Step, "turn rolled back, not reset")
}

func TestEngineFatalHandlerErrorRollsBack(t *testing.T) {
	e, store, _ := newTestEngine(twoStepFlows(HandleResult{Err: errors.New("cursor out of range")}), &stubQuoter{})

	_, err := e.Handle(context.Background(), "u1", "코엑스")
	require.NoError(t, err)

	p, err := e.Handle(context.Background(), "u1", "무엇이든")
	require.NoError(t, err)
	assert.Contains(t, p.Text, "오류가 발생했습니다")
	assert.Equal(t, StepID("second"), store.Get("u1").Step)
}

func TestEngineAppliesCursorAdvance(t *testing.T) {
	flows := twoStepFlows(HandleResult{})
	flows.next = func(s *Session) (Transition, error) {
		return Transition{Next: "second", AdvanceCursor: true}, nil
	}
	e, store, _ := newTestEngine(flows, &stubQuoter{})

	store.Get("u1").CurrentIdx = 1

	_, err := e.Handle(context.Background(), "u1", "3000x2000")
	require.NoError(t, err)
	assert.Equal(t, 2, store.Get("u1").CurrentIdx)
}
