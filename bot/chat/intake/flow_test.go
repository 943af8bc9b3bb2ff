package intake

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holica49/led-rental-chatbot-sub000/bot/chat"
	"github.com/holica49/led-rental-chatbot-sub000/entity"
)

type captureListener struct {
	projects []*entity.Project
}

func (l *captureListener) OnIntakeComplete(_ context.Context, p *entity.Project) {
	l.projects = append(l.projects, p)
}

func newConversation(t *testing.T) (*chat.Engine, *chat.MemoryStore, *captureListener) {
	t.Helper()
	quoter := testQuoter()
	store := chat.NewMemoryStore(30*time.Minute, testLogger())
	engine := chat.NewEngine(store, NewFlows(quoter, testLogger()), quoter, testLogger())
	listener := &captureListener{}
	engine.SetCompletionListener(listener)
	return engine, store, listener
}

func say(t *testing.T, e *chat.Engine, text string) chat.Prompt {
	t.Helper()
	p, err := e.Handle(context.Background(), "u1", text)
	require.NoError(t, err)
	return p
}

func TestGreetingOnUnrecognizedFirstMessage(t *testing.T) {
	e, _, _ := newConversation(t)

	p := say(t, e, "안녕하세요")
	assert.Contains(t, p.Text, "어떤 서비스를 찾고 계신가요?")
	require.Len(t, p.Choices, 3)
}

func TestRentalFlowTwoUnits(t *testing.T) {
	e, store, listener := newConversation(t)

	say(t, e, "LED 렌탈")
	say(t, e, "코엑스 A홀")
	say(t, e, "2")

	// first unit
	say(t, e, "6000x3000")
	say(t, e, "600")
	say(t, e, "네") // operator needed
	say(t, e, "2") // operator days
	say(t, e, "아니요")
	p := say(t, e, "아니요")
	assert.Contains(t, p.Text, "2번째 LED의 크기", "loop repeats for the second unit")

	// second unit, no operator
	say(t, e, "3000x2000")
	say(t, e, "0")
	p = say(t, e, "아니요")
	assert.Contains(t, p.Text, "프롬프터", "operator days skipped without an operator")
	say(t, e, "아니요")
	p = say(t, e, "아니요")
	assert.Contains(t, p.Text, "기간", "loop exits to the rental period")

	s := store.Get("u1")
	require.Len(t, s.Data.LedSpecs, 2)
	assert.Equal(t, 6000, s.Data.LedSpecs[0].WidthMM)
	assert.True(t, s.Data.LedSpecs[0].NeedOperator)
	assert.Equal(t, 2, s.Data.LedSpecs[0].OperatorDays)
	assert.Equal(t, 3000, s.Data.LedSpecs[1].WidthMM)
	assert.False(t, s.Data.LedSpecs[1].NeedOperator)

	say(t, e, "2025-07-09 ~ 2025-07-11")
	say(t, e, "없음")
	say(t, e, "오리온디스플레이")
	say(t, e, "홍길동")
	say(t, e, "과장")
	p = say(t, e, "01012345678")
	assert.Contains(t, p.Text, "접수 내용을 확인해 주세요")
	assert.Contains(t, p.Text, "010-1234-5678")
	assert.Contains(t, p.Text, "예상 견적")

	p = say(t, e, "네")
	assert.Contains(t, p.Text, "접수가 완료되었습니다")

	require.Len(t, listener.projects, 1)
	project := listener.projects[0]
	assert.Equal(t, entity.ServiceRental, project.Service)
	assert.Equal(t, 3, project.Data.RentalDays)
	require.Len(t, project.Data.LedSpecs, 2)
	require.NotNil(t, project.Quote)
	assert.Equal(t, 96, project.Quote.TotalUnits) // 72 + 24 modules
	assert.Greater(t, project.Quote.OperatorCost, int64(0))

	assert.Equal(t, chat.StepID(""), store.Get("u1").Step, "session cleared after completion")
}

func TestInstallFlowIndoor(t *testing.T) {
	e, _, listener := newConversation(t)

	say(t, e, "LED 설치")
	say(t, e, "실내")
	p := say(t, e, "서울 강남구")
	assert.Contains(t, p.Text, "공간의 용도", "indoor branch asks the space type")

	p = say(t, e, "매장")
	assert.Contains(t, p.Text, "어떤 용도로", "space type is followed by purpose")
	say(t, e, "광고")
	say(t, e, "1,000만원 미만")
	say(t, e, "8월 중순 협의")
	say(t, e, "오리온디스플레이")
	say(t, e, "홍길동")
	say(t, e, "대리")
	p = say(t, e, "01098765432")
	assert.Contains(t, p.Text, "접수 내용을 확인해 주세요")
	assert.NotContains(t, p.Text, "예상 견적", "install intake carries no quote")

	say(t, e, "네")
	require.Len(t, listener.projects, 1)
	assert.Equal(t, entity.ServiceInstall, listener.projects[0].Service)
	assert.Nil(t, listener.projects[0].Quote)
}

func TestInstallFlowOutdoorSkipsSpaceType(t *testing.T) {
	e, _, _ := newConversation(t)

	say(t, e, "LED 설치")
	say(t, e, "실외")
	p := say(t, e, "부산 해운대구")
	assert.Contains(t, p.Text, "어떤 용도로", "outdoor branch goes straight to purpose")
}

func TestMembershipFlowExitsToNotes(t *testing.T) {
	e, _, _ := newConversation(t)

	say(t, e, "멤버쉽")
	say(t, e, "강남 스튜디오")
	say(t, e, "1")
	say(t, e, "3000x2000")
	say(t, e, "0")
	say(t, e, "아니요")
	say(t, e, "아니요")
	p := say(t, e, "아니요")
	assert.Contains(t, p.Text, "추가 요청사항", "membership skips the rental period")
}

func TestValidationFailureKeepsStep(t *testing.T) {
	e, store, _ := newConversation(t)

	say(t, e, "LED 렌탈")
	say(t, e, "코엑스 A홀")

	p := say(t, e, "9")
	assert.Contains(t, p.Text, "⚠️")
	assert.Equal(t, 0, store.Get("u1").EquipmentCount)

	p = say(t, e, "2")
	assert.Contains(t, p.Text, "1번째 LED의 크기")
	assert.Equal(t, 2, store.Get("u1").EquipmentCount)
}

func TestSizeSuggestionOnOffGridInput(t *testing.T) {
	e, _, _ := newConversation(t)

	say(t, e, "LED 렌탈")
	say(t, e, "코엑스 A홀")
	say(t, e, "1")

	p := say(t, e, "5100x3000")
	assert.Contains(t, p.Text, "⚠️")
	assert.Contains(t, p.Text, "5000", "suggests the nearest grid size")
}

func TestBackRestoresAnswer(t *testing.T) {
	e, store, _ := newConversation(t)

	say(t, e, "LED 렌탈")
	say(t, e, "코엑스 A홀")
	say(t, e, "1")
	say(t, e, "6000x3000")

	// Undo the size answer: back at the size question with the spec gone.
	p := say(t, e, "이전")
	assert.Contains(t, p.Text, "1번째 LED의 크기")
	assert.Empty(t, store.Get("u1").Data.LedSpecs)

	say(t, e, "4000x2500")
	require.Len(t, store.Get("u1").Data.LedSpecs, 1)
	assert.Equal(t, 4000, store.Get("u1").Data.LedSpecs[0].WidthMM)
}

func TestResetRestartsConversation(t *testing.T) {
	e, store, _ := newConversation(t)

	say(t, e, "LED 렌탈")
	say(t, e, "코엑스 A홀")

	p := say(t, e, "처음부터")
	assert.Contains(t, p.Text, "어떤 서비스를 찾고 계신가요?")

	s := store.Get("u1")
	assert.Empty(t, s.Service)
	assert.Empty(t, s.Data.Venue)
}

func TestConfirmRejectionKeepsSession(t *testing.T) {
	e, store, listener := newConversation(t)

	say(t, e, "LED 설치")
	say(t, e, "실내")
	say(t, e, "서울 강남구")
	say(t, e, "매장")
	say(t, e, "행사")
	say(t, e, "미정")
	say(t, e, "협의 가능")
	say(t, e, "오리온디스플레이")
	say(t, e, "홍길동")
	say(t, e, "과장")
	say(t, e, "01012345678")

	p := say(t, e, "아니요")
	assert.Contains(t, p.Text, "이전")
	assert.Empty(t, listener.projects)
	assert.Equal(t, StepConfirm, store.Get("u1").Step)
}
