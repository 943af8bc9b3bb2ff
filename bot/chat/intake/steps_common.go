package intake

import (
	"strings"

	"github.com/holica49/led-rental-chatbot-sub000/bot/chat"
	"github.com/holica49/led-rental-chatbot-sub000/entity"
)

const (
	noticePickChoice = "보기 중에서 선택해 주세요"
	noticeTooShort   = "조금 더 자세히 입력해 주세요 (2자 이상)"
)

// buildHandlers instantiates every step handler keyed by step id.
func buildHandlers(quoter chat.Quoter) []chat.Handler {
	return []chat.Handler{
		&serviceSelectStep{},

		// install path
		&choiceStep{
			id:       StepEnvironment,
			question: staticQ("설치 환경을 선택해 주세요."),
			choices: []chat.Choice{
				{Label: EnvIndoor, Value: EnvIndoor},
				{Label: EnvOutdoor, Value: EnvOutdoor},
			},
			assign: func(s *chat.Session, v string) { s.Data.Environment = v },
		},
		&textStep{
			id:       StepRegion,
			question: staticQ("설치 지역을 알려주세요. (예: 서울 강남구)"),
			assign:   func(s *chat.Session, v string) { s.Data.Region = v },
		},
		&choiceStep{
			id:       StepSpaceType,
			question: staticQ("설치 공간의 용도를 선택해 주세요."),
			choices: []chat.Choice{
				{Label: "매장", Value: "매장"},
				{Label: "사무실", Value: "사무실"},
				{Label: "학원", Value: "학원"},
				{Label: "종교시설", Value: "종교시설"},
				{Label: "기타", Value: "기타"},
			},
			assign: func(s *chat.Session, v string) { s.Data.SpaceType = v },
		},
		&choiceStep{
			id:       StepPurpose,
			question: staticQ("LED를 어떤 용도로 사용하실 예정인가요?"),
			choices: []chat.Choice{
				{Label: "광고", Value: "광고"},
				{Label: "행사", Value: "행사"},
				{Label: "전시", Value: "전시"},
				{Label: "중계", Value: "중계"},
				{Label: "기타", Value: "기타"},
			},
			assign: func(s *chat.Session, v string) { s.Data.Purpose = v },
		},
		&choiceStep{
			id:       StepBudget,
			question: staticQ("예상 예산 범위를 선택해 주세요."),
			choices: []chat.Choice{
				{Label: "1,000만원 미만", Value: "1,000만원 미만"},
				{Label: "1,000~3,000만원", Value: "1,000~3,000만원"},
				{Label: "3,000~5,000만원", Value: "3,000~5,000만원"},
				{Label: "5,000만원 이상", Value: "5,000만원 이상"},
				{Label: "미정", Value: "미정"},
			},
			assign: func(s *chat.Session, v string) { s.Data.Budget = v },
		},
		&textStep{
			id:       StepSchedule,
			question: staticQ("희망 설치 일정을 알려주세요. (예: 8월 중순, 협의 가능)"),
			assign:   func(s *chat.Session, v string) { s.Data.Schedule = v },
		},

		// rental / membership path
		&textStep{
			id:       StepVenue,
			question: staticQ("행사 장소(주소 또는 장소명)를 알려주세요."),
			assign:   func(s *chat.Session, v string) { s.Data.Venue = v },
		},
		&equipmentCountStep{},
		&ledSizeStep{},
		&stageHeightStep{},
		&yesNoStep{
			id:       StepOperatorNeed,
			question: unitQ("%d번째 LED 운영을 위한 오퍼레이터가 필요하신가요?"),
			assign: func(spec *entity.EquipmentSpec, yes bool) {
				spec.NeedOperator = yes
				if !yes {
					spec.OperatorDays = 0
				}
			},
		},
		&operatorDaysStep{},
		&yesNoStep{
			id:       StepPrompter,
			question: unitQ("%d번째 LED에 프롬프터 연결이 필요하신가요?"),
			assign:   func(spec *entity.EquipmentSpec, yes bool) { spec.PrompterConnection = yes },
		},
		&yesNoStep{
			id:       StepRelay,
			question: unitQ("%d번째 LED에 중계 연결이 필요하신가요?"),
			assign:   func(spec *entity.EquipmentSpec, yes bool) { spec.RelayConnection = yes },
		},
		&rentalPeriodStep{},
		&notesStep{},

		// shared contact tail
		&textStep{
			id:       StepCompany,
			question: staticQ("회사명(단체명)을 알려주세요."),
			assign:   func(s *chat.Session, v string) { s.Data.Company = v },
		},
		&textStep{
			id:       StepContactName,
			question: staticQ("담당자 성함을 알려주세요."),
			assign:   func(s *chat.Session, v string) { s.Data.ContactName = v },
		},
		&textStep{
			id:       StepContactTitle,
			question: staticQ("담당자 직함을 알려주세요. (예: 과장, 대리)"),
			assign:   func(s *chat.Session, v string) { s.Data.ContactTitle = v },
		},
		&phoneStep{},
		&confirmStep{quoter: quoter},
	}
}

func staticQ(text string) func(*chat.Session) string {
	return func(*chat.Session) string { return text }
}

// serviceSelectStep greets the user and routes to one of the three
// service graphs. It doubles as the fallback for unknown step ids.
type serviceSelectStep struct{}

func (st *serviceSelectStep) ID() chat.StepID { return StepServiceSelect }

func (st *serviceSelectStep) Prompt(_ *chat.Session) chat.Prompt {
	return chat.Prompt{
		Text: "안녕하세요! 오리온디스플레이입니다 😊\n어떤 서비스를 찾고 계신가요?",
		Choices: []chat.Choice{
			{Label: "LED 설치", Value: entity.ServiceInstall},
			{Label: "LED 렌탈", Value: entity.ServiceRental},
			{Label: "멤버쉽", Value: entity.ServiceMembership},
		},
	}
}

func (st *serviceSelectStep) Handle(raw string, s *chat.Session) chat.HandleResult {
	v, ok := chat.MatchChoice(raw, st.Prompt(s).Choices)
	if !ok {
		return chat.HandleResult{Retry: true, Notice: noticePickChoice}
	}
	s.Service = v
	s.Step = StepServiceSelect
	return chat.HandleResult{}
}

// choiceStep validates membership in an enumerated quick-choice set.
type choiceStep struct {
	id       chat.StepID
	question func(*chat.Session) string
	choices  []chat.Choice
	assign   func(*chat.Session, string)
}

func (st *choiceStep) ID() chat.StepID { return st.id }

func (st *choiceStep) Prompt(s *chat.Session) chat.Prompt {
	return chat.Prompt{Text: st.question(s), Choices: st.choices}
}

func (st *choiceStep) Handle(raw string, s *chat.Session) chat.HandleResult {
	v, ok := chat.MatchChoice(raw, st.choices)
	if !ok {
		return chat.HandleResult{Retry: true, Notice: noticePickChoice}
	}
	st.assign(s, v)
	return chat.HandleResult{}
}

// textStep collects one free-text answer of at least two characters.
type textStep struct {
	id       chat.StepID
	question func(*chat.Session) string
	assign   func(*chat.Session, string)
}

func (st *textStep) ID() chat.StepID { return st.id }

func (st *textStep) Prompt(s *chat.Session) chat.Prompt {
	return chat.Prompt{Text: st.question(s)}
}

func (st *textStep) Handle(raw string, s *chat.Session) chat.HandleResult {
	text := strings.TrimSpace(raw)
	if len([]rune(text)) < 2 {
		return chat.HandleResult{Retry: true, Notice: noticeTooShort}
	}
	st.assign(s, text)
	return chat.HandleResult{}
}

// notesStep is the only optional step: free-text requests, skippable.
type notesStep struct{}

func (st *notesStep) ID() chat.StepID { return StepNotes }

func (st *notesStep) Prompt(_ *chat.Session) chat.Prompt {
	return chat.Prompt{
		Text:    "추가 요청사항이 있으시면 알려주세요.",
		Choices: []chat.Choice{{Label: "없음", Value: "없음"}},
	}
}

func (st *notesStep) Handle(raw string, s *chat.Session) chat.HandleResult {
	text := strings.TrimSpace(raw)
	if text != "없음" {
		s.Data.Notes = text
	}
	return chat.HandleResult{}
}
