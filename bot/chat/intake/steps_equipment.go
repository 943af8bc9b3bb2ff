package intake

import (
	"fmt"
	"strconv"

	"github.com/holica49/led-rental-chatbot-sub000/bot/chat"
	"github.com/holica49/led-rental-chatbot-sub000/entity"
	"github.com/holica49/led-rental-chatbot-sub000/internal/validate"
)

// unitQ renders a question carrying the current unit number.
func unitQ(format string) func(*chat.Session) string {
	return func(s *chat.Session) string {
		idx := s.CurrentIdx
		if idx < 1 {
			idx = 1
		}
		return fmt.Sprintf(format, idx)
	}
}

// equipmentCountStep bounds the equipment repeat-loop. Answering resets
// the loop: cursor to the first unit, collected specs cleared.
type equipmentCountStep struct{}

func (st *equipmentCountStep) ID() chat.StepID { return StepEquipmentCount }

func (st *equipmentCountStep) Prompt(_ *chat.Session) chat.Prompt {
	choices := make([]chat.Choice, 0, MaxEquipmentCount)
	for i := MinEquipmentCount; i <= MaxEquipmentCount; i++ {
		n := strconv.Itoa(i)
		choices = append(choices, chat.Choice{Label: n + "개", Value: n})
	}
	return chat.Prompt{
		Text:    fmt.Sprintf("필요하신 LED는 몇 개인가요? (%d~%d개)", MinEquipmentCount, MaxEquipmentCount),
		Choices: choices,
	}
}

func (st *equipmentCountStep) Handle(raw string, s *chat.Session) chat.HandleResult {
	n, err := validate.Count(raw, MinEquipmentCount, MaxEquipmentCount)
	if err != nil {
		return chat.HandleResult{Retry: true, Notice: err.Error()}
	}
	s.EquipmentCount = n
	s.CurrentIdx = 1
	s.Data.LedSpecs = make([]entity.EquipmentSpec, 0, n)
	return chat.HandleResult{}
}

// ledSizeStep opens one loop iteration: a fresh cursor position appends
// a new spec before filling in the size.
type ledSizeStep struct{}

func (st *ledSizeStep) ID() chat.StepID { return StepLedSize }

func (st *ledSizeStep) Prompt(s *chat.Session) chat.Prompt {
	return chat.Prompt{
		Text: unitQ("%d번째 LED의 크기를 알려주세요.\n가로x세로(mm), 500mm 단위로 입력해 주세요. (예: 5000x3000)")(s),
		Choices: []chat.Choice{
			{Label: "3000x2000", Value: "3000x2000"},
			{Label: "4000x2500", Value: "4000x2500"},
			{Label: "6000x3000", Value: "6000x3000"},
		},
	}
}

func (st *ledSizeStep) Handle(raw string, s *chat.Session) chat.HandleResult {
	w, h, err := validate.LEDSize(raw)
	if err != nil {
		return chat.HandleResult{Retry: true, Notice: err.Error()}
	}

	if len(s.Data.LedSpecs) < s.CurrentIdx {
		s.Data.LedSpecs = append(s.Data.LedSpecs, entity.EquipmentSpec{})
	}
	spec := s.CurrentSpec()
	if spec == nil {
		return chat.HandleResult{Err: fmt.Errorf("equipment cursor %d out of range", s.CurrentIdx)}
	}
	spec.WidthMM, spec.HeightMM = w, h
	return chat.HandleResult{}
}

type stageHeightStep struct{}

func (st *stageHeightStep) ID() chat.StepID { return StepStageHeight }

func (st *stageHeightStep) Prompt(s *chat.Session) chat.Prompt {
	return chat.Prompt{
		Text: unitQ("%d번째 LED의 무대(단상) 높이를 알려주세요.\n0~10,000mm, 단위 표기(mm/cm/m) 가능해요. (예: 600)")(s),
		Choices: []chat.Choice{
			{Label: "없음 (0mm)", Value: "0"},
			{Label: "600mm", Value: "600"},
			{Label: "1m", Value: "1m"},
		},
	}
}

func (st *stageHeightStep) Handle(raw string, s *chat.Session) chat.HandleResult {
	mm, err := validate.StageHeight(raw)
	if err != nil {
		return chat.HandleResult{Retry: true, Notice: err.Error()}
	}
	spec := s.CurrentSpec()
	if spec == nil {
		return chat.HandleResult{Err: fmt.Errorf("equipment cursor %d out of range", s.CurrentIdx)}
	}
	spec.StageHeightMM = mm
	return chat.HandleResult{}
}

// yesNoStep fills one boolean field of the unit under the loop cursor.
type yesNoStep struct {
	id       chat.StepID
	question func(*chat.Session) string
	assign   func(*entity.EquipmentSpec, bool)
}

func (st *yesNoStep) ID() chat.StepID { return st.id }

func (st *yesNoStep) Prompt(s *chat.Session) chat.Prompt {
	return chat.Prompt{Text: st.question(s), Choices: chat.YesNoChoices()}
}

func (st *yesNoStep) Handle(raw string, s *chat.Session) chat.HandleResult {
	v, ok := chat.MatchChoice(raw, chat.YesNoChoices())
	if !ok {
		return chat.HandleResult{Retry: true, Notice: noticePickChoice}
	}
	spec := s.CurrentSpec()
	if spec == nil {
		return chat.HandleResult{Err: fmt.Errorf("equipment cursor %d out of range", s.CurrentIdx)}
	}
	st.assign(spec, v == "yes")
	return chat.HandleResult{}
}

type operatorDaysStep struct{}

func (st *operatorDaysStep) ID() chat.StepID { return StepOperatorDays }

func (st *operatorDaysStep) Prompt(s *chat.Session) chat.Prompt {
	return chat.Prompt{
		Text: unitQ("%d번째 LED 오퍼레이터는 며칠 동안 필요하신가요?")(s),
		Choices: []chat.Choice{
			{Label: "1일", Value: "1"},
			{Label: "2일", Value: "2"},
			{Label: "3일", Value: "3"},
		},
	}
}

func (st *operatorDaysStep) Handle(raw string, s *chat.Session) chat.HandleResult {
	days, err := validate.Count(raw, 1, MaxOperatorDays)
	if err != nil {
		return chat.HandleResult{Retry: true, Notice: err.Error()}
	}
	spec := s.CurrentSpec()
	if spec == nil {
		return chat.HandleResult{Err: fmt.Errorf("equipment cursor %d out of range", s.CurrentIdx)}
	}
	spec.OperatorDays = days
	return chat.HandleResult{}
}

type rentalPeriodStep struct{}

func (st *rentalPeriodStep) ID() chat.StepID { return StepRentalPeriod }

func (st *rentalPeriodStep) Prompt(_ *chat.Session) chat.Prompt {
	return chat.Prompt{
		Text: "행사(렌탈) 기간을 알려주세요.\n예: 2025-07-09 ~ 2025-07-11",
	}
}

func (st *rentalPeriodStep) Handle(raw string, s *chat.Session) chat.HandleResult {
	start, end, days, err := validate.DateRange(raw)
	if err != nil {
		return chat.HandleResult{Retry: true, Notice: err.Error()}
	}
	s.Data.EventStart = start
	s.Data.EventEnd = end
	s.Data.RentalDays = days
	s.Data.Schedule = fmt.Sprintf("%s ~ %s", start, end)
	return chat.HandleResult{}
}
