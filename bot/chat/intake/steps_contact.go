package intake

import (
	"fmt"
	"strings"

	"github.com/holica49/led-rental-chatbot-sub000/bot/chat"
	"github.com/holica49/led-rental-chatbot-sub000/entity"
	"github.com/holica49/led-rental-chatbot-sub000/internal/pricing"
	"github.com/holica49/led-rental-chatbot-sub000/internal/validate"
)

type phoneStep struct{}

func (st *phoneStep) ID() chat.StepID { return StepContactPhone }

func (st *phoneStep) Prompt(_ *chat.Session) chat.Prompt {
	return chat.Prompt{Text: "담당자 연락처를 알려주세요. (예: 010-1234-5678)"}
}

func (st *phoneStep) Handle(raw string, s *chat.Session) chat.HandleResult {
	phone, err := validate.Phone(raw)
	if err != nil {
		return chat.HandleResult{Retry: true, Notice: err.Error()}
	}
	s.Data.Phone = phone
	return chat.HandleResult{}
}

// confirmStep is the terminal step: it shows the collected data with the
// itemized quote and waits for a positive confirmation.
type confirmStep struct {
	quoter chat.Quoter
}

func (st *confirmStep) ID() chat.StepID { return StepConfirm }

func (st *confirmStep) Prompt(s *chat.Session) chat.Prompt {
	var sb strings.Builder
	sb.WriteString("📋 접수 내용을 확인해 주세요.\n\n")
	sb.WriteString(summary(s))

	if len(s.Data.LedSpecs) > 0 && st.quoter != nil {
		if q, err := st.quoter.Quote(s.Data.LedSpecs, s.Data.RentalDays); err == nil {
			sb.WriteString("\n")
			sb.WriteString(quoteSummary(q))
		}
	}

	sb.WriteString("\n이대로 접수할까요?")
	return chat.Prompt{Text: sb.String(), Choices: chat.YesNoChoices()}
}

func (st *confirmStep) Handle(raw string, s *chat.Session) chat.HandleResult {
	v, ok := chat.MatchChoice(raw, chat.YesNoChoices())
	if !ok {
		return chat.HandleResult{Retry: true, Notice: noticePickChoice}
	}
	if v == "no" {
		return chat.HandleResult{
			Retry:  true,
			Notice: "수정하시려면 '이전', 처음부터 다시 하시려면 '처음부터'를 입력해 주세요",
		}
	}
	return chat.HandleResult{Complete: true}
}

func serviceLabel(service string) string {
	switch service {
	case entity.ServiceInstall:
		return "LED 설치"
	case entity.ServiceRental:
		return "LED 렌탈"
	case entity.ServiceMembership:
		return "멤버쉽"
	}
	return service
}

// summary renders the collected answers for the confirmation prompt.
func summary(s *chat.Session) string {
	var sb strings.Builder
	line := func(label, value string) {
		if value != "" {
			sb.WriteString(fmt.Sprintf("▪ %s: %s\n", label, value))
		}
	}

	line("서비스", serviceLabel(s.Service))
	line("행사 장소", s.Data.Venue)
	line("설치 환경", s.Data.Environment)
	line("지역", s.Data.Region)
	line("공간 용도", s.Data.SpaceType)
	line("사용 용도", s.Data.Purpose)
	line("예산", s.Data.Budget)
	line("일정", s.Data.Schedule)

	for i, spec := range s.Data.LedSpecs {
		sb.WriteString(fmt.Sprintf("▪ LED %d: %s", i+1, validate.CanonicalSize(spec.WidthMM, spec.HeightMM)))
		if spec.StageHeightMM > 0 {
			sb.WriteString(fmt.Sprintf(", 무대 %dmm", spec.StageHeightMM))
		}
		if spec.NeedOperator {
			sb.WriteString(fmt.Sprintf(", 오퍼레이터 %d일", spec.OperatorDays))
		}
		if spec.PrompterConnection {
			sb.WriteString(", 프롬프터")
		}
		if spec.RelayConnection {
			sb.WriteString(", 중계")
		}
		sb.WriteString("\n")
	}

	line("추가 요청", s.Data.Notes)
	line("회사명", s.Data.Company)
	if s.Data.ContactName != "" {
		title := s.Data.ContactTitle
		if title != "" {
			title = " " + title
		}
		line("담당자", s.Data.ContactName+title)
	}
	line("연락처", s.Data.Phone)

	return sb.String()
}

// quoteSummary renders the itemized breakdown for display.
func quoteSummary(q *entity.QuoteBreakdown) string {
	var sb strings.Builder
	sb.WriteString("💰 예상 견적\n")

	line := func(label string, amount int64) {
		if amount > 0 {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", label, pricing.FormatWon(amount)))
		}
	}

	line("LED 모듈", q.EquipmentCost)
	line("지지 구조물", q.StructureCost)
	line("컨트롤러", q.ControllerCost)
	line("전원 공사", q.PowerCost)
	line(fmt.Sprintf("설치 인력 %d명", q.InstallationWorkers), q.InstallationCost)
	line("오퍼레이터", q.OperatorCost)
	line("운송", q.TransportCost)
	if q.PeriodSurcharge > 0 {
		line(fmt.Sprintf("기간 할증 (%.0f%%)", q.PeriodSurchargeRate*100), q.PeriodSurcharge)
	}

	sb.WriteString(fmt.Sprintf("- 공급가액: %s\n", pricing.FormatWon(q.Subtotal)))
	sb.WriteString(fmt.Sprintf("- 부가세: %s\n", pricing.FormatWon(q.Tax)))
	sb.WriteString(fmt.Sprintf("- 합계: %s\n", pricing.FormatWon(q.Total)))
	return sb.String()
}
