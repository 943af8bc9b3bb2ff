// Package intake implements the LED project intake flows: the per-service
// step graphs and the handlers collecting one answer per step.
package intake

import (
	"fmt"
	"log/slog"

	"github.com/holica49/led-rental-chatbot-sub000/bot/chat"
	"github.com/holica49/led-rental-chatbot-sub000/entity"
	"github.com/holica49/led-rental-chatbot-sub000/internal/lib/sl"
)

// Step IDs
const (
	StepServiceSelect chat.StepID = "service_select"

	// install path
	StepEnvironment chat.StepID = "environment"
	StepRegion      chat.StepID = "region"
	StepSpaceType   chat.StepID = "space_type"
	StepPurpose     chat.StepID = "purpose"
	StepBudget      chat.StepID = "budget"
	StepSchedule    chat.StepID = "schedule"

	// rental / membership path
	StepVenue          chat.StepID = "venue"
	StepEquipmentCount chat.StepID = "equipment_count"
	StepLedSize        chat.StepID = "led_size"
	StepStageHeight    chat.StepID = "stage_height"
	StepOperatorNeed   chat.StepID = "operator_need"
	StepOperatorDays   chat.StepID = "operator_days"
	StepPrompter       chat.StepID = "prompter"
	StepRelay          chat.StepID = "relay"
	StepRentalPeriod   chat.StepID = "rental_period"
	StepNotes          chat.StepID = "notes"

	// shared contact tail
	StepCompany      chat.StepID = "company"
	StepContactName  chat.StepID = "contact_name"
	StepContactTitle chat.StepID = "contact_title"
	StepContactPhone chat.StepID = "contact_phone"
	StepConfirm      chat.StepID = "confirm"
)

// Choice values stored into the intake record.
const (
	EnvIndoor  = "실내"
	EnvOutdoor = "실외"
)

const (
	MinEquipmentCount = 1
	MaxEquipmentCount = 5
	MaxOperatorDays   = 30
)

// Flows bundles the three service graphs and the step handlers behind the
// engine's Flows contract.
type Flows struct {
	handlers map[chat.StepID]chat.Handler
	graphs   map[string]*chat.Graph
	log      *slog.Logger
}

func NewFlows(quoter chat.Quoter, log *slog.Logger) *Flows {
	f := &Flows{
		handlers: make(map[chat.StepID]chat.Handler),
		graphs:   make(map[string]*chat.Graph),
		log:      log.With(sl.Module("chat.intake")),
	}

	for _, h := range buildHandlers(quoter) {
		f.handlers[h.ID()] = h
	}

	f.graphs[entity.ServiceInstall] = installGraph()
	f.graphs[entity.ServiceRental] = rentalGraph()
	f.graphs[entity.ServiceMembership] = membershipGraph()

	return f
}

func installGraph() *chat.Graph {
	return &chat.Graph{
		Service: entity.ServiceInstall,
		Start:   StepEnvironment,
		Steps: map[chat.StepID]chat.StepDef{
			StepEnvironment:  {ID: StepEnvironment, Required: true, Next: chat.Fixed(StepRegion)},
			StepRegion:       {ID: StepRegion, Required: true, Next: chat.Computed(chat.RuleEnvironmentBranch)},
			StepSpaceType:    {ID: StepSpaceType, Required: true, Next: chat.Fixed(StepPurpose)},
			StepPurpose:      {ID: StepPurpose, Required: true, Next: chat.Fixed(StepBudget)},
			StepBudget:       {ID: StepBudget, Required: true, Next: chat.Fixed(StepSchedule)},
			StepSchedule:     {ID: StepSchedule, Required: true, Next: chat.Fixed(StepCompany)},
			StepCompany:      {ID: StepCompany, Required: true, Next: chat.Fixed(StepContactName)},
			StepContactName:  {ID: StepContactName, Required: true, Next: chat.Fixed(StepContactTitle)},
			StepContactTitle: {ID: StepContactTitle, Required: true, Next: chat.Fixed(StepContactPhone)},
			StepContactPhone: {ID: StepContactPhone, Required: true, Next: chat.Fixed(StepConfirm)},
			StepConfirm:      {ID: StepConfirm, Required: true},
		},
	}
}

func rentalGraph() *chat.Graph {
	g := &chat.Graph{
		Service: entity.ServiceRental,
		Start:   StepVenue,
		Steps:   equipmentLoopSteps(),
	}
	g.Steps[StepVenue] = chat.StepDef{ID: StepVenue, Required: true, Next: chat.Fixed(StepEquipmentCount)}
	g.Steps[StepRentalPeriod] = chat.StepDef{ID: StepRentalPeriod, Required: true, Next: chat.Fixed(StepNotes)}
	addContactTail(g)
	return g
}

func membershipGraph() *chat.Graph {
	g := &chat.Graph{
		Service: entity.ServiceMembership,
		Start:   StepVenue,
		Steps:   equipmentLoopSteps(),
	}
	g.Steps[StepVenue] = chat.StepDef{ID: StepVenue, Required: true, Next: chat.Fixed(StepEquipmentCount)}
	addContactTail(g)
	return g
}

// equipmentLoopSteps is the repeated size → … → relay sub-sequence shared
// by rental and membership. The relay step's loop-continuation rule decides
// between another unit and the service's post-loop step.
func equipmentLoopSteps() map[chat.StepID]chat.StepDef {
	return map[chat.StepID]chat.StepDef{
		StepEquipmentCount: {ID: StepEquipmentCount, Required: true, Next: chat.Fixed(StepLedSize)},
		StepLedSize:        {ID: StepLedSize, Required: true, Next: chat.Fixed(StepStageHeight)},
		StepStageHeight:    {ID: StepStageHeight, Required: true, Next: chat.Fixed(StepOperatorNeed)},
		StepOperatorNeed:   {ID: StepOperatorNeed, Required: true, Next: chat.Computed(chat.RuleOperatorBranch)},
		StepOperatorDays:   {ID: StepOperatorDays, Required: true, Next: chat.Fixed(StepPrompter)},
		StepPrompter:       {ID: StepPrompter, Required: true, Next: chat.Fixed(StepRelay)},
		StepRelay:          {ID: StepRelay, Required: true, Next: chat.Computed(chat.RuleLoopContinue)},
	}
}

func addContactTail(g *chat.Graph) {
	g.Steps[StepNotes] = chat.StepDef{ID: StepNotes, Next: chat.Fixed(StepCompany)}
	g.Steps[StepCompany] = chat.StepDef{ID: StepCompany, Required: true, Next: chat.Fixed(StepContactName)}
	g.Steps[StepContactName] = chat.StepDef{ID: StepContactName, Required: true, Next: chat.Fixed(StepContactTitle)}
	g.Steps[StepContactTitle] = chat.StepDef{ID: StepContactTitle, Required: true, Next: chat.Fixed(StepContactPhone)}
	g.Steps[StepContactPhone] = chat.StepDef{ID: StepContactPhone, Required: true, Next: chat.Fixed(StepConfirm)}
	g.Steps[StepConfirm] = chat.StepDef{ID: StepConfirm, Required: true}
}

func (f *Flows) Handler(id chat.StepID) (chat.Handler, bool) {
	h, ok := f.handlers[id]
	return h, ok
}

func (f *Flows) Initial() chat.Handler {
	return f.handlers[StepServiceSelect]
}

// Next resolves the successor of the session's current step from the
// active graph. Loop-back is the only place the equipment cursor advances.
func (f *Flows) Next(s *chat.Session) (chat.Transition, error) {
	g, ok := f.graphs[s.Service]
	if !ok {
		return chat.Transition{}, fmt.Errorf("no graph for service %q", s.Service)
	}

	if s.Step == "" || s.Step == StepServiceSelect {
		return chat.Transition{Next: g.Start}, nil
	}

	def, ok := g.Steps[s.Step]
	if !ok {
		return chat.Transition{}, fmt.Errorf("step %q not in %s graph", s.Step, s.Service)
	}

	if def.Next.Rule != chat.RuleNone {
		return resolveRule(def.Next.Rule, g, s, effectiveCursor(s))
	}
	if def.Next.Step == "" {
		return chat.Transition{}, fmt.Errorf("step %q has no successor", s.Step)
	}
	return chat.Transition{Next: def.Next.Step}, nil
}

// resolveRule evaluates a named transition rule. It is pure: the cursor
// advance is reported, not applied, so the same logic drives both real
// transitions and the progress walk.
func resolveRule(rule chat.RuleID, g *chat.Graph, s *chat.Session, cursor int) (chat.Transition, error) {
	switch rule {
	case chat.RuleEnvironmentBranch:
		if s.Data.Environment == EnvIndoor {
			return chat.Transition{Next: StepSpaceType}, nil
		}
		return chat.Transition{Next: StepPurpose}, nil

	case chat.RuleOperatorBranch:
		if i := cursor - 1; i >= 0 && i < len(s.Data.LedSpecs) && s.Data.LedSpecs[i].NeedOperator {
			return chat.Transition{Next: StepOperatorDays}, nil
		}
		return chat.Transition{Next: StepPrompter}, nil

	case chat.RuleLoopContinue:
		if cursor < s.EquipmentCount {
			return chat.Transition{Next: StepLedSize, AdvanceCursor: true}, nil
		}
		if g.Service == entity.ServiceRental {
			return chat.Transition{Next: StepRentalPeriod}, nil
		}
		return chat.Transition{Next: StepNotes}, nil
	}

	return chat.Transition{}, fmt.Errorf("unknown transition rule %q", rule)
}

func effectiveCursor(s *chat.Session) int {
	if s.CurrentIdx < 1 {
		return 1
	}
	return s.CurrentIdx
}

// Progress walks the active path from its start and reports the current
// position and total step count. Both depend on the service type, the
// environment branch and the equipment count, so they are recomputed on
// every render.
func (f *Flows) Progress(s *chat.Session) (pos, total int) {
	g, ok := f.graphs[s.Service]
	if !ok {
		return 0, 0
	}

	const maxWalk = 200
	cursor := 1
	cur := g.Start

	for i := 0; i < maxWalk; i++ {
		total++
		if cur == s.Step && cursor == effectiveCursor(s) {
			pos = total
		}

		def, ok := g.Steps[cur]
		if !ok || (def.Next.Rule == chat.RuleNone && def.Next.Step == "") {
			break
		}

		var tr chat.Transition
		if def.Next.Rule != chat.RuleNone {
			var err error
			tr, err = resolveRule(def.Next.Rule, g, s, cursor)
			if err != nil {
				break
			}
		} else {
			tr = chat.Transition{Next: def.Next.Step}
		}

		if tr.AdvanceCursor {
			cursor++
		}
		cur = tr.Next
	}

	if pos == 0 {
		pos = total
	}
	return pos, total
}
