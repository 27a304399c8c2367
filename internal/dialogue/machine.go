// Package dialogue owns the turn-based intake state machine. One session
// moves through COLLECTING -> CONFIRMING -> CALCULATING -> DONE, with a
// confirmation rejection routing back into collection. Each inbound answer
// triggers exactly one bind + advance pair; all validation failures are
// recovered locally by re-prompting and never surface as errors.
package dialogue

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"valuator/internal/model"
	"valuator/internal/rates"
	"valuator/internal/report"
	"valuator/internal/schema"
	"valuator/internal/utils"
	"valuator/internal/valuation"
)

// Machine drives dialogue sessions against one injected rate-table
// snapshot. It holds no per-session state and may serve many sessions.
type Machine struct {
	provider rates.Provider
}

// NewMachine creates a dialogue state machine.
func NewMachine(provider rates.Provider) *Machine {
	return &Machine{provider: provider}
}

// Start emits the greeting and the first question of a fresh session.
func (m *Machine) Start(s *model.SessionState) string {
	reply := "Welcome to the property valuation assistant. I will ask a few questions about the collateral and then prepare a valuation report.\n\n" + m.advance(s)
	s.AppendMessage("assistant", reply)
	return reply
}

// HandleMessage runs one bind + advance turn. extracted carries optional
// slot updates from the NLU collaborator (nil when it is absent or
// failed); it is merged before binding and never overwrites with nulls.
// Exactly one assistant message is appended to the transcript.
func (m *Machine) HandleMessage(s *model.SessionState, text string, extracted map[string]any) string {
	s.AppendMessage("user", text)

	var reply string
	switch s.Phase {
	case model.PhaseConfirming:
		reply = m.handleConfirmation(s, text)
	case model.PhaseDone:
		// A message after a finished round starts a new valuation.
		s.Reset()
		m.applyExtracted(s, extracted)
		reply = m.advance(s)
	default:
		m.applyExtracted(s, extracted)
		reply = m.handleCollecting(s, text)
	}

	s.AppendMessage("assistant", reply)
	return reply
}

// handleCollecting binds the answer to the most recently asked slot, then
// advances. A failed bind re-prompts the same question without advancing.
func (m *Machine) handleCollecting(s *model.SessionState, text string) string {
	if slot, ok := s.LastAskedMissing(); ok {
		if reprompt, bound := m.bindAnswer(s, slot, text); !bound {
			return reprompt
		}
	}
	return m.advance(s)
}

// bindAnswer validates and stores one answer. When the answer is invalid
// it returns the re-prompt text and bound=false.
func (m *Machine) bindAnswer(s *model.SessionState, slot, text string) (reprompt string, bound bool) {
	text = strings.TrimSpace(text)

	if s.Pending != nil && s.Pending.SlotName == slot {
		return m.bindChoice(s, slot, text)
	}

	if slot == schema.SlotSectionDimensions {
		return m.bindSectionAnswer(s, text)
	}

	if isBoolSlot(slot) {
		value, ok := utils.ParseBool(text)
		if !ok {
			return "Please answer yes or no. " + m.renderQuestion(s, slot), false
		}
		s.Slots[slot] = value
		return "", true
	}

	if slot == schema.SlotNumSections {
		count, err := strconv.Atoi(text)
		if err != nil || count < 1 {
			return "Please reply with a whole number of sections (at least 1). " + m.renderQuestion(s, slot), false
		}
		s.Slots[slot] = float64(count)
		return "", true
	}

	// Everything else stores the raw trimmed text verbatim; numeric
	// coercion is deferred to request building.
	if text == "" {
		return m.renderQuestion(s, slot), false
	}
	s.Slots[slot] = text
	return "", true
}

// bindChoice resolves an answer against the active numbered menu and
// stores the chosen option's exact text.
func (m *Machine) bindChoice(s *model.SessionState, slot, text string) (string, bool) {
	pending := s.Pending

	if pending.Multi {
		chosen, ok := utils.ParseIndexList(pending.Options, text)
		if !ok {
			return "Please reply with the option numbers, separated by commas (e.g. 1,3,4).\n" + renderMenu(pending.Options), false
		}
		s.Pending = nil
		s.Slots[slot] = chosen
		return "", true
	}

	chosen, ok := utils.MatchChoice(pending.Options, text)
	if !ok {
		return fmt.Sprintf("Please reply with a number between 1 and %d.\n%s", len(pending.Options), renderMenu(pending.Options)), false
	}
	s.Pending = nil

	if slot == schema.SlotCategory {
		m.setCategory(s, chosen)
		return "", true
	}
	s.Slots[slot] = chosen
	return "", true
}

// advance emits the next prompt, or the confirmation summary once the
// required set is exhausted.
func (m *Machine) advance(s *model.SessionState) string {
	// An active section loop keeps asking its scalar questions until the
	// declared count of records is collected.
	if s.Section != nil {
		return m.sectionQuestion(s)
	}

	for _, slot := range schema.Missing(s.Slots, m.provider) {
		if contains(s.AskedOrder, slot) {
			continue
		}
		s.MarkAsked(slot)
		if slot == schema.SlotSectionDimensions {
			m.enterSectionLoop(s)
			return m.sectionQuestion(s)
		}
		return m.renderQuestion(s, slot)
	}

	// Nothing left to ask: move to confirmation.
	s.Phase = model.PhaseConfirming
	s.Confirmation = model.ConfirmationUnset
	return m.renderSummary(s)
}

// handleConfirmation processes the yes/no answer to the summary. A reject
// routes back into collection with all prior answers preserved.
func (m *Machine) handleConfirmation(s *model.SessionState, text string) string {
	value, ok := utils.ParseBool(text)
	if !ok {
		return "Please answer yes to proceed with the valuation, or no to make corrections."
	}

	if !value {
		s.Confirmation = model.ConfirmationRejected
		s.Phase = model.PhaseCollecting
		if missing := schema.Missing(s.Slots, m.provider); len(missing) > 0 {
			return m.advance(s)
		}
		return "No problem. Tell me what to change (for example: \"the plot area is 650\"), and I will update the summary."
	}

	s.Confirmation = model.ConfirmationAccepted
	s.Phase = model.PhaseCalculating
	return m.calculate(s)
}

// calculate assembles the structured request and invokes the valuation
// pipeline. Computation errors return the session to collection with its
// slots preserved so the user can correct and retry.
func (m *Machine) calculate(s *model.SessionState) string {
	req, err := BuildRequest(s.Slots, m.provider)
	if err != nil {
		return m.computationFailed(s, err)
	}

	result, err := valuation.Run(req, m.provider)
	if err != nil {
		return m.computationFailed(s, err)
	}

	s.Phase = model.PhaseDone
	s.AskedOrder = nil
	return report.Format(result) + "\n\nSend any message to start a new valuation."
}

// computationFailed routes the session back into collection. When the
// error names a slot, that answer is discarded and re-asked; everything
// else is preserved.
func (m *Machine) computationFailed(s *model.SessionState, err error) string {
	s.Phase = model.PhaseCollecting
	s.Confirmation = model.ConfirmationUnset

	var ce *valuation.ComputationError
	if errors.As(err, &ce) && ce.Field != "" {
		if _, answered := s.Slots[ce.Field]; answered {
			delete(s.Slots, ce.Field)
			kept := s.AskedOrder[:0]
			for _, name := range s.AskedOrder {
				if name != ce.Field {
					kept = append(kept, name)
				}
			}
			s.AskedOrder = kept
			return fmt.Sprintf("I could not complete the valuation: %v. Let's fix that.\n\n%s", err, m.advance(s))
		}
	}
	return fmt.Sprintf("I could not complete the valuation: %v. Please correct the value and we will try again.", err)
}

// setCategory stores a category choice. A change of category purges the
// slots that only make sense for the previous category, so they are asked
// again under the new schema; category-neutral answers are kept.
func (m *Machine) setCategory(s *model.SessionState, category string) {
	previous, _ := s.Slots[schema.SlotCategory].(string)
	if previous == category {
		return
	}
	s.Slots[schema.SlotCategory] = category
	if previous == "" {
		return
	}

	dependent := map[string]struct{}{
		schema.SlotNumFloors:            {},
		schema.SlotHasBasement:          {},
		schema.SlotHasElevator:          {},
		schema.SlotElevatorStops:        {},
		schema.SlotUnderConstruction:    {},
		schema.SlotIncompleteComponents: {},
		schema.SlotNumSections:          {},
		schema.SlotSectionDimensions:    {},
		schema.SlotConfirmedGrade:       {},
	}
	for name := range s.Slots {
		if strings.HasPrefix(name, "material_") {
			dependent[name] = struct{}{}
		}
	}
	for _, fields := range [][]schema.SpecializedField{
		schema.SpecializedFields(model.CategoryFuelStation),
		schema.SpecializedFields(model.CategoryCoffeeSite),
		schema.SpecializedFields(model.CategoryGreenHouse),
	} {
		for _, f := range fields {
			dependent[f.Slot] = struct{}{}
		}
	}

	for name := range dependent {
		delete(s.Slots, name)
	}
	kept := s.AskedOrder[:0]
	for _, name := range s.AskedOrder {
		if _, drop := dependent[name]; !drop {
			kept = append(kept, name)
		}
	}
	s.AskedOrder = kept
	s.Section = nil
	if s.Pending != nil {
		if _, drop := dependent[s.Pending.SlotName]; drop {
			s.Pending = nil
		}
	}
}

// applyExtracted merges slot updates from the NLU collaborator. Nil and
// unknown entries are skipped; enum values are validated before merging.
func (m *Machine) applyExtracted(s *model.SessionState, extracted map[string]any) {
	if len(extracted) == 0 {
		return
	}

	category, _ := s.Slots[schema.SlotCategory].(string)

	// Category first, so dependent purging happens before other merges.
	if v, ok := extracted[schema.SlotCategory]; ok {
		if c, isString := v.(string); isString && contains(model.ValidCategories, c) {
			m.setCategory(s, c)
			category = c
		}
	}

	for name, value := range extracted {
		if name == schema.SlotCategory || value == nil {
			continue
		}
		if !extractableSlot(name, category) {
			continue
		}
		if !validExtractedValue(name, value) {
			continue
		}
		s.Slots[name] = value
		if s.Pending != nil && s.Pending.SlotName == name {
			s.Pending = nil
		}
	}
}

func isBoolSlot(name string) bool {
	switch name {
	case schema.SlotHasBasement, schema.SlotHasElevator, schema.SlotUnderConstruction:
		return true
	}
	return false
}

func contains(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}
