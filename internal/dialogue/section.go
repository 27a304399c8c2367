package dialogue

import (
	"fmt"
	"strconv"

	"valuator/internal/model"
	"valuator/internal/schema"
)

// The section sub-protocol collects one scalar per turn: length then width
// for each section, or a single area for area-based categories. The loop
// finishes, and the placeholder slot is marked answered, only when the
// cursor reaches the declared section count.

// areaSectioned reports whether a category records sections as direct
// areas instead of length x width.
func areaSectioned(category string) bool {
	return category == model.CategoryApartment
}

// enterSectionLoop arms the cursor when the placeholder slot is asked.
func (m *Machine) enterSectionLoop(s *model.SessionState) {
	s.Section = &model.SectionState{}
}

func (m *Machine) declaredSectionCount(s *model.SessionState) int {
	v, _ := s.Slots[schema.SlotNumSections].(float64)
	count := int(v)
	if count < 1 {
		count = 1
	}
	return count
}

// sectionQuestion asks for exactly one scalar of the current section.
func (m *Machine) sectionQuestion(s *model.SessionState) string {
	category, _ := s.Slots[schema.SlotCategory].(string)
	n := s.Section.Index + 1

	if areaSectioned(category) {
		return fmt.Sprintf("Section %d: what is the floor area in square meters?", n)
	}
	if s.Section.AwaitingWidth {
		return fmt.Sprintf("Section %d: what is the width in meters?", n)
	}
	return fmt.Sprintf("Section %d: what is the length in meters?", n)
}

// bindSectionAnswer appends or completes the record at the cursor and
// advances it after a complete record.
func (m *Machine) bindSectionAnswer(s *model.SessionState, text string) (string, bool) {
	if s.Section == nil {
		s.Section = &model.SectionState{}
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v <= 0 {
		return "Please reply with a positive number. " + m.sectionQuestion(s), false
	}

	sec := s.Section
	category, _ := s.Slots[schema.SlotCategory].(string)

	switch {
	case areaSectioned(category):
		sec.Records = append(sec.Records, model.SectionRecord{Area: v})
		sec.Index++
	case !sec.AwaitingWidth:
		sec.Records = append(sec.Records, model.SectionRecord{Length: v})
		sec.AwaitingWidth = true
	default:
		sec.Records[sec.Index].Width = v
		sec.AwaitingWidth = false
		sec.Index++
	}

	if sec.Index >= m.declaredSectionCount(s) {
		s.Slots[schema.SlotSectionDimensions] = sec.Records
		s.Section = nil
	}
	return "", true
}

// totalSectionArea sums length x width (or direct area) over all records.
func totalSectionArea(records []model.SectionRecord) float64 {
	total := 0.0
	for _, r := range records {
		if r.Area > 0 {
			total += r.Area
		} else {
			total += r.Length * r.Width
		}
	}
	return total
}
