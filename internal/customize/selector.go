package customize

import (
	"github.com/quickbite-app/quickbite-backend/internal/catalog"
	"github.com/shopspring/decimal"
)

// Selection is the derived state reported after every toggle: the per-group
// selected id sets, the selected options in catalog order, and their price
// sum.
type Selection struct {
	Map   map[string][]string           `json:"map"`
	Items []catalog.CustomizationOption `json:"items"`
	Total decimal.Decimal               `json:"total"`
}

// Selector holds the ephemeral customization choices for one item-detail
// viewing session. It is discarded when the session ends; nothing here
// touches the cart until the caller adds the configured item.
type Selector struct {
	options  []catalog.CustomizationOption
	groups   []string
	byGroup  map[string][]catalog.CustomizationOption
	selected map[string][]string
	listener func(Selection)
}

// NewSelector partitions the options by group, falling back to "default" for
// ungrouped ones. Group order is first-appearance order.
func NewSelector(options []catalog.CustomizationOption) *Selector {
	s := &Selector{
		byGroup:  make(map[string][]catalog.CustomizationOption),
		selected: make(map[string][]string),
	}
	for _, option := range options {
		if option.Group == "" {
			option.Group = "default"
		}
		if _, seen := s.byGroup[option.Group]; !seen {
			s.groups = append(s.groups, option.Group)
		}
		s.byGroup[option.Group] = append(s.byGroup[option.Group], option)
		s.options = append(s.options, option)
	}
	return s
}

// SetListener registers the callback invoked synchronously after every
// toggle.
func (s *Selector) SetListener(listener func(Selection)) {
	s.listener = listener
}

// Groups returns the group names in first-appearance order.
func (s *Selector) Groups() []string {
	return append([]string(nil), s.groups...)
}

// OptionsIn returns the options of one group in load order.
func (s *Selector) OptionsIn(group string) []catalog.CustomizationOption {
	return append([]catalog.CustomizationOption(nil), s.byGroup[group]...)
}

// Toggle applies one pick. Single-choice options replace the group's
// selection; multi-choice options toggle their own membership. Other groups
// are untouched. The listener receives the recomputed selection.
func (s *Selector) Toggle(group string, option catalog.CustomizationOption) {
	if group == "" {
		group = "default"
	}

	choiceType := option.ChoiceType
	if !choiceType.IsValid() {
		choiceType = catalog.ChoiceMultiple
	}

	if choiceType == catalog.ChoiceSingle {
		s.selected[group] = []string{option.ID}
		s.emit()
		return
	}

	current := s.selected[group]
	next := make([]string, 0, len(current)+1)
	removed := false
	for _, id := range current {
		if id == option.ID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, option.ID)
	}
	s.selected[group] = next
	s.emit()
}

// IsSelected reports whether the option id is currently picked in the group.
func (s *Selector) IsSelected(group, optionID string) bool {
	for _, id := range s.selected[group] {
		if id == optionID {
			return true
		}
	}
	return false
}

// Selection recomputes the derived selection state.
func (s *Selector) Selection() Selection {
	selection := Selection{
		Map:   make(map[string][]string, len(s.selected)),
		Items: []catalog.CustomizationOption{},
		Total: decimal.Zero,
	}

	selectedIDs := make(map[string]struct{})
	for group, ids := range s.selected {
		selection.Map[group] = append([]string(nil), ids...)
		for _, id := range ids {
			selectedIDs[id] = struct{}{}
		}
	}

	for _, option := range s.options {
		if _, ok := selectedIDs[option.ID]; !ok {
			continue
		}
		selection.Items = append(selection.Items, option)
		selection.Total = selection.Total.Add(option.Price)
	}
	return selection
}

func (s *Selector) emit() {
	if s.listener == nil {
		return
	}
	s.listener(s.Selection())
}
