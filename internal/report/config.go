package report

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"realty-dashboard/pkg/validator"
)

var (
	ErrNoWidgets        = errors.New("report has no widgets")
	ErrTooManyWidgets   = errors.New("report has too many widgets")
	ErrMissingWidgetID  = errors.New("widget id is required")
	ErrDuplicateWidgets = errors.New("duplicate widget id")
)

// Palette holds the four chart colour slots.
type Palette struct {
	Primary    string `json:"primary,omitempty" validate:"omitempty,hexcolor"`
	Secondary  string `json:"secondary,omitempty" validate:"omitempty,hexcolor"`
	Tertiary   string `json:"tertiary,omitempty" validate:"omitempty,hexcolor"`
	Quaternary string `json:"quaternary,omitempty" validate:"omitempty,hexcolor"`
}

var DefaultPalette = Palette{
	Primary:    "#1f4e79",
	Secondary:  "#2e86c1",
	Tertiary:   "#f39c12",
	Quaternary: "#27ae60",
}

// Merge returns p with every non-empty slot of over applied.
func (p Palette) Merge(over Palette) Palette {
	if over.Primary != "" {
		p.Primary = over.Primary
	}
	if over.Secondary != "" {
		p.Secondary = over.Secondary
	}
	if over.Tertiary != "" {
		p.Tertiary = over.Tertiary
	}
	if over.Quaternary != "" {
		p.Quaternary = over.Quaternary
	}
	return p
}

// Slots returns the colours in slot order.
func (p Palette) Slots() []string {
	return []string{p.Primary, p.Secondary, p.Tertiary, p.Quaternary}
}

// Configuration is one report-authoring session's report.
type Configuration struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Notes       string     `json:"notes,omitempty"`
	Period      string     `json:"period" validate:"omitempty,oneof=7d 30d 90d 6m 12m ytd all"`
	AgentID     *uuid.UUID `json:"agent_id,omitempty"`
	Widgets     WidgetList `json:"widgets" validate:"-"`
	Palette     Palette    `json:"palette"`
	CoverImage  string     `json:"cover_image,omitempty" validate:"omitempty,url"`
	ClosingText string     `json:"closing_text,omitempty"`
}

// Validate checks field formats and widget id uniqueness.
func (c *Configuration) Validate(maxWidgets int) error {
	if err := validator.Check(c); err != nil {
		return err
	}
	if len(c.Widgets) == 0 {
		return ErrNoWidgets
	}
	if maxWidgets > 0 && len(c.Widgets) > maxWidgets {
		return fmt.Errorf("%w: %d > %d", ErrTooManyWidgets, len(c.Widgets), maxWidgets)
	}

	seen := make(map[string]bool, len(c.Widgets))
	for i, w := range c.Widgets {
		if w.ID() == "" {
			return fmt.Errorf("%w (widget %d)", ErrMissingWidgetID, i)
		}
		if seen[w.ID()] {
			return fmt.Errorf("%w: %s", ErrDuplicateWidgets, w.ID())
		}
		seen[w.ID()] = true

		if cs, ok := w.(*ColorSettings); ok {
			if err := validator.Check(&cs.Palette); err != nil {
				return fmt.Errorf("widget %s: %w", w.ID(), err)
			}
		}
	}
	return nil
}

// PeriodCode is the configured period, defaulting to the last 12 months.
func (c *Configuration) PeriodCode() string {
	if c.Period == "" {
		return "12m"
	}
	return c.Period
}
