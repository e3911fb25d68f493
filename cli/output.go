package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pfeifer.dev/roadlimit/limiter"
	"pfeifer.dev/roadlimit/navi"
)

var (
	labelStyle  = lipgloss.NewStyle().Bold(true).Width(26)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const SPEED_STEP = 5

type outputModel struct {
	output   navi.Published
	valid    bool
	speed    float64
	isMetric bool
	target   limiter.Result
}

func (m outputModel) Update(msg tea.Msg, mm *uiModel) (outputModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "+":
			m.speed += SPEED_STEP
		case "down", "-":
			m.speed = max(0, m.speed-SPEED_STEP)
		case "esc", "q":
			mm.state = showMenu
		}
	case TickMsg:
		out, success := mm.advisory.Read()
		if success {
			m.valid = true
			m.output = out
		}
		m.isMetric = mm.settings.IsMetric
		if m.valid {
			m.target = mm.limiter.GetMaxSpeedWith(m.speed, mm.settings.IsMetric, limiter.ThresholdsFromSettings(mm.settings))
		}
	}
	return m, nil
}

func row(label string, value any) string {
	return labelStyle.Render(label) + fmt.Sprint(value) + "\n"
}

func (m outputModel) View() string {
	if !m.valid {
		return docStyle.Render("waiting for road limit advisories...\n\n" + statusStyle.Render("(esc to return)"))
	}
	o := m.output
	active := fmt.Sprint(o.Active)
	if o.Active >= 100 {
		active = activeStyle.Render(active)
	}
	units := "mph"
	if m.isMetric {
		units = "km/h"
	}
	s := row("active:", active) +
		row("road name:", o.XRoadName) +
		row("road limit speed:", o.RoadLimitSpeed) +
		row("highway:", o.IsHighway) +
		row("camera type:", o.CamType) +
		row("camera limit:", o.CamLimitSpeed) +
		row("camera distance:", o.CamLimitSpeedLeftDist) +
		row("section limit:", o.SectionLimitSpeed) +
		row("section distance:", o.SectionLeftDist) +
		row("section average:", o.SectionAvgSpeed) +
		row("turn:", fmt.Sprintf("%d in %d", o.XTurnInfo, o.XDistToTurn)) +
		row("speed limit:", fmt.Sprintf("%d in %d", o.XSpdLimit, o.XSpdDist)) +
		row("sign type:", o.XSignType) +
		"\n" +
		row("cluster speed:", fmt.Sprintf("%.0f %s", m.speed, units)) +
		row("target speed:", m.target.Speed) +
		row("slowdown started:", m.target.JustStarted) +
		row("log:", m.target.Log)
	return docStyle.Render(s + "\n" + statusStyle.Render("(up/down to change speed, esc to return)"))
}
