package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pfeifer.dev/roadlimit/cereal"
	"pfeifer.dev/roadlimit/limiter"
	"pfeifer.dev/roadlimit/settings"
)

type mainState int

const (
	showMenu mainState = iota
	showSettings
	showOutput
	quit
)

var docStyle = lipgloss.NewStyle().Margin(1, 2)

type TickMsg time.Time

func tickEvery() tea.Cmd {
	return tea.Every(50*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

type uiModel struct {
	list     list.Model
	state    mainState
	settings settings.Settings
	output   outputModel
	config   settingsModel
	advisory *cereal.AdvisorySubscriber
	limiter  *limiter.Limiter
}

type item struct {
	title, desc string
	state       mainState
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

func initialModel(advisory *cereal.AdvisorySubscriber, start mainState) uiModel {
	items := []list.Item{
		item{title: "Watch", desc: "Watch the live advisories and the target speed they produce", state: showOutput},
		item{title: "Settings", desc: "Modify the road limit settings", state: showSettings},
		item{title: "Quit", desc: "Leave the interface", state: quit},
	}

	s := settings.Settings{}
	s.Load()

	listDelegate := list.NewDefaultDelegate()
	m := uiModel{
		list:     list.New(items, listDelegate, 0, 0),
		state:    start,
		settings: s,
		config:   getSettingsModel(),
		advisory: advisory,
		limiter:  limiter.New(advisory),
		output:   outputModel{speed: 60},
	}
	m.list.Title = "Road Limit Actions"
	return m
}

func (m uiModel) Init() tea.Cmd {
	return tickEvery()
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter && m.state == showMenu && m.list.FilterState() != list.Filtering {
			it := m.list.SelectedItem().(item)
			if it.state == quit {
				return m, tea.Quit
			}
			m.state = it.state
			return m, nil
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
		m.config, _ = m.config.Update(msg, &m)
	case TickMsg:
		m.output, _ = m.output.Update(msg, &m)
		return m, tickEvery()
	}

	var cmd tea.Cmd
	switch m.state {
	case showSettings:
		m.config, cmd = m.config.Update(msg, &m)
	case showOutput:
		m.output, cmd = m.output.Update(msg, &m)
	default:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m uiModel) View() string {
	switch m.state {
	case showSettings:
		return m.config.View()
	case showOutput:
		return m.output.View()
	}
	return docStyle.Render(m.list.View())
}

func runUI(topic string, start mainState) {
	advisory, err := cereal.NewAdvisorySubscriber(topic)
	if err != nil {
		fmt.Printf("Could not subscribe to %s: %v\n", topic, err)
		os.Exit(1)
	}
	defer advisory.Close()

	p := tea.NewProgram(initialModel(advisory, start), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
