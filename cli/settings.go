package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type settingsState int

const (
	showSettingsMenu settingsState = iota
	settingsExit
	settingsInput
	saveSettings
)

type settingsItem struct {
	title, desc string
	state       settingsState
	field       settingField
}

func (i settingsItem) Title() string       { return i.title }
func (i settingsItem) Description() string { return i.desc }
func (i settingsItem) FilterValue() string { return i.title }

type settingsModel struct {
	list         list.Model
	state        settingsState
	textInput    textinput.Model
	selectedItem settingsItem
	prompt       string
	status       string
}

func (m settingsModel) Update(msg tea.Msg, mm *uiModel) (settingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter && m.state == showSettingsMenu {
			it := m.list.SelectedItem().(settingsItem)
			m.selectedItem = it
			m.state = it.state
			switch m.state {
			case settingsExit:
				m.state = showSettingsMenu
				mm.state = showMenu
			case settingsInput:
				m.prompt = fmt.Sprintf("%s (current: %s)", it.title, it.field.get(&mm.settings))
				m.textInput.SetValue("")
				m.textInput.Focus()
			case saveSettings:
				m.state = showSettingsMenu
				mm.state = showMenu
				mm.settings.Save()
				m.status = "saved"
			}
			return m, nil
		}
		if m.state == settingsInput {
			switch msg.Type {
			case tea.KeyEsc:
				m.state = showSettingsMenu
				m.textInput.Blur()
				return m, nil
			case tea.KeyEnter:
				m.state = showSettingsMenu
				m.textInput.Blur()
				if err := m.selectedItem.field.set(&mm.settings, m.textInput.Value()); err != nil {
					m.status = err.Error()
				} else {
					m.status = fmt.Sprintf("%s set to %s (not saved)", m.selectedItem.title, m.selectedItem.field.get(&mm.settings))
				}
				return m, nil
			}
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-1)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m settingsModel) View() string {
	switch m.state {
	case settingsInput:
		return docStyle.Render(fmt.Sprintf(
			"%s\n\n%s\n\n%s",
			m.prompt,
			m.textInput.View(),
			"(esc to cancel)",
		) + "\n")
	default:
		return docStyle.Render(m.list.View()+"\n"+statusStyle.Render(m.status)) + "\n"
	}
}

func getSettingsModel() settingsModel {
	items := []list.Item{}
	for _, f := range settingFields {
		items = append(items, settingsItem{title: f.title, desc: f.desc, state: settingsInput, field: f})
	}
	items = append(items,
		settingsItem{
			title: "Save Settings",
			desc:  "Persists any updates to the settings across reboots",
			state: saveSettings,
		},
		settingsItem{
			title: "Return to Main Menu",
			desc:  "Exit settings configuration and return to the initial actions menu",
			state: settingsExit,
		},
	)

	listDelegate := list.NewDefaultDelegate()
	m := settingsModel{list: list.New(items, listDelegate, 0, 0), textInput: textinput.New()}
	m.list.Title = "Road Limit Settings"
	return m
}
