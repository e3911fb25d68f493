package cli

import (
	"fmt"

	"github.com/manifoldco/promptui"

	"pfeifer.dev/roadlimit/settings"
)

const (
	promptSave = "Save"
	promptQuit = "Quit"
)

// editSettings walks the settings one prompt at a time. Used where a full
// screen terminal is not available.
func editSettings() {
	s := settings.Settings{}
	s.Load()

	titles := []string{}
	for _, f := range settingFields {
		titles = append(titles, f.title)
	}
	titles = append(titles, promptSave, promptQuit)

	for {
		sel := promptui.Select{
			Label: "Select Setting",
			Items: titles,
			Size:  len(titles),
		}
		_, result, err := sel.Run()
		if err != nil {
			fmt.Printf("Prompt failed %v\n", err)
			return
		}

		switch result {
		case promptQuit:
			return
		case promptSave:
			s.Save()
			fmt.Println("Settings saved")
			return
		}

		field, ok := fieldByTitle(result)
		if !ok {
			continue
		}
		probe := s
		prompt := promptui.Prompt{
			Label:   field.title,
			Default: field.get(&s),
			Validate: func(input string) error {
				return field.set(&probe, input)
			},
		}
		if field.Type == Bool {
			prompt.Label = field.title + " (true/false)"
		}
		value, err := prompt.Run()
		if err != nil {
			fmt.Printf("Prompt failed %v\n", err)
			continue
		}
		if err := field.set(&s, value); err != nil {
			fmt.Println(err)
		}
	}
}
