package commands

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// stdinIsTerminal reports whether stdin is interactive (not piped)
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// readPassword prompts for a secret without echoing it
func readPassword(label string) (string, error) {
	if !stdinIsTerminal() {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or DEBTDESK_PASSWORD env var)")
	}

	fmt.Print(label + ": ")
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println() // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

type roleOption struct {
	Value string
	Label string
}

var roleOptions = []roleOption{
	{Value: "seller", Label: "Seller"},
	{Value: "manager", Label: "Manager"},
}

// promptRole asks the user to pick a role for a new account
func promptRole() (string, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     "Select a role",
		Items:     roleOptions,
		Templates: templates,
		Size:      len(roleOptions),
	}

	index, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("role selection cancelled: %w", err)
	}

	return roleOptions[index].Value, nil
}
