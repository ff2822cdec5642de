package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirm prompts the user with a yes/no question. Returns true for yes.
func Confirm(prompt string) bool {
	return confirm(os.Stdin, os.Stdout, StyleWarning.Render(prompt))
}

// ConfirmDanger is like Confirm but styled with the error color, for
// destructive actions such as removing an account.
func ConfirmDanger(prompt string) bool {
	return confirm(os.Stdin, os.Stdout, StyleError.Render("⚠ "+prompt))
}

// Prompt asks for a line of input and returns it trimmed; def is returned
// for an empty answer.
func Prompt(label, def string) string {
	return prompt(os.Stdin, os.Stdout, label, def)
}

func confirm(in io.Reader, out io.Writer, label string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", label)
	line, _ := bufio.NewReader(in).ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}

func prompt(in io.Reader, out io.Writer, label, def string) string {
	if def != "" {
		fmt.Fprintf(out, "%s %s: ", StyleInfo.Render(label), StyleMeta.Render("["+def+"]"))
	} else {
		fmt.Fprintf(out, "%s: ", StyleInfo.Render(label))
	}
	line, _ := bufio.NewReader(in).ReadString('\n')
	if line = strings.TrimSpace(line); line != "" {
		return line
	}
	return def
}
