package prompter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Input is where prompts read from.
var Input io.Reader = os.Stdin

// Output is where prompt labels are written.
var Output io.Writer = os.Stdout

// PromptString prompts user for a string input
func PromptString(label string) (string, error) {
	fmt.Fprint(Output, label)
	return readLine()
}

// PromptPassword prompts user for a secret. Input is hidden when stdin is
// a terminal and read as a plain line otherwise, so secrets can be piped.
func PromptPassword(label string) (string, error) {
	fmt.Fprint(Output, label)

	if f, ok := Input.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytepw, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		fmt.Fprintln(Output) // New line after password input
		return strings.TrimSpace(string(bytepw)), nil
	}

	return readLine()
}

// PromptConfirm prompts user for yes/no confirmation
func PromptConfirm(label string) (bool, error) {
	fmt.Fprint(Output, label+" (y/n) ")
	input, err := readLine()
	if err != nil {
		return false, err
	}

	response := strings.ToLower(input)
	return response == "y" || response == "yes", nil
}

func readLine() (string, error) {
	reader := bufio.NewReader(Input)
	input, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
