// Package prompt runs the interactive questions: first-time settings,
// the day's amounts and the goal check at the end of a run.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"shoppingstats/internal/core"
	"shoppingstats/internal/settings"
)

const Welcome = "Hello there!\nYou went shopping, didn't you?\nI will need some numbers now.\n"

// meatWarning is the amount above which meat spending gets a remark.
const meatWarning = 50

// ErrNoInput is returned when input ends before a question is answered.
var ErrNoInput = errors.New("no more input")

type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Say prints a line.
func (p *Prompter) Say(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Ask prints q and returns the trimmed answer.
func (p *Prompter) Ask(q string) (string, error) {
	fmt.Fprint(p.out, q)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("read answer: %w", err)
		}
		return "", ErrNoInput
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// askYesNo repeats q until the answer is yes or no.
func (p *Prompter) askYesNo(q, retry string) (bool, error) {
	for {
		ans, err := p.Ask(q)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(ans) {
		case "yes":
			return true, nil
		case "no":
			return false, nil
		}
		p.Say(retry)
	}
}

// askAmount repeats q until the answer parses as a whole amount.
func (p *Prompter) askAmount(q string) (int64, error) {
	for {
		ans, err := p.Ask(q)
		if err != nil {
			return 0, err
		}
		v, err := core.ParseAmount(ans)
		if err == nil {
			return v, nil
		}
		p.Say("Oops! It wasn't a valid number, please try again.")
	}
}

func (p *Prompter) askGoal() (string, error) {
	for {
		ans, err := p.Ask("What's the maximum amount you want to spend monthly on shopping? ")
		if err != nil {
			return "", err
		}
		if ans != "" && strings.Trim(ans, "0123456789") == "" {
			return ans, nil
		}
		p.Say("Oops! I need a number, try again")
	}
}

// SetupSettings asks the first-run questions.
func (p *Prompter) SetupSettings() (settings.Settings, error) {
	var s settings.Settings
	p.Say("But first, please answer these questions:")

	for {
		cur, err := p.Ask("What's your currency? ")
		if err != nil {
			return s, err
		}
		ok, err := p.Ask(fmt.Sprintf("Your currency is %s, correct? ", cur))
		if err != nil {
			return s, err
		}
		if strings.EqualFold(ok, "yes") && cur != "" {
			s.Currency = cur
			break
		}
		p.Say("Oops! Try again")
	}

	veg, err := p.askYesNo("Are you a vegetarian? ", "Invalid input, only 'Yes' or 'No' please, try again!")
	if err != nil {
		return s, err
	}
	s.Vegetarian = "no"
	if veg {
		s.Vegetarian = "yes"
	}

	if s.Goal, err = p.askGoal(); err != nil {
		return s, err
	}
	return s, nil
}

// CollectEntry asks for the day's amounts until the user confirms them.
// Vegetarians are not asked about meat.
func (p *Prompter) CollectEntry(s settings.Settings) (core.Entry, error) {
	vegetarian := s.IsVegetarian()
	for {
		total, err := p.askAmount("What was the total spent today? ")
		if err != nil {
			return core.Entry{}, err
		}

		var meat int64
		if !vegetarian {
			if meat, err = p.askAmount("How much did you spend on meat today? "); err != nil {
				return core.Entry{}, err
			}
			switch {
			case meat == 0:
				p.Say("Going vegetarian are you?")
			case meat > meatWarning:
				p.Say("You promised to eat less meat, didn't you?")
			}
		}

		extra, err := p.askAmount("And how much was spent on extra items? ")
		if err != nil {
			return core.Entry{}, err
		}

		var summary string
		if vegetarian {
			summary = fmt.Sprintf("You spent %d %s in total,\nand %d %s was on extra items. Is that correct?\nEnter Yes or No. ",
				total, s.Currency, extra, s.Currency)
		} else {
			summary = fmt.Sprintf("You spent %d %s in total,\n%d %s on meat and %d %s on extra items. Is that correct?\nEnter Yes or No. ",
				total, s.Currency, meat, s.Currency, extra, s.Currency)
		}
		ok, err := p.askYesNo(summary, "Invalid input, try again!")
		if err != nil {
			return core.Entry{}, err
		}
		if ok {
			p.Say("Great!")
			return core.NewEntry(total, meat, extra), nil
		}
		p.Say("Let's start over then")
	}
}

// ChangeGoal offers to replace the monthly goal. It reports whether s changed.
func (p *Prompter) ChangeGoal(s *settings.Settings) (bool, error) {
	keep, err := p.askYesNo(
		fmt.Sprintf("Would you like to keep %s %s as your monthly maximum goal? ", s.Goal, s.Currency),
		"Oops, something went wrong. Try again with 'yes' or 'no'")
	if err != nil || keep {
		return false, err
	}
	goal, err := p.askGoal()
	if err != nil {
		return false, err
	}
	s.Goal = goal
	return true, nil
}

// WaitForExit blocks until the user presses enter. End of input is fine.
func (p *Prompter) WaitForExit() {
	if _, err := p.Ask("Hit the enter to exit. Thanks!"); err != nil && !errors.Is(err, ErrNoInput) {
		p.Say("%v", err)
	}
}
