package shell

import (
	"os"
	"os/user"
	"strings"

	"github.com/fatih/color"
)

// DefaultPrompt shows the working directory like the shell always has.
const DefaultPrompt = `\w\$ `

// prompt renders the prompt template.
func (s *Shell) prompt() string {
	template := s.Prompt
	if template == "" {
		template = DefaultPrompt
	}

	paint := func(attrs ...color.Attribute) func(string) string {
		return func(text string) string {
			if !s.Color {
				return text
			}
			c := color.New(attrs...)
			c.EnableColor()
			return c.Sprint(text)
		}
	}
	green := paint(color.FgGreen, color.Bold)
	blue := paint(color.FgBlue, color.Bold)

	username := s.Env.Getenv("USER")
	if u, err := user.Current(); err == nil {
		username = u.Username
	}

	host, _ := os.Hostname()
	if i := strings.IndexByte(host, '.'); i >= 0 {
		host = host[:i]
	}

	sign := "$"
	if os.Geteuid() == 0 {
		sign = "#"
	}

	return strings.NewReplacer(
		`\u`, green(username),
		`\h`, green(host),
		`\w`, blue(s.displayDir()),
		`\$`, sign,
	).Replace(template)
}

// displayDir is the working directory with the home directory shown as ~.
func (s *Shell) displayDir() string {
	wd, err := os.Getwd()
	if err != nil {
		wd = s.Env.Getenv("PWD")
	}

	home := s.Env.Getenv("HOME")
	switch {
	case home == "" || home == "/":
		return wd
	case wd == home:
		return "~"
	case strings.HasPrefix(wd, home+"/"):
		return "~" + strings.TrimPrefix(wd, home)
	default:
		return wd
	}
}
