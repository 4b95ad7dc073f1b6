package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Flag group keys for the `group` struct tag
const (
	GroupDetection = "detection"
	GroupIO        = "io"
)

// flagGroups lists help sections in display order. Ungrouped flags come first.
var flagGroups = []kong.Group{
	{Key: GroupDetection, Title: "Detection", Description: "How quiet passages are found."},
	{Key: GroupIO, Title: "Input/Output", Description: "Where results go and how ffmpeg is run."},
}

// Groups registers the help sections with kong.
func Groups() kong.Option {
	return kong.ExplicitGroups(flagGroups)
}

var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00")).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAAA")).
			Bold(true)

	helpNoteStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)

// helpEntry is one line of help: a styled left column and its description.
type helpEntry struct {
	name string
	help string
	note string // trailing muted text, such as a default
}

// helpSection is a titled block of entries.
type helpSection struct {
	title   string
	desc    string
	entries []helpEntry
}

// StyledHelpPrinter creates a help printer that renders quietcut's flags
// grouped by concern, with aligned columns.
func StyledHelpPrinter(options kong.HelpOptions) func(options kong.HelpOptions, ctx *kong.Context) error {
	return func(options kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render(AppTitle))
		sb.WriteString("\n")
		if ctx.Model.Help != "" {
			sb.WriteString(helpDescStyle.Render(ctx.Model.Help))
			sb.WriteString("\n")
		}

		sb.WriteString(helpSectionStyle.Render("Usage:"))
		fmt.Fprintf(&sb, "\n  %s [flags] <files> ...\n", ctx.Model.Name)

		sections := append([]helpSection{argumentSection(ctx)}, flagSections(ctx)...)
		for _, s := range sections {
			writeSection(&sb, s, !options.Compact)
		}

		sb.WriteString("\n")
		sb.WriteString(helpNoteStyle.Render("Flags override values from --config; the config file overrides built-in defaults."))
		sb.WriteString("\n")
		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	}
}

func writeSection(w io.Writer, s helpSection, withDesc bool) {
	if len(s.entries) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s\n", helpSectionStyle.Render(s.title+":"))
	if withDesc && s.desc != "" {
		fmt.Fprintf(w, "  %s\n", helpNoteStyle.Render(s.desc))
	}

	// Pad before styling so escape codes do not skew the column.
	width := 0
	for _, e := range s.entries {
		width = max(width, len(e.name))
	}
	style := helpFlagStyle
	if s.title == "Arguments" {
		style = helpArgStyle
	}
	for _, e := range s.entries {
		line := "  " + style.Render(fmt.Sprintf("%-*s", width, e.name))
		if e.help != "" {
			line += "  " + e.help
		}
		if e.note != "" {
			line += " " + helpNoteStyle.Render(e.note)
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func argumentSection(ctx *kong.Context) helpSection {
	s := helpSection{title: "Arguments"}
	for _, arg := range ctx.Model.Node.Positional {
		s.entries = append(s.entries, helpEntry{name: arg.Summary(), help: arg.Help})
	}
	return s
}

// flagSections splits the model's flags into the general section and one
// section per known group, in flagGroups order. Unknown groups follow in the
// order they are first seen.
func flagSections(ctx *kong.Context) []helpSection {
	general := helpSection{
		title:   "Flags",
		entries: []helpEntry{{name: "-h, --help", help: "Show context-sensitive help."}},
	}

	byKey := map[string]*helpSection{}
	var order []string
	for _, g := range flagGroups {
		byKey[g.Key] = &helpSection{title: g.Title, desc: g.Description}
		order = append(order, g.Key)
	}

	for _, f := range ctx.Model.Node.Flags {
		if f.Name == "help" || f.Hidden {
			continue
		}
		entry := flagEntry(f)

		if f.Group == nil {
			general.entries = append(general.entries, entry)
			continue
		}
		s, ok := byKey[f.Group.Key]
		if !ok {
			s = &helpSection{title: f.Group.Title, desc: f.Group.Description}
			byKey[f.Group.Key] = s
			order = append(order, f.Group.Key)
		}
		s.entries = append(s.entries, entry)
	}

	sections := []helpSection{general}
	for _, key := range order {
		sections = append(sections, *byKey[key])
	}
	return sections
}

func flagEntry(f *kong.Flag) helpEntry {
	name := "    --" + f.Name
	if f.Short != 0 {
		name = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
	}
	if !f.IsBool() && f.PlaceHolder != "" {
		name += "=" + strings.ToUpper(f.PlaceHolder)
	}

	e := helpEntry{name: name, help: f.Help}
	if f.HasDefault && f.Default != "" {
		e.note = "(default: " + f.Default + ")"
	}
	return e
}
