package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studiz/internal/ui/theme"
)

// Block-letter title.
const deskTitleFull = ` ███████╗████████╗██╗   ██╗██████╗ ██╗███████╗
 ██╔════╝╚══██╔══╝██║   ██║██╔══██╗██║╚══███╔╝
 ███████╗   ██║   ██║   ██║██║  ██║██║  ███╔╝
 ╚════██║   ██║   ██║   ██║██║  ██║██║ ███╔╝
 ███████║   ██║   ╚██████╔╝██████╔╝██║███████╗
 ╚══════╝   ╚═╝    ╚═════╝ ╚═════╝ ╚═╝╚══════╝`

const deskTitleCompact = "S · T · U · D · I · Z"

const deskSubtitle = "your terminal study buddy"

// contentWidth returns the uniform inner width used for all sections so
// the boxes visually align.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	title := deskTitleFull
	if compact {
		title = deskTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar shows how much the learner has saved so far.
func renderStatsBar(historyLen, bookmarkLen, cw int, compact bool) string {
	histStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	bookStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s",
			histStyle.Render(fmt.Sprintf("✎%d", historyLen)),
			bookStyle.Render(fmt.Sprintf("★%d", bookmarkLen)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s",
			histStyle.Render(fmt.Sprintf("✎ %d ASKED", historyLen)),
			bookStyle.Render(fmt.Sprintf("★ %d BOOKMARKED", bookmarkLen)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

const buttonWidth = 24

func renderMenuButtons(items []string, selected, cw int) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	var buttons []string
	for i, label := range items {
		if i == selected {
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		} else {
			buttons = append(buttons, normalBtn.Render(label))
		}
	}
	block := strings.Join(buttons, "\n")

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderMenuCompact renders menu items as plain lines for small terminals.
func renderMenuCompact(items []string, selected, cw int) string {
	var lines []string
	for i, label := range items {
		var line string
		if i == selected {
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Primary).
				Bold(true).
				Render(" ▸ " + label + " ")
		} else {
			line = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + label)
		}
		lines = append(lines, line)
	}
	block := strings.Join(lines, "\n")

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderDesk composes the home layout inside a double-border frame,
// centered in the available area.
func renderDesk(items []string, selected, historyLen, bookmarkLen, width, height int, compact bool) string {
	cw := contentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	if !compact {
		sections = append(sections, lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Italic(true).
			Render(deskSubtitle))
	}

	sections = append(sections, renderStatsBar(historyLen, bookmarkLen, cw, compact))

	if compact {
		sections = append(sections, renderMenuCompact(items, selected, cw))
	} else {
		sections = append(sections, renderMenuButtons(items, selected, cw))
	}

	content := strings.Join(sections, "\n\n")

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
