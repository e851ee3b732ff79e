// Package starters draws the box of canned prompts offered on a fresh
// conversation.
package starters

import (
	"fmt"
	"strings"

	"agentchat/pkg/ui/components/utils"
	"agentchat/pkg/ui/styles"
	"agentchat/pkg/version"

	"github.com/mattn/go-runewidth"
)

// MaxPrompts is the number of prompts reachable through alt+1..alt+N.
const MaxPrompts = 4

const maxBoxWidth = 60

// Key returns the shortcut label for the prompt at index i.
func Key(i int) string {
	return fmt.Sprintf("Alt+%d", i+1)
}

// Prompt returns the prompt bound to the shortcut alt+n (1-based).
func Prompt(prompts []string, n int) (string, bool) {
	if n < 1 || n > MaxPrompts || n > len(prompts) {
		return "", false
	}
	return prompts[n-1], true
}

// Render draws the starter prompts inside a box no wider than width.
// It returns an empty string when there are no prompts.
func Render(prompts []string, width int) string {
	if len(prompts) == 0 {
		return ""
	}
	if len(prompts) > MaxPrompts {
		prompts = prompts[:MaxPrompts]
	}

	inner := width - 2
	if inner > maxBoxWidth {
		inner = maxBoxWidth
	}
	if inner < 10 {
		inner = 10
	}

	makeLine := func(content string, visualWidth int) string {
		pad := inner - visualWidth
		if pad < 0 {
			pad = 0
		}
		return styles.StarterBorderStyle.Render("│") + content + strings.Repeat(" ", pad) + styles.StarterBorderStyle.Render("│")
	}

	top := styles.StarterBorderStyle.Render("╭" + strings.Repeat("─", inner) + "╮")
	bottom := styles.StarterBorderStyle.Render("╰" + strings.Repeat("─", inner) + "╯")

	lines := []string{top}

	header := utils.TruncateToWidth(" Try one of these:", inner)
	lines = append(lines, makeLine(styles.StarterHeaderStyle.Render(header), runewidth.StringWidth(header)))

	for i, p := range prompts {
		key := fmt.Sprintf(" %-6s", Key(i))
		keyWidth := runewidth.StringWidth(key)
		text := utils.TruncateToWidth(p, inner-keyWidth-1)
		line := styles.StarterKeyStyle.Render(key) + styles.TextStyle.Render(text)
		lines = append(lines, makeLine(line, keyWidth+runewidth.StringWidth(text)))
	}

	versionText := utils.TruncateToWidth("agentchat "+version.Summary(), inner-2)
	versionPad := (inner - runewidth.StringWidth(versionText)) / 2
	versionLine := strings.Repeat(" ", versionPad) + styles.VersionStyle.Render(versionText)
	lines = append(lines, makeLine(versionLine, versionPad+runewidth.StringWidth(versionText)))

	lines = append(lines, bottom)
	return strings.Join(lines, "\n")
}
