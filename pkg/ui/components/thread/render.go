package thread

import (
	"strings"

	"agentchat/pkg/chat"
	"agentchat/pkg/ui/components/utils"
	"agentchat/pkg/ui/styles"

	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"github.com/mattn/go-runewidth"
)

type span struct {
	text string
	bold bool
}

func osc52Sequence(text string) string {
	return osc52.New(text).String()
}

func roleLabel(role chat.Role) string {
	if role == chat.RoleUser {
		return styles.UserLabelStyle.Render("You")
	}
	return styles.AssistantLabelStyle.Render("Assistant")
}

// renderMessages lays out every message as a label line followed by its
// wrapped body, with a blank line between messages.
func renderMessages(messages []chat.Message, width int) []string {
	var lines []string
	for i, msg := range messages {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, roleLabel(msg.Role))
		lines = append(lines, renderMarkdown(msg.Content, width)...)
	}
	return lines
}

// renderMarkdown understands the handful of constructs agents commonly emit:
// fenced code, headings, bullets and **bold**.
func renderMarkdown(content string, width int) []string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = stripControl(normalized)

	var out []string
	inCode := false
	for _, line := range strings.Split(normalized, "\n") {
		line = strings.ReplaceAll(line, "\t", "    ")
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			for _, part := range splitByWidth(line, width) {
				out = append(out, styles.CodeStyle.Render(utils.PadPlain(part, width)))
			}
			continue
		}

		switch {
		case trimmed == "":
			out = append(out, "")
		case strings.HasPrefix(trimmed, "#"):
			heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			out = append(out, wrapSpans([]span{{text: heading, bold: true}}, width, "")...)
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			out = append(out, wrapSpans(parseBold(trimmed[2:]), width, "• ")...)
		default:
			out = append(out, wrapSpans(parseBold(line), width, "")...)
		}
	}

	if len(out) == 0 {
		return []string{""}
	}
	return out
}

// parseBold splits line into words, toggling bold at every "**".
func parseBold(line string) []span {
	var spans []span
	bold := false
	for i, segment := range strings.Split(line, "**") {
		if i > 0 {
			bold = !bold
		}
		for _, word := range strings.Fields(segment) {
			spans = append(spans, span{text: word, bold: bold})
		}
	}
	return spans
}

// wrapSpans greedily fills lines up to width. Continuation lines are indented
// by the width of prefix.
func wrapSpans(spans []span, width int, prefix string) []string {
	if width <= 0 {
		return []string{""}
	}
	indent := strings.Repeat(" ", runewidth.StringWidth(prefix))

	var lines []string
	var sb strings.Builder
	lineWidth := 0
	start := func() {
		if len(lines) == 0 {
			sb.WriteString(prefix)
		} else {
			sb.WriteString(indent)
		}
		lineWidth = runewidth.StringWidth(indent)
	}
	flush := func() {
		lines = append(lines, sb.String())
		sb.Reset()
		lineWidth = 0
	}

	start()
	empty := true
	for _, s := range spans {
		for _, part := range splitByWidth(s.text, width-runewidth.StringWidth(indent)) {
			partWidth := runewidth.StringWidth(part)
			if !empty && lineWidth+1+partWidth > width {
				flush()
				start()
				empty = true
			}
			if !empty {
				sb.WriteString(styles.TextStyle.Render(" "))
				lineWidth++
			}
			style := styles.TextStyle
			if s.bold {
				style = styles.TextBoldStyle
			}
			sb.WriteString(style.Render(part))
			lineWidth += partWidth
			empty = false
		}
	}
	if !empty || len(lines) == 0 {
		flush()
	}
	return lines
}

func splitByWidth(text string, width int) []string {
	if width <= 0 || text == "" {
		return []string{text}
	}

	var parts []string
	var sb strings.Builder
	current := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if current+w > width && current > 0 {
			parts = append(parts, sb.String())
			sb.Reset()
			current = 0
		}
		sb.WriteRune(r)
		current += w
	}
	if sb.Len() > 0 {
		parts = append(parts, sb.String())
	}
	return parts
}

func stripControl(content string) string {
	var sb strings.Builder
	sb.Grow(len(content))
	for _, r := range content {
		if r == '\n' || r == '\t' {
			sb.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
