package notion

import (
	"context"
	"fmt"
	"strings"
)

const defaultMaxDepth = 8

// MarkdownConverter turns the block tree of a page into Markdown.
type MarkdownConverter struct {
	client   *Client
	maxDepth int
}

// NewMarkdownConverter creates a converter backed by client.
func NewMarkdownConverter(client *Client) *MarkdownConverter {
	return &MarkdownConverter{client: client, maxDepth: defaultMaxDepth}
}

// PageToMarkdown fetches every block of a page and renders it. A page with no
// content blocks yields an empty string.
func (c *MarkdownConverter) PageToMarkdown(ctx context.Context, pageID string) (string, error) {
	blocks, err := c.PageBlocks(ctx, pageID)
	if err != nil {
		return "", err
	}
	return BlocksToMarkdown(blocks), nil
}

// PageBlocks fetches the block tree of a page, following pagination and
// nested children up to the converter's depth limit.
func (c *MarkdownConverter) PageBlocks(ctx context.Context, pageID string) ([]Block, error) {
	return c.fetchChildren(ctx, pageID, 0)
}

func (c *MarkdownConverter) fetchChildren(ctx context.Context, blockID string, depth int) ([]Block, error) {
	var blocks []Block
	cursor := ""
	for {
		list, err := c.client.ListBlockChildren(ctx, blockID, cursor)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, list.Results...)
		if !list.HasMore || list.NextCursor == nil || *list.NextCursor == "" {
			break
		}
		cursor = *list.NextCursor
	}

	if depth+1 >= c.maxDepth {
		return blocks, nil
	}
	for i := range blocks {
		if !blocks[i].HasChildren || isChildObject(blocks[i].Type) {
			continue
		}
		children, err := c.fetchChildren(ctx, blocks[i].ID, depth+1)
		if err != nil {
			return nil, err
		}
		blocks[i].Children = children
	}
	return blocks, nil
}

// child pages and databases are separate documents
func isChildObject(blockType string) bool {
	return blockType == "child_page" || blockType == "child_database"
}

// BlocksToMarkdown renders an already fetched block tree.
func BlocksToMarkdown(blocks []Block) string {
	var b strings.Builder
	prevList := ""
	number := 0

	for _, block := range blocks {
		kind := listKind(block.Type)
		if kind == "numbered" {
			if prevList != "numbered" {
				number = 0
			}
			number++
		}

		text := renderBlock(block, number)
		if text == "" {
			prevList = ""
			continue
		}

		if b.Len() > 0 {
			if kind != "" && kind == prevList {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}
		b.WriteString(text)
		prevList = kind
	}
	return b.String()
}

func listKind(blockType string) string {
	switch blockType {
	case "bulleted_list_item", "to_do":
		return "bulleted"
	case "numbered_list_item":
		return "numbered"
	}
	return ""
}

func renderBlock(block Block, number int) string {
	c := block.Content
	text := RenderRichText(c.RichText)

	var out string
	switch block.Type {
	case "paragraph":
		out = text
	case "heading_1":
		out = "# " + text
	case "heading_2":
		out = "## " + text
	case "heading_3":
		out = "### " + text
	case "bulleted_list_item":
		out = "- " + text
	case "numbered_list_item":
		out = fmt.Sprintf("%d. %s", number, text)
	case "to_do":
		mark := " "
		if c.Checked {
			mark = "x"
		}
		out = "- [" + mark + "] " + text
	case "quote":
		out = quoteLines(text)
	case "callout":
		if c.Icon != nil && c.Icon.Emoji != "" {
			text = c.Icon.Emoji + " " + text
		}
		out = quoteLines(text)
	case "toggle":
		out = text
	case "code":
		out = "```" + c.Language + "\n" + PlainText(c.RichText) + "\n```"
	case "divider":
		out = "---"
	case "equation":
		out = "$$\n" + c.Expression + "\n$$"
	case "image":
		out = fmt.Sprintf("![%s](%s)", PlainText(c.Caption), fileURL(c))
	case "bookmark", "embed", "link_preview":
		label := PlainText(c.Caption)
		if label == "" {
			label = c.URL
		}
		if c.URL != "" {
			out = fmt.Sprintf("[%s](%s)", label, c.URL)
		}
	default:
		return ""
	}

	if len(block.Children) == 0 {
		return out
	}

	children := BlocksToMarkdown(block.Children)
	if children == "" {
		return out
	}
	switch {
	case listKind(block.Type) != "":
		return out + "\n" + indentLines(children, "  ")
	case block.Type == "quote" || block.Type == "callout":
		return out + "\n" + quoteLines(children)
	case out == "":
		return children
	default:
		return out + "\n\n" + children
	}
}

func fileURL(c BlockContent) string {
	switch {
	case c.File != nil:
		return c.File.URL
	case c.External != nil:
		return c.External.URL
	}
	return ""
}

// PlainText concatenates the unformatted text of every run.
func PlainText(runs []RichText) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.PlainText)
	}
	return b.String()
}

// RenderRichText concatenates runs applying inline Markdown for annotations
// and links.
func RenderRichText(runs []RichText) string {
	var b strings.Builder
	for _, r := range runs {
		text := r.PlainText
		if text == "" {
			continue
		}
		a := r.Annotations
		if a.Code {
			text = "`" + text + "`"
		}
		if a.Bold {
			text = "**" + text + "**"
		}
		if a.Italic {
			text = "_" + text + "_"
		}
		if a.Strikethrough {
			text = "~~" + text + "~~"
		}
		if r.Href != nil && *r.Href != "" {
			text = "[" + text + "](" + *r.Href + ")"
		}
		b.WriteString(text)
	}
	return b.String()
}

func quoteLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
