package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hmans/library/internal/library"
)

// AuthorNode groups an author with the books that reference it.
type AuthorNode struct {
	Author *library.Author
	Books  []*library.Book
}

// Tree is the catalogue arranged by author. Orphans holds books whose
// authorId matches no author.
type Tree struct {
	Authors []*AuthorNode
	Orphans []*library.Book
}

// TreeJSON is the JSON-serializable version of Tree.
type TreeJSON struct {
	Authors []AuthorJSON    `json:"authors"`
	Orphans []*library.Book `json:"orphans,omitempty"`
}

// AuthorJSON is an author with its books inlined.
type AuthorJSON struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Books []*library.Book `json:"books"`
}

// BuildTree groups books under their authors, keeping insertion order on
// both levels.
func BuildTree(cat *library.Catalog) *Tree {
	nodes := make([]*AuthorNode, len(cat.Authors))
	byID := make(map[int]*AuthorNode, len(cat.Authors))
	for i, a := range cat.Authors {
		nodes[i] = &AuthorNode{Author: a, Books: []*library.Book{}}
		// first author wins, matching lookup by linear scan
		if _, ok := byID[a.ID]; !ok {
			byID[a.ID] = nodes[i]
		}
	}

	tree := &Tree{Authors: nodes}
	for _, b := range cat.Books {
		if node, ok := byID[b.AuthorID]; ok {
			node.Books = append(node.Books, b)
		} else {
			tree.Orphans = append(tree.Orphans, b)
		}
	}
	return tree
}

// ToJSON converts a Tree to its JSON-serializable form.
func (t *Tree) ToJSON() *TreeJSON {
	out := &TreeJSON{
		Authors: make([]AuthorJSON, len(t.Authors)),
		Orphans: t.Orphans,
	}
	for i, node := range t.Authors {
		out.Authors[i] = AuthorJSON{ID: node.Author.ID, Name: node.Author.Name, Books: node.Books}
	}
	return out
}

// Tree rendering constants
const (
	treeBranch     = "├─ "
	treeLastBranch = "└─ "
	treeIndent     = 3 // width of connector (├─  or └─ )
)

// RenderTree renders the tree with styled ID and name columns.
func RenderTree(t *Tree) string {
	var sb strings.Builder

	idWidth := 2 // minimum for "ID" header
	for _, node := range t.Authors {
		idWidth = max(idWidth, len(strconv.Itoa(node.Author.ID)))
		for _, b := range node.Books {
			idWidth = max(idWidth, len(strconv.Itoa(b.ID))+treeIndent)
		}
	}
	for _, b := range t.Orphans {
		idWidth = max(idWidth, len(strconv.Itoa(b.ID))+treeIndent)
	}
	idWidth += 2 // padding

	idStyle := lipgloss.NewStyle().Width(idWidth)
	headerCol := lipgloss.NewStyle().Foreground(ColorMuted)

	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		idStyle.Render(headerCol.Render("ID")),
		headerCol.Render("NAME"),
	))
	sb.WriteString("\n")
	sb.WriteString(Muted.Render(strings.Repeat("─", idWidth+40)))
	sb.WriteString("\n")

	for _, node := range t.Authors {
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			idStyle.Render(ID.Render(strconv.Itoa(node.Author.ID))),
			Title.Render(node.Author.Name),
		))
		sb.WriteString("\n")
		renderBooks(&sb, node.Books, idWidth)
	}

	if len(t.Orphans) > 0 {
		sb.WriteString(Warning.Render("(unknown author)"))
		sb.WriteString("\n")
		renderBooks(&sb, t.Orphans, idWidth)
	}

	return sb.String()
}

// renderBooks renders books as children of the preceding author row.
func renderBooks(sb *strings.Builder, books []*library.Book, idWidth int) {
	for i, b := range books {
		connector := treeBranch
		if i == len(books)-1 {
			connector = treeLastBranch
		}

		id := strconv.Itoa(b.ID)
		visualWidth := runeWidth(connector) + len(id)
		padding := ""
		if idWidth > visualWidth {
			padding = strings.Repeat(" ", idWidth-visualWidth)
		}

		sb.WriteString(TreeLine.Render(connector))
		sb.WriteString(Muted.Render(id))
		sb.WriteString(padding)
		sb.WriteString(b.Name)
		sb.WriteString("\n")
	}
}

// runeWidth returns the visual width of a string (counting runes, not bytes).
// This assumes all runes are single-width (which works for our tree connectors).
func runeWidth(s string) int {
	return len([]rune(s))
}
