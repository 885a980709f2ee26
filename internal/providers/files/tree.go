package files

import (
	"path"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// RootName is the label of the tree root
const RootName = "This PC"

// Entry types
const (
	TypeFolder = "folder"
	TypeFile   = "file"
)

// Entry is one item in a folder listing
type Entry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Size         string `json:"size,omitempty"`
	Bytes        int    `json:"bytes,omitempty"`
	MIME         string `json:"mime,omitempty"`
	LastModified string `json:"lastModified,omitempty"`
}

type node struct {
	name     string
	path     string
	folder   bool
	content  []byte
	modified string
	children []*node
}

func folder(name string, children ...*node) *node {
	return &node{name: name, folder: true, children: children}
}

func file(name, modified string, content []byte) *node {
	return &node{name: name, modified: modified, content: content}
}

// index assigns root-relative paths
func (n *node) index(parent string) {
	for _, c := range n.children {
		c.path = path.Join(parent, c.name)
		c.index(c.path)
	}
}

func (n *node) child(name string) (*node, bool) {
	for _, c := range n.children {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

func (n *node) walk(fn func(*node)) {
	for _, c := range n.children {
		fn(c)
		c.walk(fn)
	}
}

func (n *node) entry() Entry {
	if n.folder {
		return Entry{ID: n.path, Name: n.name, Type: TypeFolder}
	}
	return Entry{
		ID:           n.path,
		Name:         n.name,
		Type:         TypeFile,
		Size:         humanize.Bytes(uint64(len(n.content))),
		Bytes:        len(n.content),
		MIME:         mimetype.Detect(n.content).String(),
		LastModified: n.modified,
	}
}

func (n *node) entries() []Entry {
	out := make([]Entry, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c.entry())
	}
	return out
}

// SidebarItem is a quick access shortcut
type SidebarItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Sidebar lists the quick access shortcuts in display order
var Sidebar = []SidebarItem{
	{ID: "home", Name: "Home"},
	{ID: "documents", Name: "Documents"},
	{ID: "downloads", Name: "Downloads"},
	{ID: "desktop", Name: "Desktop"},
}

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x10\x00\x00\x00\x10\x08\x02\x00\x00\x00")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	zipHeader  = []byte("PK\x03\x04\x14\x00\x00\x00\x08\x00")
	lnkHeader  = []byte("L\x00\x00\x00\x01\x14\x02\x00\x00\x00\x00\x00\xc0\x00\x00\x00\x00\x00\x00F")
)

// mockTree builds the static file system shown by every explorer window
func mockTree() *node {
	root := folder(RootName,
		folder("My Documents",
			file("notes.txt", "2023-10-24", []byte("Meeting notes\n- ship the taskbar\n- fix window snapping\n")),
			file("budget.csv", "2023-10-22", []byte("month,amount\njan,1200\nfeb,950\n")),
			file("Resume.pdf", "2023-09-30", []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")),
			folder("Projects",
				folder("webdesk",
					file("plan.txt", "2023-10-27", []byte("Window manager first, apps second.\n")),
					file("package.json", "2023-10-27", []byte(`{"name": "webdesk", "version": "1.0.0"}`)),
				),
			),
		),
		folder("Images",
			file("sunset.png", "2023-08-14", pngHeader),
			file("beach.jpg", "2023-08-15", jpegHeader),
		),
		file("Report.docx", "2023-10-26", zipHeader),
		file("Settings.lnk", "2023-10-25", lnkHeader),
		folder("Home",
			file("welcome.txt", "2023-10-01", []byte("Welcome to your desktop.\n")),
		),
		folder("Documents",
			file("todo.md", "2023-10-20", []byte("# Todo\n\n- water plants\n")),
			file("config.json", "2023-10-19", []byte(`{"theme": "light", "accent": "#0078D4"}`)),
		),
		folder("Downloads",
			file("installer.zip", "2023-10-18", zipHeader),
		),
		folder("Desktop",
			file("shortcuts.txt", "2023-10-17", []byte("Terminal\nNotes\n")),
		),
	)
	root.index("")
	return root
}
