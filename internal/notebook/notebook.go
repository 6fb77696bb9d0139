// Package notebook reads and writes Jupyter notebooks (nbformat v4 JSON).
//
// Only the parts of the format the governance tools touch are modelled;
// everything else is carried through as raw JSON so a load/save cycle does
// not drop outputs or kernel metadata.
package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Extension is the file extension of notebook documents.
const Extension = ".ipynb"

// Cell types.
const (
	CellMarkdown = "markdown"
	CellCode     = "code"
	CellRaw      = "raw"
)

// ErrInvalidFormat is returned when a file is not a parseable notebook.
var ErrInvalidFormat = errors.New("invalid notebook format")

// Notebook is an nbformat v4 document.
type Notebook struct {
	Cells         []*Cell                    `json:"cells"`
	Metadata      map[string]json.RawMessage `json:"metadata"`
	NBFormat      int                        `json:"nbformat"`
	NBFormatMinor int                        `json:"nbformat_minor"`
}

// Cell is a single notebook cell.
type Cell struct {
	CellType       string                     `json:"cell_type"`
	ID             string                     `json:"id,omitempty"`
	Metadata       map[string]json.RawMessage `json:"metadata"`
	Source         Source                     `json:"source"`
	Attachments    json.RawMessage            `json:"attachments,omitempty"`
	ExecutionCount json.RawMessage            `json:"execution_count,omitempty"`
	Outputs        json.RawMessage            `json:"outputs,omitempty"`
}

// Source is cell text. On disk it is either a string or a list of lines;
// it is always written back as a list of lines.
type Source string

// UnmarshalJSON accepts both the string and the line-list encodings.
func (s *Source) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Source(str)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("cell source must be a string or list of strings: %w", err)
	}
	*s = Source(strings.Join(lines, ""))
	return nil
}

// MarshalJSON writes the source as a list of lines, each keeping its
// trailing newline except the last.
func (s Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Lines())
}

// Lines splits the source the way nbformat stores it.
func (s Source) Lines() []string {
	if s == "" {
		return []string{}
	}
	return strings.SplitAfter(string(s), "\n")
}

func (s Source) String() string {
	return string(s)
}

// NewMarkdownCell creates a markdown cell with the given text.
func NewMarkdownCell(text string) *Cell {
	return &Cell{
		CellType: CellMarkdown,
		ID:       newCellID(),
		Metadata: map[string]json.RawMessage{},
		Source:   Source(text),
	}
}

// NewCodeCell creates an unexecuted code cell.
func NewCodeCell(code string) *Cell {
	return &Cell{
		CellType:       CellCode,
		ID:             newCellID(),
		Metadata:       map[string]json.RawMessage{},
		Source:         Source(code),
		ExecutionCount: json.RawMessage("null"),
		Outputs:        json.RawMessage("[]"),
	}
}

// newCellID returns a random cell id as nbformat 4.5 requires.
func newCellID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// SetTags replaces the cell's tags (papermill reads the "parameters" tag).
func (c *Cell) SetTags(tags ...string) {
	data, _ := json.Marshal(tags)
	if c.Metadata == nil {
		c.Metadata = map[string]json.RawMessage{}
	}
	c.Metadata["tags"] = data
}

// New returns an empty v4.5 notebook.
func New() *Notebook {
	return &Notebook{
		Cells:         []*Cell{},
		Metadata:      map[string]json.RawMessage{},
		NBFormat:      4,
		NBFormatMinor: 5,
	}
}

// Parse decodes notebook JSON. Syntax and shape errors wrap ErrInvalidFormat.
func Parse(data []byte) (*Notebook, error) {
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if nb.NBFormat != 0 && nb.NBFormat < 4 {
		return nil, fmt.Errorf("%w: nbformat %d is not supported (need 4)", ErrInvalidFormat, nb.NBFormat)
	}
	for i, c := range nb.Cells {
		if c == nil {
			return nil, fmt.Errorf("%w: cell %d is null", ErrInvalidFormat, i)
		}
	}
	return &nb, nil
}

// Load reads and parses the notebook at path. Read errors are returned as-is.
func Load(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	nb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

// Marshal encodes the notebook with the single-space indentation Jupyter uses.
func (nb *Notebook) Marshal() ([]byte, error) {
	if nb.Cells == nil {
		nb.Cells = []*Cell{}
	}
	if nb.Metadata == nil {
		nb.Metadata = map[string]json.RawMessage{}
	}
	for _, c := range nb.Cells {
		if c.Metadata == nil {
			c.Metadata = map[string]json.RawMessage{}
		}
	}
	data, err := json.MarshalIndent(nb, "", " ")
	if err != nil {
		return nil, fmt.Errorf("encode notebook: %w", err)
	}
	return append(data, '\n'), nil
}

// FirstCell returns the first cell or nil for an empty notebook.
func (nb *Notebook) FirstCell() *Cell {
	if len(nb.Cells) == 0 {
		return nil
	}
	return nb.Cells[0]
}
